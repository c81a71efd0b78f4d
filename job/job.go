// Package job loads batch files describing a sequence of removal operations
// and runs them against a single watchlist host.
//
// A job file may be YAML, JSON or TOML:
//
//	save: true
//	steps:
//	  - mode: namespace
//	    namespace: Template
//	    exceptions: ["Infobox"]
//	  - mode: endswith
//	    these: ["/doc", "/sandbox"]
//	    log: false
package job

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AdguardTeam/golibs/log"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/wikitools/watchlist"
	"github.com/wikitools/watchlist/rules"
)

// Step is a single removal operation.
type Step struct {
	// Options are the options of the operation.
	Options *watchlist.Options

	// Namespace is the namespace reference of a rules.ModeByNamespace step.
	Namespace string

	// These are the fragments of rules.ModeStartsWith and
	// rules.ModeEndsWith steps.
	These []string

	// Mode is the operation to run.
	Mode rules.Mode
}

// Job is a sequence of steps.
type Job struct {
	Steps []*Step

	// Save submits the form once after all steps have run.
	Save bool
}

// Load reads the job file at path.  The format is detected by the file
// extension.
func Load(fs afero.Fs, path string) (j *Job, err error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetDefault("save", false)

	err = v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("reading job %q: %w", filepath.Base(path), err)
	}

	j, err = fromViper(v)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", filepath.Base(path), err)
	}

	log.Debug("job: loaded %d steps from %s", len(j.Steps), path)

	return j, nil
}

// fromViper decodes the job from the loaded configuration.
func fromViper(v *viper.Viper) (j *Job, err error) {
	rawSteps, err := cast.ToSliceE(v.Get("steps"))
	if err != nil {
		return nil, fmt.Errorf("steps: %w: %s", watchlist.ErrInvalidArgumentShape, err)
	}

	j = &Job{
		Save: v.GetBool("save"),
	}
	for i, raw := range rawSteps {
		var s *Step
		s, err = newStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step at index %d: %w", i, err)
		}

		j.Steps = append(j.Steps, s)
	}

	return j, nil
}

// newStep decodes a single step.
func newStep(raw any) (s *Step, err error) {
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: expected a mapping, got %T", watchlist.ErrInvalidArgumentShape, raw)
	}

	m = lowerKeys(m)

	modeStr, err := cast.ToStringE(m["mode"])
	if err != nil {
		return nil, fmt.Errorf("mode: %w", err)
	}

	s = &Step{
		Options: watchlist.DefaultOptions(),
	}

	s.Mode, err = rules.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	if nsRaw, ok := m["namespace"]; ok {
		s.Namespace, err = cast.ToStringE(nsRaw)
		if err != nil {
			return nil, fmt.Errorf("namespace: %w", err)
		}
	}

	s.These, err = toStringList(m["these"])
	if err != nil {
		return nil, fmt.Errorf("these: %w", err)
	}

	s.Options.Exceptions, err = toStringList(m["exceptions"])
	if err != nil {
		return nil, fmt.Errorf("exceptions: %w", err)
	}

	err = setBool(&s.Options.Save, m, "save")
	if err != nil {
		return nil, err
	}

	err = setBool(&s.Options.Log, m, "log")
	if err != nil {
		return nil, err
	}

	return s, s.validate()
}

// validate checks that the step has the arguments its mode requires.
func (s *Step) validate() (err error) {
	switch s.Mode {
	case rules.ModeByNamespace:
		if s.Namespace == "" {
			return fmt.Errorf("namespace: %w", watchlist.ErrInvalidNamespace)
		}
	case rules.ModeStartsWith, rules.ModeEndsWith:
		if len(s.These) == 0 {
			return fmt.Errorf("these: %w: no fragments", watchlist.ErrInvalidArgumentShape)
		}
	default:
		// Go on.
	}

	return nil
}

// lowerKeys returns a copy of m with lowercased keys.  Viper lowercases the
// top-level keys only.
func lowerKeys(m map[string]any) (res map[string]any) {
	res = make(map[string]any, len(m))
	for k, v := range m {
		res[strings.ToLower(k)] = v
	}

	return res
}

// setBool sets *dst to the boolean value under key, if present.
func setBool(dst *bool, m map[string]any, key string) (err error) {
	raw, ok := m[key]
	if !ok {
		return nil
	}

	*dst, err = cast.ToBoolE(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	return nil
}

// toStringList converts a list value to a slice of strings.  A missing value
// is an empty list, a scalar is ErrInvalidArgumentShape.
func toStringList(raw any) (list []string, err error) {
	switch raw := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return raw, nil
	case []any:
		list = make([]string, 0, len(raw))
		for i, item := range raw {
			var s string
			s, err = cast.ToStringE(item)
			if err != nil {
				return nil, fmt.Errorf("item at index %d: %w: %s", i, watchlist.ErrInvalidArgumentShape, err)
			}

			list = append(list, s)
		}

		return list, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", watchlist.ErrInvalidArgumentShape, raw)
	}
}
