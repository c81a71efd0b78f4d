package job

import (
	"fmt"

	"github.com/AdguardTeam/golibs/log"
	"github.com/wikitools/watchlist"
	"github.com/wikitools/watchlist/rules"
)

// StepResult is the outcome of a single step.
type StepResult struct {
	Step   *Step
	Result *watchlist.Result
	Err    error
}

// Run runs the steps in order.  A failing step doesn't stop the job, the
// engine leaves the host untouched on failure.  If j.Save is set and any step
// succeeded, the form is submitted once after the last step, and err is the
// submission error.
func (j *Job) Run(e *watchlist.Engine) (results []*StepResult, failed int, err error) {
	for i, s := range j.Steps {
		res, stepErr := s.Run(e)
		if stepErr != nil {
			log.Debug("job: step %d (%s) failed: %s", i, s.Mode, stepErr)
			failed++
		}

		results = append(results, &StepResult{
			Step:   s,
			Result: res,
			Err:    stepErr,
		})
	}

	if !j.Save {
		return results, failed, nil
	}

	if failed == len(j.Steps) {
		log.Debug("job: no step succeeded, not saving")

		return results, failed, nil
	}

	return results, failed, e.Save()
}

// Run runs a single step.
func (s *Step) Run(e *watchlist.Engine) (res *watchlist.Result, err error) {
	switch s.Mode {
	case rules.ModeByNamespace:
		return e.RemoveByNamespace(s.Namespace, s.Options)
	case rules.ModeRedLinks:
		return e.RemoveRedLinks(s.Options)
	case rules.ModeRedirects:
		return e.RemoveRedirects(s.Options)
	case rules.ModeStartsWith:
		return e.RemoveStartsWith(s.These, s.Options)
	case rules.ModeEndsWith:
		return e.RemoveEndsWith(s.These, s.Options)
	default:
		return nil, fmt.Errorf("%w: %s", rules.ErrUnknownMode, s.Mode)
	}
}
