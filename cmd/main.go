package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AdguardTeam/golibs/log"
	goFlags "github.com/jessevdk/go-flags"
	"github.com/spf13/afero"
	"github.com/wikitools/watchlist"
	"github.com/wikitools/watchlist/filterlist"
	"github.com/wikitools/watchlist/filterutil"
	"github.com/wikitools/watchlist/htmlpage"
	"github.com/wikitools/watchlist/job"
	"github.com/wikitools/watchlist/rules"
)

// Options -- console arguments
type Options struct {
	// Verbose - should we write debug-level log
	Verbose bool `short:"v" long:"verbose" description:"Verbose output (optional)." optional:"yes" optional-value:"true"`

	// LogOutput - path to the log file
	LogOutput string `short:"o" long:"output" description:"Path to the log file. If not set, it writes to stderr." default:""`

	// Input - path to the saved watchlist page or the raw watchlist text file
	Input string `short:"i" long:"input" description:"Path to a saved Special:EditWatchlist page (.html, .htm) or a raw watchlist text file." required:"true"`

	// PageURL - URL of the saved page
	PageURL string `short:"u" long:"url" description:"URL the page was saved from. If not set, the canonical URL of the page is used."`

	// Mode - removal operation to run
	Mode string `short:"m" long:"mode" description:"Removal operation: namespace, redlinks, redirects, startswith, or endswith."`

	// Namespace - namespace for the namespace mode
	Namespace string `short:"n" long:"namespace" description:"Namespace number or name for the namespace mode, e.g. 10 or Template."`

	// These - title fragments for the startswith and endswith modes
	These []string `short:"t" long:"these" description:"Comma-separated title fragments. Use \\, for a literal comma. Can be specified multiple times."`

	// Exceptions - titles to keep
	Exceptions []string `short:"x" long:"except" description:"Comma-separated exceptions. Use \\, for a literal comma. Can be specified multiple times."`

	// Save - submit the form after flagging
	Save bool `short:"s" long:"save" description:"Submit the form after flagging. Raw text files are written in place." optional:"yes" optional-value:"true"`

	// Quiet - do not print the flagged titles
	Quiet bool `short:"q" long:"quiet" description:"Do not print the flagged titles." optional:"yes" optional-value:"true"`

	// OutPage - where to write the modified page
	OutPage string `short:"w" long:"write" description:"Path to write the modified page to. Only for HTML pages."`

	// FormOut - where to write the submitted form payload
	FormOut string `short:"f" long:"form-out" description:"Path to write the URL-encoded form payload to after saving. Only for HTML pages."`

	// JobFile - path to the batch job file
	JobFile string `short:"j" long:"job" description:"Path to a job file (YAML, JSON, or TOML) with a list of steps. Overrides --mode."`
}

func main() {
	var options Options
	var parser = goFlags.NewParser(&options, goFlags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*goFlags.Error); ok && flagsErr.Type == goFlags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}

	os.Exit(run(options))
}

// run runs the removal and returns the exit code.
func run(options Options) (code int) {
	if options.Verbose {
		log.SetLevel(log.DEBUG)
	}

	fs := afero.NewOsFs()
	if options.LogOutput != "" {
		file, err := fs.OpenFile(options.LogOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("cannot create a log file: %s", err)
		}
		defer file.Close() //nolint
		log.SetOutput(file)
	}

	j, err := createJob(fs, options)
	if err != nil {
		log.Error("invalid arguments: %s", err)

		return 2
	}

	src, err := openSource(fs, options)
	if err != nil {
		log.Error("cannot open %s: %s", options.Input, err)

		return 1
	}

	e := watchlist.NewEngine(src.host(watchlist.NewWriterConsole(os.Stdout)))
	results, failed, saveErr := j.Run(e)
	for _, r := range results {
		if r.Err == nil {
			log.Info("%s: flagged %d titles", r.Step.Mode, len(r.Result.Flagged))
		}
	}

	if saveErr != nil {
		log.Error("cannot save: %s", saveErr)
		failed++
	}

	err = src.finish(fs, options)
	if err != nil {
		log.Error("cannot write the results: %s", err)

		return 1
	}

	if failed > 0 {
		return 1
	}

	return 0
}

// createJob returns the job from the job file or a single step job from the
// command line.
func createJob(fs afero.Fs, options Options) (j *job.Job, err error) {
	if options.JobFile != "" {
		return job.Load(fs, options.JobFile)
	}

	if options.Mode == "" {
		return nil, fmt.Errorf("either --mode or --job must be specified")
	}

	mode, err := rules.ParseMode(options.Mode)
	if err != nil {
		return nil, err
	}

	s := &job.Step{
		Mode:      mode,
		Namespace: options.Namespace,
		These:     splitLists(options.These),
		Options: &watchlist.Options{
			Exceptions: splitLists(options.Exceptions),
			Save:       options.Save,
			Log:        !options.Quiet,
		},
	}

	return &job.Job{Steps: []*job.Step{s}}, nil
}

// splitLists splits every comma-separated value and concatenates the
// results.
func splitLists(values []string) (list []string) {
	for _, v := range values {
		list = append(list, filterutil.SplitList(v)...)
	}

	return list
}

// source is the watchlist the command works on.
type source struct {
	doc  *htmlpage.Document
	file *filterlist.File
}

// openSource opens the input as an HTML page or as a raw text file depending
// on its extension.
func openSource(fs afero.Fs, options Options) (src *source, err error) {
	switch strings.ToLower(filepath.Ext(options.Input)) {
	case ".html", ".htm":
		var d *htmlpage.Document
		d, err = htmlpage.Load(fs, options.Input, options.PageURL)
		if err != nil {
			return nil, err
		}

		return &source{doc: d}, nil
	default:
		var f *filterlist.File
		f, err = filterlist.NewFile(fs, options.Input)
		if err != nil {
			return nil, err
		}

		return &source{file: f}, nil
	}
}

// host returns the watchlist host of the source.
func (src *source) host(console watchlist.Console) (h *watchlist.Host) {
	if src.doc != nil {
		return src.doc.Host(console)
	}

	return &watchlist.Host{
		Page:    src.file,
		Raw:     src.file,
		Console: console,
		Form:    src.file,
	}
}

// finish writes the modified page and the form payload, if requested.
func (src *source) finish(fs afero.Fs, options Options) (err error) {
	if src.doc == nil {
		return nil
	}

	if options.OutPage != "" {
		err = src.doc.Save(fs, options.OutPage)
		if err != nil {
			return err
		}

		log.Info("saved the page to %s", options.OutPage)
	}

	if options.FormOut == "" || !src.doc.Submitted() {
		return nil
	}

	vals, err := src.doc.FormValues()
	if err != nil {
		return err
	}

	err = afero.WriteFile(fs, options.FormOut, []byte(vals.Encode()), 0o644)
	if err != nil {
		return fmt.Errorf("writing form payload: %w", err)
	}

	log.Info("saved the form payload to %s", options.FormOut)

	return nil
}
