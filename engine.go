// Package watchlist implements bulk selection of pages for removal on the
// MediaWiki watchlist editing pages.  The engine works on an abstract host
// (see Host), which provides the structured form, the raw text editor, a
// console and the form submission.
package watchlist

import (
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/log"
	"github.com/wikitools/watchlist/filterutil"
	"github.com/wikitools/watchlist/rules"
)

// Result describes a completed removal pass.
type Result struct {
	// Flagged are the titles marked for removal, in document order for the
	// structured form and in line order for the raw editor.
	Flagged []string

	// Mode is the filter mode of the pass.
	Mode rules.Mode

	// Page is the page variant the pass ran on.
	Page filterutil.PageKind

	// Submitted is true if the form was submitted after flagging.
	Submitted bool
}

// Engine is the selection filter engine.  It holds no state besides the
// immutable namespace table, every call runs to completion on the host.  An
// Engine is not safe for concurrent use, since the host isn't.
type Engine struct {
	host       *Host
	console    Console
	namespaces *rules.NamespaceTable
}

// NewEngine creates an engine working on host with the default namespace
// table.
func NewEngine(host *Host) (e *Engine) {
	return NewEngineWithNamespaces(host, rules.DefaultNamespaces)
}

// NewEngineWithNamespaces creates an engine with a custom namespace table.
func NewEngineWithNamespaces(host *Host, namespaces *rules.NamespaceTable) (e *Engine) {
	var console Console = discardConsole{}
	if host.Console != nil {
		console = host.Console
	}

	return &Engine{
		host:       host,
		console:    console,
		namespaces: namespaces,
	}
}

// Namespaces returns the namespace table of the engine.
func (e *Engine) Namespaces() (t *rules.NamespaceTable) {
	return e.namespaces
}

// RemoveByNamespace flags all pages of the namespace ns, given either as a
// number or as a canonical name.  An exception matches titles starting with
// the namespace prefix followed by the exception; a namespace qualifier of
// the exception itself is discarded.
func (e *Engine) RemoveByNamespace(ns string, opts *Options) (res *Result, err error) {
	return e.run(&request{mode: rules.ModeByNamespace, ns: ns, opts: opts})
}

// RemoveRedLinks flags all pages that do not exist.  It only works on the
// structured page.  An exception matches titles starting with it.
func (e *Engine) RemoveRedLinks(opts *Options) (res *Result, err error) {
	return e.run(&request{mode: rules.ModeRedLinks, opts: opts})
}

// RemoveRedirects flags all redirects.  It only works on the structured page.
// An exception matches titles starting with it.
func (e *Engine) RemoveRedirects(opts *Options) (res *Result, err error) {
	return e.run(&request{mode: rules.ModeRedirects, opts: opts})
}

// RemoveStartsWith flags all pages whose titles start with any of these.  An
// exception matches titles ending with it, which allows keeping some subpages
// of an otherwise removed prefix.
func (e *Engine) RemoveStartsWith(these []string, opts *Options) (res *Result, err error) {
	return e.run(&request{mode: rules.ModeStartsWith, these: these, opts: opts})
}

// RemoveEndsWith flags all pages whose titles end with any of these.  To
// match subpages only, start the fragment with a slash, e.g. "/doc".  An
// exception matches titles starting with it.
func (e *Engine) RemoveEndsWith(these []string, opts *Options) (res *Result, err error) {
	return e.run(&request{mode: rules.ModeEndsWith, these: these, opts: opts})
}

// request is a single invocation of one of the removal operations.
type request struct {
	opts  *Options
	ns    string
	these []string
	mode  rules.Mode
}

// opName returns the name of the operation a mode belongs to.
func opName(mode rules.Mode) string {
	switch mode {
	case rules.ModeByNamespace:
		return "removeByNamespace"
	case rules.ModeRedLinks:
		return "removeRedLinks"
	case rules.ModeRedirects:
		return "removeRedirects"
	case rules.ModeStartsWith:
		return "removeStartsWith"
	case rules.ModeEndsWith:
		return "removeEndsWith"
	default:
		return mode.String()
	}
}

// run validates the request, collects the selected candidates, and only then
// flags them, so that a failing request leaves the host untouched.  Errors
// are reported to the console and returned.
func (e *Engine) run(req *request) (res *Result, err error) {
	op := opName(req.mode)
	defer func() {
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			e.console.Log(err.Error())
		}
	}()

	opts := req.opts.clone()
	page, err := e.checkPage(req.mode)
	if err != nil {
		return nil, err
	}

	var ns rules.Namespace
	if req.mode == rules.ModeByNamespace {
		ns, err = e.namespaces.Resolve(req.ns)
		if err != nil {
			return nil, err
		}
	}

	rule, err := rules.NewMatchRule(req.mode, ns, req.these, opts.Exceptions)
	if err != nil {
		return nil, err
	}

	log.Debug("watchlist: %s on %s page, namespace %s, %d fragments, %d exceptions",
		op, page, ns, len(req.these), len(opts.Exceptions))

	res = &Result{
		Mode: req.mode,
		Page: page,
	}

	if page == filterutil.PageRaw {
		res.Flagged, err = e.flagRaw(rule)
	} else {
		res.Flagged, err = e.flagEntries(rule)
	}
	if err != nil {
		return nil, err
	}

	if opts.Log {
		for _, title := range res.Flagged {
			e.console.Log(title)
		}
	}

	if opts.Save {
		err = e.submit()
		if err != nil {
			return res, err
		}

		res.Submitted = true
	}

	log.Debug("watchlist: %s flagged %d titles", op, len(res.Flagged))

	return res, nil
}

// Save submits the form of the host.  It is used to submit once after several
// removal calls made without Options.Save.
func (e *Engine) Save() (err error) {
	err = e.submit()
	if err != nil {
		err = fmt.Errorf("save: %w", err)
		e.console.Log(err.Error())
	}

	return err
}

// submit submits the form of the host.
func (e *Engine) submit() (err error) {
	if e.host.Form == nil {
		return errors.Error("no form submitter")
	}

	err = e.host.Form.Submit()
	if err != nil {
		return fmt.Errorf("submitting form: %w", err)
	}

	return nil
}

// checkPage returns the current page variant or ErrUnsupportedPage if the
// mode can't run on it.
func (e *Engine) checkPage(mode rules.Mode) (page filterutil.PageKind, err error) {
	if e.host.Page != nil {
		page = filterutil.ClassifyPage(e.host.Page.URL())
	}

	switch page {
	case filterutil.PageEdit:
		if e.host.Entries == nil {
			return page, fmt.Errorf("%w: no watchlist entries on the page", ErrUnsupportedPage)
		}
	case filterutil.PageRaw:
		if mode == rules.ModeRedLinks || mode == rules.ModeRedirects {
			return page, fmt.Errorf("%w: only works on the edit watchlist page", ErrUnsupportedPage)
		}

		if e.host.Raw == nil {
			return page, fmt.Errorf("%w: no raw watchlist on the page", ErrUnsupportedPage)
		}
	default:
		return page, fmt.Errorf("%w: only works on watchlist special pages", ErrUnsupportedPage)
	}

	return page, nil
}
