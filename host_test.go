package watchlist

import (
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/wikitools/watchlist/rules"
)

const (
	testEditURL  = "https://en.wikipedia.org/wiki/Special:EditWatchlist"
	testRawURL   = "https://en.wikipedia.org/wiki/Special:EditWatchlist/raw"
	testOtherURL = "https://en.wikipedia.org/wiki/Main_Page"
)

// testControl is a checkbox.
type testControl struct {
	checked bool
}

// Checked implements the Control interface for *testControl.
func (c *testControl) Checked() bool { return c.checked }

// Check implements the Control interface for *testControl.
func (c *testControl) Check() { c.checked = true }

// testPage is an in-memory host.
type testPage struct {
	url       string
	raw       string
	entries   []*Entry
	messages  []string
	submitted int
	submitErr error
	listErr   error
}

// URL implements the PageContext interface for *testPage.
func (p *testPage) URL() string { return p.url }

// Entries implements the EntryQuery interface for *testPage.
func (p *testPage) Entries() ([]*Entry, error) { return p.entries, p.listErr }

// Text implements the RawBuffer interface for *testPage.
func (p *testPage) Text() string { return p.raw }

// SetText implements the RawBuffer interface for *testPage.
func (p *testPage) SetText(text string) { p.raw = text }

// Log implements the Console interface for *testPage.
func (p *testPage) Log(msg string) { p.messages = append(p.messages, msg) }

// Submit implements the FormSubmitter interface for *testPage.
func (p *testPage) Submit() error {
	if p.submitErr != nil {
		return p.submitErr
	}

	p.submitted++

	return nil
}

// host returns a Host with all collaborators backed by p.
func (p *testPage) host() *Host {
	return &Host{
		Page:    p,
		Entries: p,
		Raw:     p,
		Console: p,
		Form:    p,
	}
}

// checked returns the titles of the checked entries in document order.
func (p *testPage) checked() (titles []string) {
	for _, ent := range p.entries {
		if ent.Control.Checked() {
			titles = append(titles, ent.Title)
		}
	}

	return titles
}

// newTestEntry creates a plain entry for the title.
func newTestEntry(title string) *Entry {
	ns := rules.DefaultNamespaces.NamespaceOf(title)

	return &Entry{
		Control:   &testControl{},
		Title:     title,
		Label:     title,
		LinkTitle: title,
		Namespace: ns.ID,
		Status:    StatusNormal,
	}
}

// newTestEntries creates plain entries for the titles.
func newTestEntries(titles ...string) (entries []*Entry) {
	for _, title := range titles {
		entries = append(entries, newTestEntry(title))
	}

	return entries
}

// newTestEditPage creates a structured page with plain entries.
func newTestEditPage(titles ...string) *testPage {
	return &testPage{
		url:     testEditURL,
		entries: newTestEntries(titles...),
	}
}

// newTestRawPage creates a raw page with one title per line.
func newTestRawPage(titles ...string) *testPage {
	return &testPage{
		url: testRawURL,
		raw: strings.Join(titles, "\n"),
	}
}

// errTestSubmit is returned by a failing form submitter.
const errTestSubmit errors.Error = "submit failed"
