// Package htmlpage implements the watchlist host over a saved
// Special:EditWatchlist page.  The page is parsed with golang.org/x/net/html,
// checkboxes and the raw text box are modified in the parsed tree, and the
// tree is rendered back in the original encoding.
package htmlpage

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/log"
	"github.com/spf13/afero"
	"github.com/wikitools/watchlist"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	// itemClass is the class of a single watchlist row.
	itemClass = "mw-htmlform-flatlist-item"

	// missingClass is the class of a link to a page that does not exist.
	missingClass = "new"

	// redirectClass is the class of a link to a redirect.
	redirectClass = "mw-redirect"

	// rawTextID is the ID of the text box of the raw editor.
	rawTextID = "mw-input-wpTitles"

	// submitButtonsClass is the class of the container of the save button.
	submitButtonsClass = "mw-htmlform-submit-buttons"
)

// reTitlesName matches the name of a watchlist checkbox and captures the
// namespace ID.
var reTitlesName = regexp.MustCompile(`^wpTitlesNs(\d+)\[\]$`)

// Document is a parsed watchlist editing page.  It implements
// watchlist.PageContext, watchlist.EntryQuery, watchlist.RawBuffer, and
// watchlist.FormSubmitter.
type Document struct {
	root *html.Node
	enc  encoding.Encoding

	// raw is the text box of the raw editor, nil on the structured page.
	raw *html.Node

	// clicked is the submit button, set by Submit.
	clicked *html.Node

	url     string
	encName string
}

// Parse reads and parses the page.  contentType is the optional value of the
// Content-Type header the page was served with, it is used to detect the
// encoding together with the <meta> tags.  If pageURL is empty, the
// canonical URL of the page is used.
func Parse(r io.Reader, pageURL, contentType string) (d *Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}

	enc, encName, _ := charset.DetermineEncoding(data, contentType)
	root, err := html.Parse(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	d = &Document{
		root:    root,
		enc:     enc,
		encName: encName,
		url:     pageURL,
	}

	if d.url == "" {
		d.url = d.canonicalURL()
	}

	d.raw = findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrVal(n, "id") == rawTextID
	})

	log.Debug("htmlpage: parsed %s page %q, encoding %s", d.kind(), d.url, encName)

	return d, nil
}

// Load reads and parses the page stored at path.
func Load(fs afero.Fs, path, pageURL string) (d *Document, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer func() { err = errors.WithDeferred(err, f.Close()) }()

	return Parse(f, pageURL, "")
}

// kind returns a short description of the page variant for logging.
func (d *Document) kind() string {
	if d.raw != nil {
		return "raw"
	}

	return "edit"
}

// canonicalURL returns the href of <link rel="canonical">, if any.
func (d *Document) canonicalURL() string {
	link := findFirst(d.root, func(n *html.Node) bool {
		return isElement(n, atom.Link) && attrVal(n, "rel") == "canonical"
	})
	if link == nil {
		return ""
	}

	return attrVal(link, "href")
}

// Host returns a watchlist host backed by the document.  The raw buffer is
// only set if the page has the raw text box.
func (d *Document) Host(console watchlist.Console) (h *watchlist.Host) {
	h = &watchlist.Host{
		Page:    d,
		Entries: d,
		Console: console,
		Form:    d,
	}

	if d.raw != nil {
		h.Raw = d
	}

	return h
}

// URL implements the watchlist.PageContext interface for *Document.
func (d *Document) URL() string {
	return d.url
}

// Encoding returns the name of the encoding the page was decoded from.
func (d *Document) Encoding() string {
	return d.encName
}

// Entries implements the watchlist.EntryQuery interface for *Document.  Rows
// without a watchlist checkbox are skipped.  The page link of a row is its
// first link.
func (d *Document) Entries() (entries []*watchlist.Entry, err error) {
	items := findAll(d.root, func(n *html.Node) bool {
		return hasClass(n, itemClass)
	})

	for _, item := range items {
		ent, ok := newEntry(item)
		if ok {
			entries = append(entries, ent)
		}
	}

	return entries, nil
}

// newEntry creates an entry from the watchlist row item.
func newEntry(item *html.Node) (ent *watchlist.Entry, ok bool) {
	var nsID int
	input := findFirst(item, func(n *html.Node) bool {
		if !isElement(n, atom.Input) {
			return false
		}

		m := reTitlesName.FindStringSubmatch(attrVal(n, "name"))
		if m == nil {
			return false
		}

		var err error
		nsID, err = strconv.Atoi(m[1])

		return err == nil
	})
	if input == nil {
		return nil, false
	}

	ent = &watchlist.Entry{
		Control:   &checkbox{node: input},
		Title:     attrVal(input, "value"),
		Namespace: nsID,
	}

	link := findFirst(item, func(n *html.Node) bool {
		return isElement(n, atom.A)
	})
	if link != nil {
		ent.Label = textContent(link)
		ent.LinkTitle = attrVal(link, "title")

		switch {
		case hasClass(link, missingClass):
			ent.Status = watchlist.StatusMissing
		case hasClass(link, redirectClass):
			ent.Status = watchlist.StatusRedirect
		}
	}

	return ent, true
}

// checkbox is the watchlist.Control of a row.
type checkbox struct {
	node *html.Node
}

// Checked implements the watchlist.Control interface for *checkbox.
func (c *checkbox) Checked() bool {
	_, ok := attr(c.node, "checked")

	return ok
}

// Check implements the watchlist.Control interface for *checkbox.
func (c *checkbox) Check() {
	if !c.Checked() {
		setAttr(c.node, "checked", "checked")
	}
}

// Text implements the watchlist.RawBuffer interface for *Document.
func (d *Document) Text() string {
	if d.raw == nil {
		return ""
	}

	return textContent(d.raw)
}

// SetText implements the watchlist.RawBuffer interface for *Document.
func (d *Document) SetText(text string) {
	if d.raw == nil {
		return
	}

	setTextContent(d.raw, text)
}

// Render writes the page in its original encoding.
func (d *Document) Render(w io.Writer) (err error) {
	if strings.EqualFold(d.encName, "utf-8") {
		return html.Render(w, d.root)
	}

	tw := transform.NewWriter(w, d.enc.NewEncoder())
	defer func() { err = errors.WithDeferred(err, tw.Close()) }()

	return html.Render(tw, d.root)
}

// Save renders the page to path.
func (d *Document) Save(fs afero.Fs, path string) (err error) {
	var buf bytes.Buffer
	err = d.Render(&buf)
	if err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return afero.WriteFile(fs, path, buf.Bytes(), 0o644)
}
