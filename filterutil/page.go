package filterutil

import (
	"net/url"
	"strings"
)

// EditWatchlistPage is the canonical name of the watchlist editing page.
const EditWatchlistPage = "Special:EditWatchlist"

// rawSuffix is the subpage of EditWatchlistPage with the raw text editor.
const rawSuffix = "/raw"

// MissingPageSuffix is appended by MediaWiki to the title attribute of links
// to pages that do not exist.
const MissingPageSuffix = "(page does not exist)"

// PageKind is the variant of the page the host is showing.
type PageKind int

// PageKind enumeration
const (
	PageOther PageKind = iota // not a watchlist editing page
	PageEdit                  // Special:EditWatchlist
	PageRaw                   // Special:EditWatchlist/raw
)

// String implements the fmt.Stringer interface for PageKind.
func (k PageKind) String() string {
	switch k {
	case PageEdit:
		return "edit"
	case PageRaw:
		return "raw"
	default:
		return "other"
	}
}

// DecodeURL unescapes percent-encoded sequences in the page URL.  The URL is
// returned as is if it can't be decoded.
func DecodeURL(u string) string {
	decoded, err := url.PathUnescape(u)
	if err != nil {
		return u
	}

	return decoded
}

// ClassifyPage detects which watchlist editing page the URL points to.  Both
// the path form (/wiki/Special:EditWatchlist/raw) and the query form
// (index.php?title=Special:EditWatchlist/raw) are recognized.
func ClassifyPage(pageURL string) PageKind {
	decoded := DecodeURL(pageURL)
	idx := strings.Index(decoded, EditWatchlistPage)
	if idx == -1 {
		return PageOther
	}

	if strings.HasPrefix(decoded[idx+len(EditWatchlistPage):], rawSuffix) {
		return PageRaw
	}

	return PageEdit
}

// TrimMissingSuffix removes MissingPageSuffix from a link title attribute and
// trims the surrounding whitespace.
func TrimMissingSuffix(linkTitle string) string {
	return strings.TrimSpace(strings.TrimSuffix(linkTitle, MissingPageSuffix))
}

// IsPlainLabel returns true if the displayed link label is the page title
// itself and not a decorated text, taking the red link suffix into account.
func IsPlainLabel(label, linkTitle string) bool {
	return label == linkTitle || label == TrimMissingSuffix(linkTitle)
}
