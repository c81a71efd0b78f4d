package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidArgumentShape is returned when a fragment or exception list is
// not a list of non-empty strings.
const ErrInvalidArgumentShape errors.Error = "invalid argument shape"

// ErrUnknownMode is returned by ParseMode for unknown mode names.
const ErrUnknownMode errors.Error = "unknown mode"

// Mode is the filter mode a MatchRule is built for.
type Mode int

// Mode enumeration
const (
	ModeByNamespace Mode = iota // removeByNamespace
	ModeRedLinks                // removeRedLinks
	ModeRedirects               // removeRedirects
	ModeStartsWith              // removeStartsWith
	ModeEndsWith                // removeEndsWith
)

// modeNames maps modes to the names used in job files and the command line.
var modeNames = map[Mode]string{
	ModeByNamespace: "namespace",
	ModeRedLinks:    "redlinks",
	ModeRedirects:   "redirects",
	ModeStartsWith:  "startswith",
	ModeEndsWith:    "endswith",
}

// String implements the fmt.Stringer interface for Mode.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}

	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses the mode name as returned by Mode.String.  Dashes and
// underscores are ignored and the comparison is case-insensitive, so that
// "starts-with" and "StartsWith" are both accepted.
func ParseMode(s string) (m Mode, err error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s)))
	for mode, name := range modeNames {
		if name == key {
			return mode, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// reNamespaceQualifier matches the namespace qualifier of an exception.  It
// is greedy: everything up to the last colon that is not behind a slash is
// removed.
var reNamespaceQualifier = regexp.MustCompile(`^[^/]+:`)

// MatchRule is the compiled set of fragments and exceptions for a single
// invocation of one of the removal operations.
type MatchRule struct {
	// match holds the anchored patterns of the primary fragments.  It is
	// empty for the namespace, red link and redirect modes, where candidates
	// are chosen by the enumerator.
	match []*regexp.Regexp

	// except holds the anchored patterns of the exceptions.
	except []*regexp.Regexp

	// Namespace is the namespace of a ModeByNamespace rule.
	Namespace Namespace

	// Mode is the filter mode.
	Mode Mode
}

// NewMatchRule builds a rule for the given mode.  ns is only used with
// ModeByNamespace, fragments only with ModeStartsWith and ModeEndsWith.
// Fragments and exceptions are matched literally and case-insensitively.
func NewMatchRule(mode Mode, ns Namespace, fragments, exceptions []string) (r *MatchRule, err error) {
	r = &MatchRule{
		Namespace: ns,
		Mode:      mode,
	}

	var matchAnchor, exceptAnchor anchor
	prefix := ""
	switch mode {
	case ModeByNamespace:
		exceptAnchor = anchorStart
		prefix = regexp.QuoteMeta(ns.Prefix())
	case ModeRedLinks, ModeRedirects:
		exceptAnchor = anchorStart
	case ModeStartsWith:
		matchAnchor, exceptAnchor = anchorStart, anchorEnd
	case ModeEndsWith:
		matchAnchor, exceptAnchor = anchorEnd, anchorStart
	default:
		return nil, fmt.Errorf("unsupported mode %s", mode)
	}

	if matchAnchor != anchorNone {
		r.match, err = compileFragments(fragments, "", matchAnchor, false)
		if err != nil {
			return nil, fmt.Errorf("fragments: %w", err)
		}
	}

	r.except, err = compileFragments(exceptions, prefix, exceptAnchor, mode == ModeByNamespace)
	if err != nil {
		return nil, fmt.Errorf("exceptions: %w", err)
	}

	return r, nil
}

// Match returns true if the title is matched by any of the primary fragments.
// Rules without primary fragments match every title.  The title is compared
// in NFC, as the fragments are.
func (r *MatchRule) Match(title string) bool {
	if r.Mode != ModeStartsWith && r.Mode != ModeEndsWith {
		return true
	}

	return matchAny(r.match, norm.NFC.String(title))
}

// IsExcepted returns true if the title falls under one of the exceptions.
func (r *MatchRule) IsExcepted(title string) bool {
	return matchAny(r.except, norm.NFC.String(title))
}

// Selects returns true if the title is matched and not excepted.
func (r *MatchRule) Selects(title string) bool {
	return r.Match(title) && !r.IsExcepted(title)
}

// anchor is the side of a title a fragment is anchored to.
type anchor int

const (
	anchorNone anchor = iota
	anchorStart
	anchorEnd
)

// compileFragments escapes and compiles fragments.  If stripQualifier is
// set, a leading namespace qualifier is removed from every fragment first.
func compileFragments(
	fragments []string,
	prefix string,
	a anchor,
	stripQualifier bool,
) (res []*regexp.Regexp, err error) {
	res = make([]*regexp.Regexp, 0, len(fragments))
	for i, f := range fragments {
		if f == "" {
			return nil, fmt.Errorf("fragment at index %d: %w: empty string", i, ErrInvalidArgumentShape)
		}

		if stripQualifier {
			f = StripNamespaceQualifier(f)
		}

		pattern := prefix + EscapeFragment(f)
		switch a {
		case anchorStart:
			pattern = "^(?:" + pattern + ")"
		case anchorEnd:
			pattern = "(?:" + pattern + ")$"
		}

		var re *regexp.Regexp
		re, err = regexp.Compile("(?i)" + pattern)
		if err != nil {
			// Shouldn't happen, since the fragment is escaped.
			return nil, fmt.Errorf("fragment at index %d: %w", i, err)
		}

		res = append(res, re)
	}

	return res, nil
}

// EscapeFragment normalizes the fragment to NFC and escapes all regular
// expression metacharacters in it.
func EscapeFragment(f string) string {
	return regexp.QuoteMeta(norm.NFC.String(f))
}

// StripNamespaceQualifier removes a leading "Namespace:" qualifier from the
// exception fragment.  A colon behind a slash is part of a subpage name and
// is kept.
func StripNamespaceQualifier(f string) string {
	return reNamespaceQualifier.ReplaceAllString(f, "")
}

// matchAny returns true if any of the patterns matches s.
func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}
