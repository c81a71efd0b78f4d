package watchlist

import (
	"fmt"

	"github.com/AdguardTeam/golibs/log"
	"github.com/wikitools/watchlist/filterlist"
	"github.com/wikitools/watchlist/filterutil"
	"github.com/wikitools/watchlist/rules"
)

// flagEntries selects the structured entries matching the rule and checks
// their controls.  The selection is complete before the first control is
// checked.
func (e *Engine) flagEntries(rule *rules.MatchRule) (flagged []string, err error) {
	entries, err := e.host.Entries.Entries()
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	var selected []*Entry
	for _, ent := range entries {
		title, ok := entryTitle(rule, ent)
		if !ok || !rule.Selects(title) {
			continue
		}

		if ent.Control == nil {
			log.Debug("watchlist: entry %q has no control, skipping", ent.Title)

			continue
		}

		selected = append(selected, ent)
		flagged = append(flagged, title)
	}

	for _, ent := range selected {
		ent.Control.Check()
	}

	return flagged, nil
}

// entryTitle returns the title the rule is evaluated against and whether the
// entry is a candidate for the rule's mode at all.
func entryTitle(rule *rules.MatchRule, ent *Entry) (title string, ok bool) {
	switch rule.Mode {
	case rules.ModeByNamespace:
		return ent.Title, ent.Namespace == rule.Namespace.ID
	case rules.ModeRedLinks:
		return ent.Title, ent.Status == StatusMissing && ent.Label == ent.Title
	case rules.ModeRedirects:
		return ent.Title, ent.Status == StatusRedirect && ent.Label == ent.Title
	case rules.ModeStartsWith, rules.ModeEndsWith:
		return ent.Label, filterutil.IsPlainLabel(ent.Label, ent.LinkTitle)
	default:
		return "", false
	}
}

// flagRaw blanks the lines of the raw watchlist matching the rule.  The
// buffer is written back only if anything was flagged.
func (e *Engine) flagRaw(rule *rules.MatchRule) (flagged []string, err error) {
	buf := filterlist.NewBuffer(e.host.Raw.Text())

	var lines []int
	scanner := buf.NewScanner()
	for scanner.Scan() {
		title, idx := scanner.Line()
		if !e.isRawCandidate(rule, title) || !rule.Selects(title) {
			continue
		}

		lines = append(lines, idx)
		flagged = append(flagged, title)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	for _, idx := range lines {
		buf.Blank(idx)
	}

	e.host.Raw.SetText(buf.String())

	return flagged, nil
}

// isRawCandidate returns true if the raw title belongs to the scope of the
// rule.  Only the namespace mode restricts the scope: the title must carry
// the namespace prefix, and a main namespace rule skips titles of any other
// known namespace.
func (e *Engine) isRawCandidate(rule *rules.MatchRule, title string) bool {
	if rule.Mode != rules.ModeByNamespace {
		return true
	}

	return e.namespaces.NamespaceOf(title).ID == rule.Namespace.ID
}
