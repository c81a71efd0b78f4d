package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrInvalidNamespace is returned when a namespace reference is neither a
// known namespace number nor a known namespace name.
const ErrInvalidNamespace errors.Error = "invalid namespace"

// MainNamespaceID is the ID of the unprefixed namespace.
const MainNamespaceID = 0

// Form is the output form of a namespace resolution.
type Form int

// Form enumeration
const (
	FormNumber Form = iota // the namespace ID
	FormString             // the title prefix, "" for the main namespace
)

// Namespace is a single entry of the namespace table.
type Namespace struct {
	// Name is the canonical display name, e.g. "Template".
	Name string

	// ID is the namespace number, e.g. 10.
	ID int
}

// IsMain returns true if this is the main (unprefixed) namespace.
func (ns Namespace) IsMain() bool {
	return ns.ID == MainNamespaceID
}

// Prefix returns the prefix page titles of this namespace start with.  It is
// an empty string for the main namespace and "Name:" otherwise.
func (ns Namespace) Prefix() string {
	if ns.IsMain() {
		return ""
	}

	return ns.Name + ":"
}

// String implements the fmt.Stringer interface for Namespace.
func (ns Namespace) String() string {
	return fmt.Sprintf("%d (%s)", ns.ID, ns.Name)
}

// NamespaceTable is an immutable two-way mapping between namespace IDs and
// names.
type NamespaceTable struct {
	byID map[int]Namespace

	// ordered is sorted by ID, so that name lookups are deterministic.
	ordered []Namespace
}

// DefaultNamespaces is the table of namespaces supported by the watchlist
// filter.
var DefaultNamespaces = MustNamespaceTable(map[int]string{
	0:   "(main)",
	2:   "User",
	4:   "Wikipedia",
	6:   "File",
	8:   "MediaWiki",
	10:  "Template",
	12:  "Help",
	14:  "Category",
	100: "Portal",
	102: "Book",
	446: "Education Program",
	828: "Module",
})

// NewNamespaceTable creates a table from the id-to-name mapping.  Both IDs and
// names must be unique and names must not be empty.
func NewNamespaceTable(names map[int]string) (t *NamespaceTable, err error) {
	ids := maps.Keys(names)
	slices.Sort(ids)

	t = &NamespaceTable{
		byID:    make(map[int]Namespace, len(names)),
		ordered: make([]Namespace, 0, len(names)),
	}

	seen := make(map[string]int, len(names))
	for _, id := range ids {
		name := strings.TrimSpace(names[id])
		if name == "" {
			return nil, fmt.Errorf("namespace %d: empty name", id)
		}

		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("namespace %d: name %q is already used by %d", id, name, prev)
		}
		seen[name] = id

		ns := Namespace{Name: name, ID: id}
		t.byID[id] = ns
		t.ordered = append(t.ordered, ns)
	}

	return t, nil
}

// MustNamespaceTable is like NewNamespaceTable but panics on error.
func MustNamespaceTable(names map[int]string) (t *NamespaceTable) {
	t, err := NewNamespaceTable(names)
	if err != nil {
		panic(err)
	}

	return t
}

// Len returns the number of namespaces in the table.
func (t *NamespaceTable) Len() int {
	return len(t.ordered)
}

// All returns a copy of the table entries ordered by ID.
func (t *NamespaceTable) All() []Namespace {
	return slices.Clone(t.ordered)
}

// ByID looks up the namespace by its number.
func (t *NamespaceTable) ByID(id int) (ns Namespace, err error) {
	ns, ok := t.byID[id]
	if !ok {
		return Namespace{}, fmt.Errorf("%w: %d", ErrInvalidNamespace, id)
	}

	return ns, nil
}

// ByName looks up the namespace by its canonical name.  The comparison is
// exact, only the surrounding whitespace is trimmed.
func (t *NamespaceTable) ByName(name string) (ns Namespace, err error) {
	name = strings.TrimSpace(name)
	for _, ns = range t.ordered {
		if ns.Name == name {
			return ns, nil
		}
	}

	return Namespace{}, fmt.Errorf("%w: %q", ErrInvalidNamespace, name)
}

// Resolve resolves a namespace reference.  A reference that parses as an
// integer is looked up by number, anything else by name.
func (t *NamespaceTable) Resolve(ref string) (ns Namespace, err error) {
	ref = strings.TrimSpace(ref)
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		return t.ByID(id)
	}

	return t.ByName(ref)
}

// ResolveForm resolves ref and returns it in the requested form: the decimal
// namespace number for FormNumber or the title prefix for FormString.
func (t *NamespaceTable) ResolveForm(ref string, form Form) (out string, err error) {
	ns, err := t.Resolve(ref)
	if err != nil {
		return "", err
	}

	switch form {
	case FormNumber:
		return strconv.Itoa(ns.ID), nil
	case FormString:
		return ns.Prefix(), nil
	default:
		return "", fmt.Errorf("unknown namespace form %d", form)
	}
}

// NamespaceOf returns the namespace the title belongs to.  The prefix is
// compared case-insensitively and titles without a known prefix belong to
// the main namespace.
func (t *NamespaceTable) NamespaceOf(title string) (ns Namespace) {
	prefix, _, ok := strings.Cut(title, ":")
	if ok {
		for _, ns = range t.ordered {
			if !ns.IsMain() && strings.EqualFold(ns.Name, strings.TrimSpace(prefix)) {
				return ns
			}
		}
	}

	return t.byID[MainNamespaceID]
}
