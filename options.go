package watchlist

import "golang.org/x/exp/slices"

// Options are the per-call options shared by all removal operations.
type Options struct {
	// Exceptions are fragments of titles that must not be removed.  How they
	// are anchored depends on the operation.
	Exceptions []string

	// Save submits the form after the entries have been flagged.
	Save bool

	// Log writes every flagged title to the console.
	Log bool
}

// DefaultOptions returns the default options: no exceptions, do not save, log
// the flagged titles.
func DefaultOptions() (o *Options) {
	return &Options{
		Log: true,
	}
}

// clone returns a deep copy of o, or the default options if o is nil.
func (o *Options) clone() (c *Options) {
	if o == nil {
		return DefaultOptions()
	}

	return &Options{
		Exceptions: slices.Clone(o.Exceptions),
		Save:       o.Save,
		Log:        o.Log,
	}
}
