package watchlist

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/wikitools/watchlist/rules"
)

const (
	// ErrUnsupportedPage is returned when an operation is invoked outside of
	// the watchlist editing page variant it requires.
	ErrUnsupportedPage errors.Error = "unsupported page"

	// ErrInvalidNamespace is returned when the namespace argument can't be
	// resolved.
	ErrInvalidNamespace = rules.ErrInvalidNamespace

	// ErrInvalidArgumentShape is returned when a fragment or exception list
	// is malformed.
	ErrInvalidArgumentShape = rules.ErrInvalidArgumentShape
)
