package filterlist

import (
	"fmt"
	"os"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/log"
	"github.com/spf13/afero"
	"github.com/wikitools/watchlist/filterutil"
)

// RawPageURL is the page context reported by File.
const RawPageURL = "Special:EditWatchlist/raw"

// File is a raw watchlist stored in a text file.  It serves as the page
// context, the raw buffer and the form submitter of a watchlist.Host.
// Submitting writes the buffer back to the file.
type File struct {
	fs   afero.Fs
	mu   *sync.Mutex
	path string
	text string

	submitted bool
}

// NewFile reads the raw watchlist from path.
func NewFile(fs afero.Fs, path string) (f *File, err error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading raw watchlist: %w", err)
	}

	return &File{
		fs:   fs,
		mu:   &sync.Mutex{},
		path: path,
		text: string(data),
	}, nil
}

// URL implements the watchlist.PageContext interface for *File.
func (f *File) URL() string {
	return RawPageURL
}

// Kind returns the page kind of the file, which is always the raw editor.
func (f *File) Kind() filterutil.PageKind {
	return filterutil.ClassifyPage(f.URL())
}

// Text implements the watchlist.RawBuffer interface for *File.
func (f *File) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.text
}

// SetText implements the watchlist.RawBuffer interface for *File.
func (f *File) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.text = text
}

// Submit implements the watchlist.FormSubmitter interface for *File.  It
// writes the current buffer to the file.
func (f *File) Submit() (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	defer func() { err = errors.Annotate(err, "saving raw watchlist %q: %w", f.path) }()

	perm := os.FileMode(0o644)
	if fi, statErr := f.fs.Stat(f.path); statErr == nil {
		perm = fi.Mode().Perm()
	}

	err = afero.WriteFile(f.fs, f.path, []byte(f.text), perm)
	if err != nil {
		return err
	}

	f.submitted = true
	log.Debug("filterlist: saved %d bytes to %s", len(f.text), f.path)

	return nil
}

// Submitted returns true if the file has been saved at least once.
func (f *File) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submitted
}
