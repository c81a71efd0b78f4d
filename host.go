package watchlist

// LinkStatus is the status of the page a watchlist entry links to.
type LinkStatus int

// LinkStatus enumeration
const (
	StatusNormal   LinkStatus = iota // an existing page
	StatusMissing                    // a red link, the page does not exist
	StatusRedirect                   // the page is a redirect
)

// String implements the fmt.Stringer interface for LinkStatus.
func (s LinkStatus) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusRedirect:
		return "redirect"
	default:
		return "normal"
	}
}

// Control is the selection control of a watchlist entry, e.g. a checkbox.
type Control interface {
	// Checked returns true if the entry is marked for removal.
	Checked() bool

	// Check marks the entry for removal.  Checking a checked control is a
	// no-op.
	Check()
}

// Entry is a single page on the structured watchlist editing form.  Entries
// are owned by the host, the engine only reads them and checks their
// controls.
type Entry struct {
	// Control is the selection control of the entry.
	Control Control

	// Title is the page title the control submits, e.g. "Template:Foo".
	Title string

	// Label is the displayed text of the page link.
	Label string

	// LinkTitle is the title attribute of the page link.  For red links it
	// carries the "(page does not exist)" suffix.
	LinkTitle string

	// Namespace is the namespace ID of the control group the entry is in.
	Namespace int

	// Status is the status of the linked page.
	Status LinkStatus
}

// PageContext exposes the identity of the current page.
type PageContext interface {
	// URL returns the URL or path of the current page.
	URL() string
}

// EntryQuery lists the entries of the structured watchlist form.
type EntryQuery interface {
	// Entries returns all watchlist entries in document order.
	Entries() (entries []*Entry, err error)
}

// RawBuffer is the text box of the raw watchlist editor.
type RawBuffer interface {
	// Text returns the current contents of the text box.
	Text() string

	// SetText replaces the contents of the text box.
	SetText(text string)
}

// Console displays messages to the user.
type Console interface {
	// Log displays a single message.
	Log(msg string)
}

// FormSubmitter submits the watchlist editing form.
type FormSubmitter interface {
	// Submit triggers the submission of the form.
	Submit() (err error)
}

// Host bundles the collaborators the engine works with.  Entries is only
// required on the structured page, Raw only on the raw page, and Form only
// when saving.  A nil Console discards all messages.
type Host struct {
	Page    PageContext
	Entries EntryQuery
	Raw     RawBuffer
	Console Console
	Form    FormSubmitter
}
