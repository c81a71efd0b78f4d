package watchlist

import (
	"fmt"
	"io"

	"github.com/AdguardTeam/golibs/log"
)

// WriterConsole is a Console that writes every message on its own line.
type WriterConsole struct {
	w io.Writer
}

// NewWriterConsole creates a console writing to w.
func NewWriterConsole(w io.Writer) (c *WriterConsole) {
	return &WriterConsole{w: w}
}

// Log implements the Console interface for *WriterConsole.
func (c *WriterConsole) Log(msg string) {
	_, err := fmt.Fprintln(c.w, msg)
	if err != nil {
		log.Debug("console: writing message: %s", err)
	}
}

// LogConsole is a Console that writes messages to the global logger.
type LogConsole struct{}

// Log implements the Console interface for LogConsole.
func (LogConsole) Log(msg string) {
	log.Info("%s", msg)
}

// ConsoleFunc is an adapter to use a function as a Console.
type ConsoleFunc func(msg string)

// Log implements the Console interface for ConsoleFunc.
func (f ConsoleFunc) Log(msg string) {
	f(msg)
}

// discardConsole drops all messages.
type discardConsole struct{}

// Log implements the Console interface for discardConsole.
func (discardConsole) Log(string) {}
