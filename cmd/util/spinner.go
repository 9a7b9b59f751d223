package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Spinner is a progress indicator. A nil *Spinner does nothing.
type Spinner struct {
	out      io.Writer
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner instantiates a Spinner drawing on out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

// TerminalSpinner returns a Spinner on f, or nil when f is not a terminal.
func TerminalSpinner(f *os.File) *Spinner {
	if !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return NewSpinner(f)
}

// Start starts the process indicator.
func (s *Spinner) Start(message string) {
	if s == nil || s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			for _, r := range `-\|/` {
				fmt.Fprintf(s.out, "\r%s %c", message, r)
				select {
				case <-stop:
					fmt.Fprint(s.out, "\r\x1b[K")
					return
				case <-ticker.C:
				}
			}
		}
	}(s.stopChan, s.done)
}

// Stop stops the process indicator and clears its line.
func (s *Spinner) Stop() {
	if s == nil || s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.done
	s.stopChan = nil
}
