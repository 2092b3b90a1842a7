package ui

import (
	"fmt"
	"io"
	"sync"
)

// StatusDisplay writes one-line notices, e.g. when the reminder list changes
// behind the prompt.
type StatusDisplay struct {
	mu        sync.Mutex
	formatter *Formatter
	out       io.Writer
	enabled   bool
}

func NewStatusDisplay(formatter *Formatter, out io.Writer, enabled bool) *StatusDisplay {
	return &StatusDisplay{
		formatter: formatter,
		out:       out,
		enabled:   enabled,
	}
}

func (s *StatusDisplay) Show(message string) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprint(s.out, "\r\033[K")
	fmt.Fprint(s.out, s.formatter.FormatStatus(message))
}

func (s *StatusDisplay) Hide() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprint(s.out, "\r\033[K")
}

func (s *StatusDisplay) ShowWithNewline(message string) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, s.formatter.FormatStatus(message))
}
