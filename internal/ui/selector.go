package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user leaves the selector without picking.
var ErrCancelled = errors.New("selection cancelled")

// SelectorOption represents a single option in the selector
type SelectorOption struct {
	Label       string
	Description string
}

// Selector provides an arrow-key navigable menu. When the input is not a
// terminal it falls back to a numbered list.
type Selector struct {
	question string
	options  []SelectorOption
	selected int
	colored  bool

	in  io.Reader
	out io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a selector reading stdin and writing stdout.
func NewSelector(question string, options []SelectorOption, colored bool) *Selector {
	return &Selector{
		question: question,
		options:  options,
		colored:  colored,
		in:       os.Stdin,
		out:      os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// WithIO replaces the selector's input and output.
func (s *Selector) WithIO(in io.Reader, out io.Writer) *Selector {
	s.in = in
	s.out = out
	return s
}

// Run displays the selector and returns the index of the chosen option.
func (s *Selector) Run() (int, error) {
	if len(s.options) == 0 {
		return -1, ErrCancelled
	}

	f, ok := s.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.runSimple()
	}

	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple()
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(s.out, "\033[?25h") // Show cursor
	}()

	fmt.Fprint(s.out, "\033[?25l") // Hide cursor

	totalLines := len(s.options) + 3
	s.printMenu()

	reader := bufio.NewReader(f)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return -1, err
		}

		done := false
		switch b {
		case 13, 10, ' ': // Enter, Space
			done = true
		case 3, 'q': // Ctrl+C
			s.clearMenu(totalLines)
			return -1, ErrCancelled
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					s.moveUp()
				case 'B':
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				if idx := int(b - '1'); idx < len(s.options) {
					s.selected = idx
					done = true
				}
			}
		}

		s.clearMenu(totalLines)
		if done {
			return s.selected, nil
		}
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	if s.colored {
		sb.WriteString(s.questionStyle.Render(s.question))
		sb.WriteString("\r\n")
		sb.WriteString(s.hintStyle.Render("[j/k or arrows] move  [enter] select  [q] cancel"))
	} else {
		sb.WriteString(s.question)
		sb.WriteString("\r\n")
		sb.WriteString("[j/k or arrows] move  [enter] select  [q] cancel")
	}
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}
		label := opt.label()

		switch {
		case !s.colored:
			sb.WriteString(cursor + label)
		case i == s.selected:
			sb.WriteString(s.cursorStyle.Render(cursor) + s.selectedStyle.Render(label))
		default:
			sb.WriteString(cursor + s.optionStyle.Render(label))
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Fprint(s.out, "\033[A\033[2K\r")
	}
}

func (s *Selector) runSimple() (int, error) {
	fmt.Fprintln(s.out, s.question)
	for i, opt := range s.options {
		fmt.Fprintf(s.out, "  [%d] %s\n", i+1, opt.label())
	}
	fmt.Fprint(s.out, "Enter number: ")

	input, err := bufio.NewReader(s.in).ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return -1, err
		}
		return -1, ErrCancelled
	}

	n, convErr := strconv.Atoi(input)
	if convErr != nil || n < 1 || n > len(s.options) {
		return -1, fmt.Errorf("%w: invalid choice %q", ErrCancelled, input)
	}
	return n - 1, nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

func (o SelectorOption) label() string {
	if o.Description != "" {
		return o.Label + " - " + o.Description
	}
	return o.Label
}
