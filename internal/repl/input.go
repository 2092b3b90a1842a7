package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

// parseFields reads `key=value key2="value with spaces"` into a map using
// shell quoting rules. Later duplicates win.
func parseFields(args string) (map[string]string, error) {
	tokens, err := shellwords.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("invalid fields %q: %w", args, err)
	}

	fields := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (expected key=value)", tok)
		}
		fields[key] = value
	}
	return fields, nil
}

// unquote strips one pair of matching outer quotes. Backslashes are kept,
// so Windows paths survive.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func setupReadline(prompt string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         "",
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		AutoComplete:        completer(),
		FuncFilterInputRune: filterInput,
	})

	return rl, err
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("/add"),
		readline.PcItem("/list"),
		readline.PcItem("/load"),
		readline.PcItem("/source"),
		readline.PcItem("/tray", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("/settings"),
		readline.PcItem("/menu"),
		readline.PcItem("/menus"),
		readline.PcItem("/about"),
		readline.PcItem("/help"),
		readline.PcItem("/quit"),
	)
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
