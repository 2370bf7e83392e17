package repl

import (
	"sort"
	"strings"
)

// completer offers command words first and contact names after them.
// It implements readline.AutoCompleter.
type completer struct {
	repl *REPL
}

func newCompleter(r *REPL) *completer {
	return &completer{repl: r}
}

// nameCommands take a contact name as their first argument.
var nameCommands = map[string]bool{
	"add":           true,
	"change":        true,
	"edit-phone":    true,
	"remove-phone":  true,
	"phone":         true,
	"add-birthday":  true,
	"show-birthday": true,
	"delete":        true,
}

// Do returns the suffixes that complete the text before pos, and the length
// of the text they extend.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	input := string(line[:pos])
	word, candidates := c.getCompletions(input)

	suffixes := make([][]rune, 0, len(candidates))
	for _, candidate := range candidates {
		suffixes = append(suffixes, []rune(candidate[len(word):]))
	}
	return suffixes, len([]rune(word))
}

// getCompletions returns the partial word being completed and the full
// candidates that start with it.
func (c *completer) getCompletions(input string) (string, []string) {
	command, rest, hasArgs := strings.Cut(strings.TrimLeft(input, " "), " ")

	if !hasArgs {
		var matches []string
		for name := range c.repl.commands {
			if strings.HasPrefix(name, strings.ToLower(command)) {
				matches = append(matches, name+" ")
			}
		}
		sort.Strings(matches)
		return command, matches
	}

	if !nameCommands[strings.ToLower(command)] || c.repl.dir == nil {
		return rest, nil
	}

	var matches []string
	for _, record := range c.repl.dir.All() {
		if strings.HasPrefix(record.Name(), rest) {
			matches = append(matches, record.Name()+" ")
		}
	}
	return rest, matches
}
