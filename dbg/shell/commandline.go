package shell

import "strings"

// CommandLine is the argument tail of a program invocation split into
// whitespace separated tokens.
type CommandLine struct {
	name   string
	tokens []string
}

// NewCommandLine splits args into tokens.
func NewCommandLine(name, args string) *CommandLine {
	return &CommandLine{
		name:   name,
		tokens: strings.Fields(args),
	}
}

// Name returns the program name the line was given to.
func (c *CommandLine) Name() string {
	return c.name
}

// Count returns the number of tokens.
func (c *CommandLine) Count() int {
	return len(c.tokens)
}

// FindExist reports whether a token equal to flag (ignoring case) is
// present. With remove set the first match is taken out of the line.
func (c *CommandLine) FindExist(flag string, remove bool) bool {
	for i, tok := range c.tokens {
		if !strings.EqualFold(tok, flag) {
			continue
		}
		if remove {
			c.tokens = append(c.tokens[:i], c.tokens[i+1:]...)
		}
		return true
	}
	return false
}

// FindCommand returns token n, counting from 1.
func (c *CommandLine) FindCommand(n int) (string, bool) {
	if n < 1 || n > len(c.tokens) {
		return "", false
	}
	return c.tokens[n-1], true
}

// String returns the tokens joined by single spaces.
func (c *CommandLine) String() string {
	return strings.Join(c.tokens, " ")
}
