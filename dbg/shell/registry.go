package shell

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

var (
	// ErrExecutableNotFound is returned when no program is registered under
	// the requested name.
	ErrExecutableNotFound = errors.New("executable not found")

	// ErrDuplicateProgram is returned when a name is registered twice.
	ErrDuplicateProgram = errors.New("program already registered")

	// ErrInvalidName is returned for names that aren't NAME.COM or NAME.EXE.
	ErrInvalidName = errors.New("invalid program name")
)

// Program is a built-in program living in the virtual Z: drive.
type Program interface {
	Run(cmd *CommandLine, console Console) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(cmd *CommandLine, console Console) error

func (f ProgramFunc) Run(cmd *CommandLine, console Console) error {
	return f(cmd, console)
}

type entry struct {
	name    string // upper case, with extension
	base    string // lower case, without extension
	program Program
}

// Registry maps program file names to programs. Lookups ignore case and
// accept the name with or without its extension.
type Registry struct {
	tree    *prefixtree.Tree[*entry]
	entries []*entry
}

func NewRegistry() *Registry {
	return &Registry{
		tree: prefixtree.New[*entry](),
	}
}

// Register adds a program under a file name such as "DBG.COM".
func (r *Registry) Register(name string, p Program) error {
	upper := strings.ToUpper(name)
	ext := path.Ext(upper)
	if ext != ".COM" && ext != ".EXE" {
		return fmt.Errorf("register %q: %w", name, ErrInvalidName)
	}
	base := strings.TrimSuffix(upper, ext)
	if base == "" || strings.ContainsAny(base, " \\/:") {
		return fmt.Errorf("register %q: %w", name, ErrInvalidName)
	}

	if _, err := r.Lookup(base); err == nil {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateProgram)
	}

	e := &entry{
		name:    upper,
		base:    strings.ToLower(base),
		program: p,
	}
	r.tree.Add(e.base, e)
	r.entries = append(r.entries, e)
	return nil
}

// Lookup finds the program registered under name. The prefix tree would
// also accept abbreviations, which DOS doesn't, so only an exact base name
// counts as a match.
func (r *Registry) Lookup(name string) (Program, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexAny(key, "\\:"); i >= 0 {
		key = key[i+1:]
	}

	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)

	e, err := r.tree.FindValue(base)
	if err != nil {
		// an exact name that is also a prefix of another one is reported
		// as ambiguous
		e = r.exact(base)
	}
	if e == nil || e.base != base {
		return nil, fmt.Errorf("%s: %w", name, ErrExecutableNotFound)
	}
	if ext != "" && !strings.EqualFold(path.Ext(e.name), ext) {
		return nil, fmt.Errorf("%s: %w", name, ErrExecutableNotFound)
	}
	return e.program, nil
}

func (r *Registry) exact(base string) *entry {
	for _, e := range r.entries {
		if e.base == base {
			return e
		}
	}
	return nil
}

// Names returns the registered file names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}
