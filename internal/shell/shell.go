// Package shell interprets command lines typed into the portfolio terminal.
package shell

import (
	"errors"
	"strings"
	"time"

	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

// Image is an inline picture a command asks the front-end to show.
type Image struct {
	Name string
	URL  string
}

// Result is everything a command produced. Err, when set, renders as one
// extra output line.
type Result struct {
	Lines    []string
	Err      error
	Clear    bool
	Image    *Image
	Navigate string
	Exit     bool
}

// Output returns the lines to append, the error line last.
func (r Result) Output() []string {
	if r.Err == nil {
		return r.Lines
	}
	out := make([]string, 0, len(r.Lines)+1)
	out = append(out, r.Lines...)
	return append(out, r.Err.Error())
}

// Outcome names the result for analytics: "ok", "navigate" or the error kind.
func (r Result) Outcome() string {
	if r.Navigate != "" {
		return "navigate"
	}
	var ce *CommandError
	if errors.As(r.Err, &ce) {
		switch ce.Kind {
		case ErrCommandNotFound:
			return "command_not_found"
		case ErrMissingArgument:
			return "missing_argument"
		case ErrNoSuchFile:
			return "no_such_file"
		case ErrNoSuchDirectory:
			return "no_such_directory"
		case ErrUnregisteredApplication:
			return "unregistered_application"
		case ErrUnknownGitSubcommand:
			return "unknown_git_subcommand"
		case ErrUnknownPathspec:
			return "unknown_pathspec"
		}
	}
	if r.Err != nil {
		return "error"
	}
	return "ok"
}

// State is the per-session part of the shell.
type State struct {
	Path    []string
	History []string
}

// NewState starts at the home directory.
func NewState() *State {
	return &State{Path: append([]string(nil), vfs.HomePath...)}
}

// Context is handed to every command.
type Context struct {
	*Interpreter
	State *State
}

// Cwd resolves the current directory.
func (c *Context) Cwd() *vfs.Node {
	n, err := c.fs.ResolveDir(c.State.Path)
	if err != nil {
		// Path only ever moves onto existing directories; fall back to home.
		c.State.Path = append([]string(nil), vfs.HomePath...)
		n, _ = c.fs.ResolveDir(c.State.Path)
	}
	return n
}

// Command is one registry entry.
type Command struct {
	Name  string
	Usage string
	Run   func(ctx *Context, args []string) Result
}

// Interpreter dispatches lines through a registry of commands.
type Interpreter struct {
	fs       *vfs.FS
	now      func() time.Time
	images   map[string]string
	commands map[string]Command
	order    []string
	git      *subRegistry
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithClock replaces time.Now for the date command.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithImages replaces the name to URL mapping used by xdg-open.
func WithImages(images map[string]string) Option {
	return func(i *Interpreter) { i.images = images }
}

// New builds an interpreter over fs with the standard command set.
func New(fs *vfs.FS, opts ...Option) *Interpreter {
	i := &Interpreter{
		fs:       fs,
		now:      time.Now,
		images:   DefaultImages,
		commands: make(map[string]Command),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.git = newGit()
	registerBuiltins(i)
	return i
}

// Register adds or replaces a command.
func (i *Interpreter) Register(cmd Command) {
	name := strings.ToLower(cmd.Name)
	if _, ok := i.commands[name]; !ok {
		i.order = append(i.order, name)
	}
	i.commands[name] = cmd
}

// Lookup finds a registered command.
func (i *Interpreter) Lookup(name string) (Command, bool) {
	cmd, ok := i.commands[strings.ToLower(name)]
	return cmd, ok
}

// Names lists commands in registration order.
func (i *Interpreter) Names() []string {
	return append([]string(nil), i.order...)
}

// Execute runs one line against st.
func (i *Interpreter) Execute(st *State, line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}
	st.History = append(st.History, strings.Join(fields, " "))

	cmd, ok := i.Lookup(fields[0])
	if !ok {
		return fail(ErrCommandNotFound, "command not found: "+fields[0])
	}
	return cmd.Run(&Context{Interpreter: i, State: st}, fields[1:])
}
