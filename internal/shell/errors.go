package shell

import "errors"

// Error kinds a command can report. None of them ends the session.
var (
	ErrCommandNotFound         = errors.New("command not found")
	ErrMissingArgument         = errors.New("missing argument")
	ErrNoSuchFile              = errors.New("no such file")
	ErrNoSuchDirectory         = errors.New("no such directory")
	ErrUnregisteredApplication = errors.New("no application registered")
	ErrUnknownGitSubcommand    = errors.New("unknown git subcommand")
	ErrUnknownPathspec         = errors.New("unknown pathspec")
)

// CommandError carries the line shown to the user along with its kind.
type CommandError struct {
	Kind error
	Msg  string
}

func (e *CommandError) Error() string { return e.Msg }

func (e *CommandError) Unwrap() error { return e.Kind }

func fail(kind error, msg string) Result {
	return Result{Err: &CommandError{Kind: kind, Msg: msg}}
}
