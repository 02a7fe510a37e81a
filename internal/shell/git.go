package shell

import (
	"fmt"
	"strings"
)

// Checkout of DistinguishedRef leaves the terminal for NavigateTarget.
const (
	DistinguishedRef = "a3f9c22"
	NavigateTarget   = "home.html"
)

type subRegistry struct {
	handlers map[string]func(ctx *Context, args []string) Result
}

func newGit() *subRegistry {
	return &subRegistry{handlers: map[string]func(*Context, []string) Result{
		"status":   gitStatus,
		"log":      gitLog,
		"checkout": gitCheckout,
		"help":     gitHelp,
	}}
}

func cmdGit(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return fail(ErrMissingArgument, "git: missing subcommand")
	}
	sub := strings.ToLower(args[0])
	h, ok := ctx.git.handlers[sub]
	if !ok {
		return fail(ErrUnknownGitSubcommand, fmt.Sprintf("git: '%s' is not a git command.", args[0]))
	}
	return h(ctx, args[1:])
}

func gitStatus(*Context, []string) Result {
	return Result{Lines: []string{
		"On branch main",
		"nothing to commit, working tree clean",
	}}
}

func gitLog(*Context, []string) Result {
	return Result{Lines: []string{
		"commit e4d2b71 (HEAD -> main)",
		"Author: cosmic <hello@cosmic.dev>",
		"Date:   Sat Jun 14 21:07:43 2025",
		"",
		"    Terminal portfolio redesign",
		"",
		"commit " + DistinguishedRef,
		"Author: cosmic <hello@cosmic.dev>",
		"Date:   Tue Jan 7 18:22:10 2025",
		"",
		"    Previous portfolio design",
	}}
}

func gitCheckout(_ *Context, args []string) Result {
	if len(args) == 0 {
		return fail(ErrMissingArgument, "error: switch 'checkout' requires a value")
	}
	ref := args[0]
	if ref != DistinguishedRef {
		return fail(ErrUnknownPathspec, fmt.Sprintf("error: pathspec '%s' did not match any file(s) known to git", ref))
	}
	return Result{
		Lines:    []string{"HEAD is now at " + DistinguishedRef + " Previous portfolio design"},
		Navigate: NavigateTarget,
	}
}

func gitHelp(*Context, []string) Result {
	return Result{Lines: []string{
		"usage: git <command> [<args>]",
		"",
		"   status     show the working tree status",
		"   log        show commit logs",
		"   checkout   switch to a commit",
		"   help       show this help",
	}}
}
