package shell

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

// DefaultImages maps the photos that xdg-open can show to their URLs.
var DefaultImages = map[string]string{
	"avatar.png":     "/images/avatar.png",
	"workbench.jpg":  "/images/workbench.jpg",
	"drone-shot.jpg": "/images/drone-shot.jpg",
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

func registerBuiltins(i *Interpreter) {
	for _, cmd := range []Command{
		{Name: "help", Usage: "show this help", Run: cmdHelp},
		{Name: "about", Usage: "who runs this place", Run: cmdAbout},
		{Name: "ls", Usage: "list files [pattern]", Run: cmdLS},
		{Name: "pwd", Usage: "print working directory", Run: cmdPWD},
		{Name: "cd", Usage: "change directory <dir|..>", Run: cmdCD},
		{Name: "cat", Usage: "print a file <file>", Run: cmdCat},
		{Name: "xdg-open", Usage: "open a file <file>", Run: cmdOpen},
		{Name: "echo", Usage: "print arguments", Run: cmdEcho},
		{Name: "whoami", Usage: "print user name", Run: cmdWhoami},
		{Name: "date", Usage: "print the date", Run: cmdDate},
		{Name: "clear", Usage: "clear the screen", Run: cmdClear},
		{Name: "git", Usage: "version control <status|log|checkout|help>", Run: cmdGit},
		{Name: "history", Usage: "list previous commands", Run: cmdHistory},
		{Name: "exit", Usage: "close the terminal", Run: cmdExit},
	} {
		i.Register(cmd)
	}
}

func cmdHelp(ctx *Context, _ []string) Result {
	lines := []string{"available commands:"}
	for _, name := range ctx.Names() {
		cmd, _ := ctx.Lookup(name)
		lines = append(lines, fmt.Sprintf("  %-10s %s", name, cmd.Usage))
	}
	return Result{Lines: lines}
}

func cmdAbout(*Context, []string) Result {
	return Result{Lines: []string{content.About}}
}

func cmdLS(ctx *Context, args []string) Result {
	names := ctx.Cwd().Names()
	if len(args) > 0 {
		g, err := glob.Compile(args[0])
		if err != nil {
			return Result{Err: fmt.Errorf("ls: invalid pattern '%s'", args[0])}
		}
		matched := names[:0:0]
		for _, n := range names {
			if g.Match(n) {
				matched = append(matched, n)
			}
		}
		names = matched
	}
	if len(names) == 0 {
		return Result{}
	}
	return Result{Lines: []string{strings.Join(names, " ")}}
}

func cmdPWD(ctx *Context, _ []string) Result {
	return Result{Lines: []string{vfs.Join(ctx.State.Path)}}
}

func cmdCD(ctx *Context, args []string) Result {
	if len(args) == 0 {
		ctx.State.Path = append([]string(nil), vfs.HomePath...)
		return Result{}
	}
	target := args[0]
	if target == ".." {
		if len(ctx.State.Path) > 1 {
			ctx.State.Path = ctx.State.Path[:len(ctx.State.Path)-1]
		}
		return Result{}
	}
	child, ok := ctx.Cwd().Child(target)
	if !ok || !child.IsDir() {
		return fail(ErrNoSuchDirectory, "cd: no such directory: "+target)
	}
	next := make([]string, len(ctx.State.Path), len(ctx.State.Path)+1)
	copy(next, ctx.State.Path)
	ctx.State.Path = append(next, target)
	return Result{}
}

func cmdCat(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return fail(ErrMissingArgument, "cat: missing file operand")
	}
	name := args[0]
	f, ok := ctx.Cwd().Child(name)
	if !ok || f.IsDir() {
		return fail(ErrNoSuchFile, fmt.Sprintf("cat: %s: No such file", name))
	}
	return Result{Lines: strings.Split(f.Content, "\n")}
}

func cmdOpen(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return fail(ErrMissingArgument, "xdg-open: missing file operand")
	}
	name := args[0]
	f, ok := ctx.Cwd().Child(name)
	if !ok || f.IsDir() {
		return fail(ErrNoSuchFile, fmt.Sprintf("xdg-open: %s: not found", name))
	}
	url, registered := ctx.images[name]
	if !registered || !imageExts[strings.ToLower(path.Ext(name))] {
		return fail(ErrUnregisteredApplication, fmt.Sprintf("xdg-open: no application registered for '%s'", name))
	}
	return Result{
		Lines: []string{fmt.Sprintf("Opening %s...", name)},
		Image: &Image{Name: name, URL: url},
	}
}

func cmdEcho(_ *Context, args []string) Result {
	return Result{Lines: []string{strings.Join(args, " ")}}
}

func cmdWhoami(*Context, []string) Result {
	return Result{Lines: []string{content.Owner}}
}

func cmdDate(ctx *Context, _ []string) Result {
	return Result{Lines: []string{ctx.now().Format(time.UnixDate)}}
}

func cmdClear(*Context, []string) Result {
	return Result{Clear: true}
}

func cmdHistory(ctx *Context, _ []string) Result {
	lines := make([]string, 0, len(ctx.State.History))
	for n, h := range ctx.State.History {
		lines = append(lines, fmt.Sprintf("%5d  %s", n+1, h))
	}
	return Result{Lines: lines}
}

func cmdExit(*Context, []string) Result {
	return Result{Lines: []string{"logout"}, Exit: true}
}
