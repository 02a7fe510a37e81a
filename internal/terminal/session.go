package terminal

import (
	"strings"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

// Session is everything one opening of the terminal owns. A new one is built
// on every Open and dropped on Close.
type Session struct {
	gen     uint64
	state   State
	shell   *shell.State
	input   []rune
	lines   []Line
	partial string
}

func newSession(gen uint64) *Session {
	return &Session{
		gen:   gen,
		state: Booting,
		shell: shell.NewState(),
	}
}

// Prompt renders the shell prompt for path, abbreviating the owner's home to ~.
func Prompt(path []string) string {
	dir := vfs.Join(path)
	home := vfs.Join(vfs.HomePath[:2])
	if dir == home || strings.HasPrefix(dir, home+"/") {
		dir = "~" + strings.TrimPrefix(dir, home)
	}
	return content.Owner + "@portfolio:" + dir + "$ "
}

func (s *Session) prompt() string { return Prompt(s.shell.Path) }

// Snapshot is a copy of what a front-end should currently show.
type Snapshot struct {
	State   string `json:"state"`
	Open    bool   `json:"open"`
	Lines   []Line `json:"lines"`
	Partial string `json:"partial,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
	Input   string `json:"input,omitempty"`
	Cwd     string `json:"cwd,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}
