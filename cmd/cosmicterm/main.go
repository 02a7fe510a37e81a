// Command cosmicterm runs the portfolio terminal in the local TTY.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/logging"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
	"github.com/Zachkp/cosmic-portfolio/internal/tui"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

var (
	fast     bool
	speed    float64
	logFile  string
	logLevel string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosmicterm",
		Short: "Browse the cosmic portfolio from your terminal",
		Long: `cosmicterm opens the portfolio's toy terminal in a window inside your TTY.

Drag the window by its title bar, F2 opens and closes it, Esc quits.`,
		Args: cobra.NoArgs,
		RunE: run,
	}
	cmd.Flags().BoolVar(&fast, "fast", false, "skip the boot animation delays")
	cmd.Flags().Float64Var(&speed, "speed", 1, "boot animation delay multiplier")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (default: discard)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	out := logFile
	if out == "" {
		out = os.DevNull
	}
	if err := logging.Init(logging.Config{Level: logLevel, Format: "console", OutputPath: out}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync() //nolint:errcheck

	if fast {
		speed = 0
	}
	if speed < 0 {
		return fmt.Errorf("--speed must not be negative")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	nav, err := runScreen(screen, boot.Scale(boot.Script, speed))
	if err != nil {
		return err
	}
	if nav != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "git checkout asked to open %s; visit the site to see it.\n", nav)
	}
	return nil
}

// runScreen drives the terminal until the user quits and reports where a
// checkout tried to navigate, if anywhere.
func runScreen(screen tcell.Screen, script []boot.Line) (string, error) {
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	view := tui.New(screen)
	term := terminal.New(shell.New(vfs.Portfolio()),
		terminal.WithSink(view),
		terminal.WithScript(script))
	view.Bind(term)

	logging.Info("cosmicterm started", zap.Int("boot_lines", len(script)))
	term.Open()
	view.Run()
	term.Close()

	return view.Navigated(), nil
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
