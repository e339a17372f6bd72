package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const sessionPrompt = "launchdeck> "

// sessionCmd runs commands against one long-lived engine.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run commands in an interactive session",
	Long: `Start an interactive session. Each line is run as a launchdeck command against
one shared engine, so processes launched in the session stay tracked and can be
listed with "ps" and stopped with "stop". Type "exit" or press Ctrl-D to leave.

Commands can also be piped in:
  printf 'launch api\nps\n' | launchdeck session`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionEngine != nil {
			return fmt.Errorf("already in a session")
		}

		ctx := context.Background()
		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}
		sessionEngine = eng
		defer func() {
			sessionEngine = nil
			if err := eng.Close(); err != nil {
				logger.Warn("failed to close workspace stores", "err", err)
			}
		}()

		in := cmd.InOrStdin()
		interactive := false
		if f, ok := in.(*os.File); ok {
			interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return runSession(in, os.Stdout, os.Stderr, interactive)
	},
}

// runSession reads command lines from in until EOF or "exit" and dispatches
// each through the root command. A failing line is reported and the session
// continues.
func runSession(in io.Reader, out, errOut io.Writer, interactive bool) error {
	defer rootCmd.SetArgs(nil)

	// Global flags given to "session" itself hold for every line
	globals := sessionGlobals{json: jsonOutput, workspace: workspaceFlag, logLevel: logLevel}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, sessionPrompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintln(errOut, FormatError(fmt.Errorf("cannot parse line: %w", err)))
			continue
		}
		if len(args) > 0 && args[0] == "session" {
			fmt.Fprintln(errOut, FormatError(fmt.Errorf("already in a session")))
			continue
		}

		resetFlags(rootCmd)
		globals.restore()

		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintln(errOut, FormatError(err))
		}
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}

type sessionGlobals struct {
	json      bool
	workspace string
	logLevel  string
}

func (g sessionGlobals) restore() {
	jsonOutput = g.json
	workspaceFlag = g.workspace
	logLevel = g.logLevel
}

// resetFlags returns every flag of cmd and its subcommands to its default so
// values from one invocation do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
