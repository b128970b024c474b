package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jdisasm/internal/jdisasm/log"
)

func init() {
	rootCmd.PersistentFlags().String("cwd", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
	addRenderFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output methods and lines as JSON")
	rootCmd.Flags().Bool("markdown", false, "Render the listing as markdown")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(runCmd)
}

// addRenderFlags registers the flags read by configFromFlags.
func addRenderFlags(fs *pflag.FlagSet) {
	fs.BoolP("compact", "c", false, "Print simple class names")
	fs.String("indent", "  ", "Indentation unit")
	fs.Int("tab-level", 1, "Indentation units before every instruction line")
	fs.Bool("crlf", false, "Terminate lines with CRLF")
	fs.StringArrayP("method", "m", nil, "Only show methods with this name (repeatable)")
	fs.String("theme", "dark", "Markdown theme (dark, charm)")
}

var rootCmd = &cobra.Command{
	Use:   "jdisasm [file]",
	Short: "Terminal-based JVM bytecode disassembler",
	Long: `jdisasm disassembles Java class files and jar archives.
It provides an interactive TUI for browsing methods and their bytecode.`,
	Example: `
# Browse a class interactively
jdisasm Hello.class

# Print every method of a jar with simple class names
jdisasm -n -c app.jar

# Dump one method as JSON
jdisasm -j -m main Hello.class
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logFile, _ := cmd.Flags().GetString("log-file")
		log.Setup(logFile, debug)
		// Piped output is never colored
		if !term.IsTerminal(os.Stdout.Fd()) {
			os.Setenv("JDISASM_NO_COLOR", "1")
		}
		_, err := ResolveCwd(cmd)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return fmt.Errorf("cannot access file: %w", err)
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")

		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
		}

		switch {
		case jsonOutput:
			return runJSON(os.Stdout, absPath, cfg)
		case markdown:
			return runMarkdown(os.Stdout, absPath, cfg)
		case noTUI:
			return runNoTUI(os.Stdout, absPath, cfg)
		}

		program := tea.NewProgram(
			NewModel(absPath, cfg),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func Execute() {
	// Bypass fang's styled output for scripted modes and pipes
	plain := plainMode(os.Args[1:]) || !term.IsTerminal(os.Stdout.Fd())

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// plainMode reports whether args select --no-tui or --json, including
// inside combined short flags such as -cn. Scanning stops at "--".
func plainMode(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--no-tui" || arg == "--json" ||
			strings.HasPrefix(arg, "--no-tui=") || strings.HasPrefix(arg, "--json="):
			return !strings.HasSuffix(arg, "=false")
		case strings.HasPrefix(arg, "--") || !strings.HasPrefix(arg, "-"):
			continue
		}
		for _, c := range arg[1:] {
			if c > 127 {
				break
			}
			fl := rootCmd.Flags().ShorthandLookup(string(c))
			if fl == nil {
				fl = rootCmd.PersistentFlags().ShorthandLookup(string(c))
			}
			if fl == nil {
				break
			}
			if fl.Name == "no-tui" || fl.Name == "json" {
				return true
			}
			// The rest of the group is this flag's value
			if fl.Value.Type() != "bool" {
				break
			}
		}
	}
	return false
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}
