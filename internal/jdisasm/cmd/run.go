package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Disassemble several files non-interactively",
	Long: `Disassemble every given class file or archive in non-interactive mode and exit.
Files that fail to load are reported and skipped.`,
	Example: `
# Disassemble two classes
jdisasm run A.class B.class

# Only the constructors, without per-file headers
jdisasm run -q -m "<init>" lib/*.jar
  `,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		return runFiles(cmd, args, cfg, quiet)
	},
}

func runFiles(cmd *cobra.Command, paths []string, cfg Config, quiet bool) error {
	out := cmd.OutOrStdout()
	var failed []error
	for i, path := range paths {
		if !quiet {
			if i > 0 {
				fmt.Fprint(out, cfg.Options().LineSeparator())
			}
			fmt.Fprintf(out, "// file %s%s", path, cfg.Options().LineSeparator())
		}
		if err := runNoTUI(out, path, cfg); err != nil {
			slog.Error("Failed to disassemble", "file", path, "error", err)
			if !quiet {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
			failed = append(failed, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(failed...)
}

func init() {
	runCmd.Flags().BoolP("quiet", "q", false, "Hide per-file headers and error messages")
}
