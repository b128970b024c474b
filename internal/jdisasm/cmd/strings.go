package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jdisasm/internal/classfile"
)

var stringsCmd = &cobra.Command{
	Use:   "strings [file]",
	Short: "Dump the String constants of a class or archive",
	Example: `
# Every string literal of a jar
jdisasm strings app.jar

# Only literals of at least 8 characters, as JSON
jdisasm strings -l 8 --json Hello.class
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minLen, _ := cmd.Flags().GetInt("min-len")
		asJSON, _ := cmd.Flags().GetBool("json")
		return runStrings(cmd.OutOrStdout(), args[0], minLen, asJSON)
	},
}

func init() {
	stringsCmd.Flags().IntP("min-len", "l", 0, "Skip strings shorter than this")
	stringsCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(stringsCmd)
}

type stringsOutput struct {
	Class   string                     `json:"class"`
	Strings []classfile.StringConstant `json:"strings"`
}

func runStrings(w io.Writer, path string, minLen int, asJSON bool) error {
	classes, err := classfile.LoadPath(path)
	if err != nil {
		return err
	}

	out := make([]stringsOutput, 0, len(classes))
	for _, c := range classes {
		out = append(out, stringsOutput{Class: c.Name, Strings: classfile.Strings(c, minLen)})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}

	for _, o := range out {
		for _, s := range o.Strings {
			if len(classes) > 1 {
				fmt.Fprintf(w, "%s ", o.Class)
			}
			fmt.Fprintf(w, "#%d %s\n", s.Index, s.Quoted())
		}
	}
	return nil
}
