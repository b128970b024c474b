package cmd

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"jdisasm/internal/classfile"
	"jdisasm/internal/jdisasm/styles"
)

// Config represents the rendering configuration of jdisasm
type Config struct {
	Compact  bool     `json:"compact" jsonschema:"title=Compact,description=Print simple class names instead of fully qualified ones"`
	Indent   string   `json:"indent" jsonschema:"title=Indent,description=Indentation unit"`
	TabLevel int      `json:"tabLevel" jsonschema:"title=Tab Level,description=Indentation units before every instruction line,minimum=0,default=1"`
	CRLF     bool     `json:"crlf" jsonschema:"title=CRLF,description=Terminate lines with CRLF instead of LF"`
	Methods  []string `json:"methods,omitempty" jsonschema:"title=Methods,description=Only show methods with these names"`
	Theme    string   `json:"theme" jsonschema:"title=Theme,description=Markdown theme,enum=dark,enum=charm"`
	Debug    bool     `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	LogFile  string   `json:"logFile,omitempty" jsonschema:"title=Log File,description=Write logs to this file instead of stderr"`
}

// Options converts the configuration into disassembler options.
func (c Config) Options() classfile.Options {
	return classfile.Options{
		Compact:  c.Compact,
		Indent:   c.Indent,
		TabLevel: c.TabLevel,
		CRLF:     c.CRLF,
		Methods:  c.Methods,
	}
}

func configFromFlags(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()
	var cfg Config
	cfg.Compact, _ = flags.GetBool("compact")
	cfg.Indent, _ = flags.GetString("indent")
	cfg.TabLevel, _ = flags.GetInt("tab-level")
	cfg.CRLF, _ = flags.GetBool("crlf")
	cfg.Methods, _ = flags.GetStringArray("method")
	cfg.Theme, _ = flags.GetString("theme")
	cfg.Debug, _ = flags.GetBool("debug")
	cfg.LogFile, _ = flags.GetString("log-file")

	if cfg.TabLevel < 0 {
		return Config{}, fmt.Errorf("invalid --tab-level %d: must not be negative", cfg.TabLevel)
	}
	if cfg.Theme == "" {
		cfg.Theme = styles.ThemeDark
	}
	if !slices.Contains(styles.Themes(), cfg.Theme) {
		return Config{}, fmt.Errorf("unknown theme %q, expected one of %v", cfg.Theme, styles.Themes())
	}
	return cfg, nil
}

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for configuration",
	Long:   "Generate JSON schema for the jdisasm configuration",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bts, err := configSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func configSchema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	bts, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return bts, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
