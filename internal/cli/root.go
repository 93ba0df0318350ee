// Package cli implements the bazi command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/bazi-api/internal/config"
	"github.com/zapponejosh/bazi-api/internal/logger"
)

// Output formats accepted by --format.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	format string
	debug  bool

	cfg *config.Config
	log *slog.Logger
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "bazi",
		Short:        "BaZi (四柱八字) charts, solar terms and lunar dates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.format != FormatYAML && g.format != FormatJSON {
				return fmt.Errorf("--format must be %s or %s, got %q", FormatYAML, FormatJSON, g.format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			g.cfg = cfg

			level := cfg.LogLevel
			if g.debug {
				level = "debug"
			}
			g.log = logger.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
			slog.SetDefault(g.log)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&g.format, "format", "o", FormatYAML, "output format: yaml or json")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(chartCmd(g))
	cmd.AddCommand(termsCmd(g))
	cmd.AddCommand(lunarCmd(g))
	return cmd
}

// render writes v to w in the selected format.
func (g *globals) render(w io.Writer, v any) error {
	switch g.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
