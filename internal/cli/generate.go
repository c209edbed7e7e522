package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vitalvas/oasgen/internal/manifest"
	"github.com/vitalvas/oasgen/openapi"
)

// GenerateConfig captures the inputs of the generate command after merging
// defaults, manifest settings and command line overrides.
type GenerateConfig struct {
	Manifest        string
	Output          string
	Format          string
	Pretty          bool
	Interpretations []string
	Verbose         bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Format: "json"}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <manifest>",
		Short: "Write the OpenAPI document described by a manifest",
		Long: "Write the OpenAPI document described by a manifest to a file or stdout. " +
			"Flags take precedence over the manifest settings block.",
		Example: strings.TrimSpace(`  oasgen generate api.yaml
  oasgen generate api.yaml --format yaml --output openapi.yaml
  oasgen generate api.yaml --interpretations iso8601,unix --pretty`),
		Args: manifestArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := resolveGenerateConfig(cmd.Flags(), args[0], &m.Settings)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			return runGenerate(cmd.OutOrStdout(), m, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file (stdout when omitted)")
	flags.StringP("format", "f", "", "Output format (json|yaml); defaults to json")
	flags.Bool("pretty", false, "Indent JSON output")
	flags.StringSlice("interpretations", nil, "Enabled interpretations of opaque types, in priority order")

	return cmd
}

func resolveGenerateConfig(flags *pflag.FlagSet, path string, settings *manifest.Settings) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()
	cfg.Manifest = path

	if settings != nil {
		if settings.Format != "" {
			cfg.Format = settings.Format
		}
		cfg.Pretty = settings.Pretty
		cfg.Interpretations = settings.Interpretations
	}

	if err := applyGenerateFlagOverrides(flags, &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("output") {
		value, err := flags.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = value
	}
	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = value
	}
	if flags.Changed("pretty") {
		value, err := flags.GetBool("pretty")
		if err != nil {
			return err
		}
		cfg.Pretty = value
	}
	if flags.Changed("interpretations") {
		value, err := flags.GetStringSlice("interpretations")
		if err != nil {
			return err
		}
		cfg.Interpretations = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Output = strings.TrimSpace(c.Output)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Interpretations = sanitizeList(c.Interpretations)
}

func (c *GenerateConfig) validate() error {
	if _, err := openapi.ParseFormat(c.Format); err != nil {
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml)", c.Format))
	}
	return nil
}

func runGenerate(stdout io.Writer, m *manifest.Manifest, cfg *GenerateConfig, logger *slog.Logger) error {
	data, err := generateDocument(m, cfg.Interpretations, cfg.Format, cfg.Pretty, logger)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err := stdout.Write(data)
		return err
	}

	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return fmt.Errorf("generate: write %s: %w", cfg.Output, err)
	}
	logger.Info("document written", slog.String("manifest", cfg.Manifest), slog.String("output", cfg.Output), slog.Int("bytes", len(data)))
	return nil
}

func generateDocument(m *manifest.Manifest, interps []string, format string, pretty bool, logger *slog.Logger) ([]byte, error) {
	doc, err := buildDocument(m, interps, logger)
	if err != nil {
		return nil, err
	}

	f, err := openapi.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	data, err := openapi.Encode(doc, f, pretty)
	if err != nil {
		return nil, fmt.Errorf("generate: encode: %w", err)
	}
	if f == openapi.FormatJSON {
		data = append(data, '\n')
	}
	return data, nil
}

func buildDocument(m *manifest.Manifest, interps []string, logger *slog.Logger) (*openapi.Document, error) {
	reg, err := m.Compile()
	if err != nil {
		return nil, err
	}

	gen := openapi.NewGenerator(&openapi.Config{
		EnableInterpretations: interps,
		Logger:                logger,
	})
	return gen.Generate(reg.Info, reg.Endpoints)
}

func sanitizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
