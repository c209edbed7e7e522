package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/vitalvas/oasgen/internal/manifest"
	"github.com/vitalvas/oasgen/openapi"
	"github.com/vitalvas/oasgen/swaggerui"
)

const shutdownTimeout = 10 * time.Second

// ServeConfig captures the inputs of the serve command.
type ServeConfig struct {
	Manifest        string
	Addr            string
	UI              string
	Resources       string
	Streaming       bool
	H2C             bool
	Interpretations []string
	Verbose         bool
}

func defaultServeConfig() ServeConfig {
	return ServeConfig{Addr: ":8000", UI: "swagger"}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <manifest>",
		Short: "Serve the OpenAPI document with a documentation UI",
		Long: "Serve the OpenAPI document described by a manifest as JSON and YAML, together with " +
			"swagger-ui from a local distribution directory or a CDN page.",
		Example: strings.TrimSpace(`  oasgen serve api.yaml
  oasgen serve api.yaml --addr :9000 --ui redoc
  oasgen serve api.yaml --resources ./swagger-ui/dist --streaming`),
		Args: manifestArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := resolveServeConfig(cmd.Flags(), args[0], &m.Settings)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			handler, err := newServeHandler(m, cfg, logger)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("serve: listen %s: %w", cfg.Addr, err)
			}
			return runServer(cmd.Context(), ln, handler, logger)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "Listen address; defaults to :8000")
	flags.String("ui", "", "Documentation UI served without --resources (swagger|rapidoc|redoc)")
	flags.String("resources", "", "Directory holding the swagger-ui distribution")
	flags.Bool("streaming", false, "Read UI files on every request instead of caching them")
	flags.Bool("h2c", false, "Accept cleartext HTTP/2")
	flags.StringSlice("interpretations", nil, "Enabled interpretations of opaque types, in priority order")

	return cmd
}

func resolveServeConfig(flags *pflag.FlagSet, path string, settings *manifest.Settings) (*ServeConfig, error) {
	cfg := defaultServeConfig()
	cfg.Manifest = path
	if settings != nil {
		cfg.Interpretations = settings.Interpretations
	}

	if err := applyServeFlagOverrides(flags, &cfg); err != nil {
		return nil, err
	}

	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Resources = strings.TrimSpace(cfg.Resources)
	cfg.Interpretations = sanitizeList(cfg.Interpretations)

	if cfg.Addr == "" {
		return nil, newUsageError("serve: --addr must not be empty")
	}
	if _, err := swaggerui.ParseDocsUI(cfg.UI); err != nil {
		return nil, newUsageError(fmt.Sprintf("serve: unsupported --ui %q (allowed: swagger, rapidoc, redoc)", cfg.UI))
	}
	if cfg.Streaming && cfg.Resources == "" {
		return nil, newUsageError("serve: --streaming requires --resources")
	}

	return &cfg, nil
}

func applyServeFlagOverrides(flags *pflag.FlagSet, cfg *ServeConfig) error {
	for _, name := range []string{"addr", "ui", "resources"} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		switch name {
		case "addr":
			cfg.Addr = value
		case "ui":
			cfg.UI = value
		case "resources":
			cfg.Resources = value
		}
	}
	for _, name := range []string{"streaming", "h2c", "verbose"} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		switch name {
		case "streaming":
			cfg.Streaming = value
		case "h2c":
			cfg.H2C = value
		case "verbose":
			cfg.Verbose = value
		}
	}
	if flags.Changed("interpretations") {
		value, err := flags.GetStringSlice("interpretations")
		if err != nil {
			return err
		}
		cfg.Interpretations = value
	}
	return nil
}

// newServeHandler compiles the manifest eagerly so that type errors are
// reported at startup. The document itself is built on the first request.
func newServeHandler(m *manifest.Manifest, cfg *ServeConfig, logger *slog.Logger) (http.Handler, error) {
	reg, err := m.Compile()
	if err != nil {
		return nil, err
	}

	ui, err := swaggerui.ParseDocsUI(cfg.UI)
	if err != nil {
		return nil, err
	}

	uiCfg := &swaggerui.Config{
		UI:     ui,
		Title:  reg.Info.Header.Title,
		Logger: logger,
	}
	if cfg.Resources != "" {
		res, err := swaggerui.NewResources(swaggerui.ResourcesConfig{
			FS:        os.DirFS(cfg.Resources),
			Streaming: cfg.Streaming,
		})
		if err != nil {
			return nil, fmt.Errorf("serve: %s: %w", cfg.Resources, err)
		}
		uiCfg.Resources = res
	}

	gen := openapi.NewGenerator(&openapi.Config{
		EnableInterpretations: cfg.Interpretations,
		Logger:                logger,
	})
	build := func() (*openapi.Document, error) {
		return gen.Generate(reg.Info, reg.Endpoints)
	}

	ctrl, err := swaggerui.NewController(build, uiCfg)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = ctrl.Handler()
	if cfg.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	paths := ctrl.Paths()
	logger.Debug("docs routes registered",
		slog.String("json", paths.APIJSON),
		slog.String("yaml", paths.APIYAML),
		slog.String("ui", paths.UI),
		slog.Bool("local_resources", uiCfg.Resources != nil),
		slog.Bool("h2c", cfg.H2C),
	)

	return handler, nil
}

// runServer serves on ln until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("server listening", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
