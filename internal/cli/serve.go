package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"abapseg/internal/adapter/cache"
	"abapseg/internal/adapter/segmenter"
	"abapseg/internal/port"
	"abapseg/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the segmentation engine over HTTP",
	Long: `Start an HTTP server exposing POST /segment. The request body carries
pgm_name, inc_name and code; the response is the JSON array of records.

Examples:
  abapseg serve
  abapseg serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))

	var seg port.Segmenter = segmenter.New(segmenter.Options{
		KeepBlankGaps: cfg.Segment.KeepBlankGaps,
	})
	if cfg.Server.CacheSize > 0 {
		seg = cache.NewCachedSegmenter(seg, cache.NewResultCache(cfg.Server.CacheSize, cfg.Server.CacheTTL()))
	}

	srv := server.New(cfg.Server, seg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
