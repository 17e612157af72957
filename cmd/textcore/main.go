// Command textcore is a small interactive driver for the search engine: it
// registers each file given on the command line as a source, then answers
// queries typed on stdin, one per line, until EOF or an interrupt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/n-orlov/textsearch/internal/engine"
	"github.com/n-orlov/textsearch/internal/source"
	"github.com/n-orlov/textsearch/pkg/config"
	"github.com/n-orlov/textsearch/pkg/health"
	"github.com/n-orlov/textsearch/pkg/logger"
	"github.com/n-orlov/textsearch/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	eng := engine.New(cfg, m)

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d sources registered", len(eng.ListNames())),
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, path := range flag.Args() {
		name := filepath.Base(path)
		if err := eng.AddSource(name, fileOpener(path)); err != nil {
			slog.Error("failed to register source", "path", path, "error", err)
			continue
		}
		slog.Info("source registered", "name", name, "path", path)
	}

	report := checker.Run(ctx)
	slog.Info("startup health check", "status", report.Status)

	runQueryLoop(ctx, eng)
}

func fileOpener(path string) source.Opener {
	return func() (io.ReadCloser, int64, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, 0, err
		}
		return file, info.Size(), nil
	}
}

func runQueryLoop(ctx context.Context, eng *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stderr, "enter a query (min 3 characters), or Ctrl+D to quit:")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		query := scanner.Text()
		if query == "" {
			continue
		}
		results := eng.Search(query)
		if len(results) == 0 {
			fmt.Println("no matches")
			continue
		}
		for _, name := range eng.ListNames() {
			positions, ok := results[name]
			if !ok {
				continue
			}
			fmt.Printf("%s: %v\n", name, positions)
		}
	}
}
