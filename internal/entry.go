// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/dokuwiki2wikijs/internal/apperr"
	"github.com/starford/dokuwiki2wikijs/internal/archive"
	"github.com/starford/dokuwiki2wikijs/internal/converter"
	"github.com/starford/dokuwiki2wikijs/internal/dokuwiki"
	"github.com/starford/dokuwiki2wikijs/internal/index"
	"github.com/starford/dokuwiki2wikijs/internal/pandoc"
	"github.com/starford/dokuwiki2wikijs/internal/storage"
	"github.com/starford/dokuwiki2wikijs/internal/transform"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		output:    os.Stdout,
		logOutput: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.source == "" {
		return fmt.Errorf("source path is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("source", app.source),
		slog.String("work_dir", cfg.Output.WorkDir),
		slog.String("archive", cfg.Output.Archive),
		slog.String("converter", cfg.Converter.Command),
		slog.String("manifest", cfg.Manifest.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	info, err := os.Stat(app.source)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", app.source, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	pipeline := transform.New(
		pandoc.New(cfg.Converter.Command, cfg.Converter.Timeout),
		transform.WithSentenceUnwrap(cfg.Pipeline.UnwrapSentences),
		transform.WithLogger(logger),
	)

	if !info.IsDir() {
		if app.watch {
			return fmt.Errorf("watch needs a folder, %s is a file", app.source)
		}
		return convertFile(ctx, pipeline, app.source, app.output)
	}
	return app.convertTree(ctx, pipeline, logger)
}

// convertFile converts a single page and prints the result.
func convertFile(ctx context.Context, p *transform.Pipeline, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	res, err := p.Convert(ctx, path, data, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(transform.Join(res.Lines), '\n')); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (a *application) convertTree(ctx context.Context, p *transform.Pipeline, logger *slog.Logger) error {
	cfg := a.config
	root := a.source

	if !dokuwiki.IsInstallation(root) {
		return fmt.Errorf("%s: %w", root, apperr.ErrNotDokuWiki)
	}

	users, err := dokuwiki.ReadUsers(root)
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	logger.Info("Users loaded", slog.Int("count", len(users)))

	exclude, err := dokuwiki.NewMatcher(cfg.Source.Exclude)
	if err != nil {
		return err
	}

	// The work dir only ever holds output of the previous run.
	pagesOut := filepath.Join(cfg.Output.WorkDir, "data", "pages")
	if err := os.RemoveAll(cfg.Output.WorkDir); err != nil {
		return fmt.Errorf("clean work dir: %w", err)
	}
	if err := os.MkdirAll(pagesOut, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	src, err := storage.NewFS(root)
	if err != nil {
		return fmt.Errorf("init source storage: %w", err)
	}
	dst, err := storage.NewFS(pagesOut)
	if err != nil {
		return fmt.Errorf("init output storage: %w", err)
	}

	svcOpts := []converter.Option{
		converter.WithExclude(exclude),
		converter.WithUsers(users),
		converter.WithLogger(logger),
	}
	var manifest index.Manifest
	if cfg.Manifest.Enabled() {
		db, err := index.Open(cfg.Manifest.Path)
		if err != nil {
			return fmt.Errorf("init manifest: %w", err)
		}
		defer db.Close()
		manifest = db
		svcOpts = append(svcOpts, converter.WithManifest(db))
	}

	svc := converter.NewService(src, dst, p, svcOpts...)

	report, err := svc.ConvertAll(ctx)
	if err != nil {
		return err
	}
	if err := writeArchive(cfg.Output.Archive, dst, logger); err != nil {
		return err
	}

	logger.Info("Conversion finished",
		slog.String("run_id", report.RunID),
		slog.Int("pages", report.Pages),
		slog.Int("media", report.Media),
		slog.Int("skipped", report.Skipped),
		slog.Int("warnings", report.Warnings),
		slog.Int("dangling_links", len(report.Dangling)))
	for _, l := range report.Dangling {
		logger.Warn("dangling link", slog.String("source", l.Source), slog.String("target", l.Target))
	}
	if manifest != nil {
		sum, err := manifest.Summary()
		if err != nil {
			return fmt.Errorf("manifest summary: %w", err)
		}
		logger.Info("Manifest written",
			slog.String("path", cfg.Manifest.Path),
			slog.Int("pages", sum.Pages),
			slog.Int("media", sum.Media),
			slog.Int("pages_with_warnings", sum.Warnings),
			slog.Int("links", sum.Links))
	}

	if !a.watch {
		return nil
	}
	return watch(ctx, svc, cfg.Output.Archive, dst, logger)
}

func writeArchive(path string, tree storage.Provider, logger *slog.Logger) error {
	n, err := archive.Write(path, tree)
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	logger.Info("archive written", slog.String("path", path), slog.Int("entries", n))
	return nil
}

// watch reconverts changed pages and refreshes the archive until a
// shutdown signal arrives or ctx is cancelled.
func watch(ctx context.Context, svc *converter.Service, archivePath string, dst storage.Provider, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		return converter.Watch(watchCtx, svc, logger, func(kind, rel string) {
			logger.Info("page changed", slog.String("kind", kind), slog.String("path", rel))
			if err := writeArchive(archivePath, dst, logger); err != nil {
				logger.Error("archive refresh failed", slog.String("error", err.Error()))
			}
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
			logger.Info("Context cancelled, stopping watcher")
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watcher error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped successfully")
	return nil
}
