// Package converter converts a DokuWiki installation into a Wiki.js tree,
// one page or media file at a time.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/starford/dokuwiki2wikijs/internal/apperr"
	"github.com/starford/dokuwiki2wikijs/internal/checksum"
	"github.com/starford/dokuwiki2wikijs/internal/dokuwiki"
	"github.com/starford/dokuwiki2wikijs/internal/index"
	"github.com/starford/dokuwiki2wikijs/internal/models"
	"github.com/starford/dokuwiki2wikijs/internal/parser"
	"github.com/starford/dokuwiki2wikijs/internal/storage"
	"github.com/starford/dokuwiki2wikijs/internal/transform"
)

// Report summarizes a full conversion run.
type Report struct {
	RunID    string
	Pages    int
	Media    int
	Skipped  int
	Warnings int
	Dangling []models.Link
}

// Option is a functional option for configuring the service.
type Option func(*Service)

// WithManifest records every conversion in m.
func WithManifest(m index.Manifest) Option {
	return func(s *Service) {
		s.manifest = m
	}
}

// WithExclude leaves pages and media matching m out of the conversion.
func WithExclude(m *dokuwiki.Matcher) Option {
	return func(s *Service) {
		s.exclude = m
	}
}

// WithUsers sets the DokuWiki user registry stored alongside the run.
func WithUsers(u dokuwiki.Users) Option {
	return func(s *Service) {
		s.users = u
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service coordinates source reads, the transform pipeline, output writes
// and the manifest. It converts sequentially and is not safe for
// concurrent use.
type Service struct {
	src      storage.Provider // installation root
	dst      storage.Provider // output pages tree
	pipeline *transform.Pipeline
	manifest index.Manifest
	exclude  *dokuwiki.Matcher
	users    dokuwiki.Users
	logger   *slog.Logger
}

// NewService creates a converter reading the installation src and writing
// the Wiki.js tree to dst.
func NewService(src, dst storage.Provider, p *transform.Pipeline, opts ...Option) *Service {
	s := &Service{
		src:      src,
		dst:      dst,
		pipeline: p,
		users:    dokuwiki.Users{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertAll converts every page and copies every media file. A pipeline
// error such as a pandoc syntax error aborts the run.
func (s *Service) ConvertAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	if s.manifest != nil {
		id, err := s.manifest.BeginRun(s.src.Root())
		if err != nil {
			return nil, err
		}
		report.RunID = id
		if err := s.manifest.ReplaceUsers(s.users.Sorted()); err != nil {
			return nil, err
		}
	}

	pages, err := s.src.List(dokuwiki.PagesDir, dokuwiki.PageExt)
	if err != nil {
		return nil, err
	}
	for _, e := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		page, err := s.ConvertPage(ctx, e.Path)
		if errors.Is(err, apperr.ErrSkipped) {
			report.Skipped++
			continue
		}
		if err != nil {
			return report, err
		}
		report.Pages++
		report.Warnings += len(page.Warnings)
	}

	media, err := s.src.List(dokuwiki.MediaDir, "")
	if err != nil {
		return report, err
	}
	for _, e := range media {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := s.CopyMedia(e.Path)
		if errors.Is(err, apperr.ErrSkipped) {
			report.Skipped++
			continue
		}
		if err != nil {
			return report, err
		}
		report.Media++
	}

	if s.manifest != nil {
		report.Dangling, err = s.manifest.DanglingLinks()
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ConvertPage converts the page at rel (relative to data/pages) and writes
// it to the output tree. Sidebars and excluded pages yield
// apperr.ErrSkipped.
func (s *Service) ConvertPage(ctx context.Context, rel string) (*models.Page, error) {
	src := path.Join(dokuwiki.PagesDir, filepath.ToSlash(rel))
	data, err := s.src.Read(src)
	if err != nil {
		return nil, err
	}
	return s.convert(ctx, rel, data)
}

// RefreshPage converts the page at rel only when its source changed since
// it was last recorded. It reports whether a conversion happened.
func (s *Service) RefreshPage(ctx context.Context, rel string) (*models.Page, bool, error) {
	src := path.Join(dokuwiki.PagesDir, filepath.ToSlash(rel))
	data, err := s.src.Read(src)
	if err != nil {
		return nil, false, err
	}
	if s.manifest != nil {
		stored, err := s.manifest.GetChecksum(src)
		if err != nil {
			return nil, false, err
		}
		if stored != "" && stored == checksum.Text(data) {
			return nil, false, nil
		}
	}
	page, err := s.convert(ctx, rel, data)
	if err != nil {
		return nil, false, err
	}
	return page, true, nil
}

func (s *Service) convert(ctx context.Context, rel string, data []byte) (*models.Page, error) {
	src := path.Join(dokuwiki.PagesDir, filepath.ToSlash(rel))
	if s.exclude.Match(rel) {
		s.logger.Debug("page excluded", slog.String("source", src))
		return nil, apperr.ErrSkipped
	}
	target, name, skip := dokuwiki.PageTarget(rel)
	if skip {
		s.logger.Debug("page skipped", slog.String("source", src))
		return nil, apperr.ErrSkipped
	}

	res, err := s.pipeline.Convert(ctx, filepath.Join(s.src.Root(), filepath.FromSlash(src)), data, name)
	if err != nil {
		return nil, fmt.Errorf("converter: %s: %w", src, err)
	}
	out := transform.Join(res.Lines)
	if err := s.dst.Write(target, out); err != nil {
		return nil, err
	}

	page := &models.Page{
		Source:    src,
		Target:    target,
		Name:      name,
		Title:     res.Title,
		Lines:     res.Lines,
		Checksum:  checksum.Text(data),
		Converted: time.Now().UTC(),
	}
	for _, w := range res.Warnings {
		page.Warnings = append(page.Warnings, fmt.Sprintf("line %d: %s", w.Line, w.Content))
	}

	if err := s.recordPage(page, out); err != nil {
		return nil, err
	}

	s.logger.Info("page converted",
		slog.String("source", src),
		slog.String("target", target),
		slog.Int("lines", len(page.Lines)),
		slog.Int("warnings", len(page.Warnings)))
	return page, nil
}

func (s *Service) recordPage(page *models.Page, out []byte) error {
	if s.manifest == nil {
		return nil
	}
	parsed, err := parser.Parse(out)
	if err != nil {
		return err
	}
	return s.manifest.UpsertEntry(index.EntryRow{
		Source:    page.Source,
		Kind:      models.KindPage,
		Target:    page.Target,
		URL:       page.URL(),
		Title:     page.Title,
		Checksum:  page.Checksum,
		Lines:     len(page.Lines),
		Warnings:  len(page.Warnings),
		UpdatedAt: page.Converted,
	}, parser.InternalLinks(parsed.Links))
}

// CopyMedia copies the media file at rel (relative to data/media) into the
// output pages tree unchanged.
func (s *Service) CopyMedia(rel string) error {
	src := path.Join(dokuwiki.MediaDir, filepath.ToSlash(rel))
	if s.exclude.Match(rel) {
		return apperr.ErrSkipped
	}
	data, err := s.src.Read(src)
	if err != nil {
		return err
	}
	target := dokuwiki.MediaTarget(rel)
	if err := s.dst.Write(target, data); err != nil {
		return err
	}
	if s.manifest != nil {
		if err := s.manifest.UpsertEntry(index.EntryRow{
			Source:   src,
			Kind:     models.KindMedia,
			Target:   target,
			URL:      models.TargetURL(target),
			Checksum: checksum.Sum(data),
		}, nil); err != nil {
			return err
		}
	}
	s.logger.Info("media copied", slog.String("source", src), slog.String("target", target))
	return nil
}

// RemovePage deletes the output of the page at rel and forgets it.
func (s *Service) RemovePage(rel string) error {
	src := path.Join(dokuwiki.PagesDir, filepath.ToSlash(rel))
	target, _, skip := dokuwiki.PageTarget(rel)
	if skip {
		return nil
	}
	if err := s.dst.Delete(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if s.manifest != nil {
		if err := s.manifest.DeleteEntry(src); err != nil {
			return err
		}
	}
	s.logger.Info("page removed", slog.String("source", src), slog.String("target", target))
	return nil
}
