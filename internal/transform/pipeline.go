package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// MarkupConverter turns DokuWiki markup into markdown text.
type MarkupConverter interface {
	Convert(ctx context.Context, name string, src []byte) (string, error)
}

// Result is a fully converted document.
type Result struct {
	Lines    []string
	Title    string
	Warnings []LinkWarning
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSentenceUnwrap enables the one-sentence-per-line reflow pass.
func WithSentenceUnwrap(enabled bool) Option {
	return func(p *Pipeline) {
		p.unwrap = enabled
	}
}

// WithLogger sets the logger used for recoverable rewrite problems.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline composes the rewrite passes into a full page conversion. It holds
// no per-document state and performs no file I/O.
type Pipeline struct {
	converter MarkupConverter
	unwrap    bool
	logger    *slog.Logger
}

// New creates a pipeline that delegates non-markdown input to conv.
func New(conv MarkupConverter, opts ...Option) *Pipeline {
	p := &Pipeline{
		converter: conv,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Convert transforms src into Wiki.js markdown lines with front matter.
// name identifies the source in errors and logs; fallbackTitle is used when
// the document does not open with a heading.
func (p *Pipeline) Convert(ctx context.Context, name string, src []byte, fallbackTitle string) (*Result, error) {
	var lines []string
	var warnings []LinkWarning

	if IsMarkdown(src) {
		lines, warnings = RewriteLinks(SplitLines(string(src)))
		for _, w := range warnings {
			p.logger.Warn("link rewrite abandoned, review the result",
				slog.String("source", name),
				slog.Int("line", w.Line),
				slog.String("content", w.Content))
		}
	} else {
		if p.converter == nil {
			return nil, fmt.Errorf("transform: %s is not markdown and no markup converter is configured", name)
		}
		md, err := p.converter.Convert(ctx, name, src)
		if err != nil {
			return nil, err
		}
		lines = strings.Split(md, "\n")
	}

	lines = StripStaleTags(lines)
	lines = RewriteWraps(lines)
	if p.unwrap {
		lines = UnwrapSentences(lines)
	}

	meta := BuildMetadata(lines, fallbackTitle)
	return &Result{
		Lines:    PrependMetadata(lines, meta),
		Title:    Title(lines, fallbackTitle),
		Warnings: warnings,
	}, nil
}

// IsMarkdown reports whether src already is markdown, judged by a leading
// heading marker on its first line.
func IsMarkdown(src []byte) bool {
	return len(src) > 0 && src[0] == '#'
}

// SplitLines splits s on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Join renders lines the way converted pages are written to disk.
func Join(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}
