// Package pipeline turns one article's Markdown and images into HTML
// with responsive markup, resolving every image through the variant
// generator before the article is rendered.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.fstop.ch/fstop/internal/engine/variants"
	"go.trai.ch/zerr"
)

// imageRef matches Markdown image references with a plain destination.
var imageRef = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)

// ArticleOutput is one fully resolved article, ready for emission.
type ArticleOutput struct {
	Article *domain.Article

	// HTML is the rendered body with responsive image markup.
	HTML string

	// Images maps each source filename to its variant result.
	Images map[string]*domain.VariantResult

	// Statuses records how each image was resolved, for the summary.
	Statuses map[string]variants.Status
}

// Pipeline resolves articles one at a time. Images within an article are
// generated concurrently; the cache serializes its own writes.
type Pipeline struct {
	generator *variants.Generator
	logger    ports.Logger
	md        goldmark.Markdown
	limit     int
}

// New creates a Pipeline around the given generator.
func New(generator *variants.Generator, logger ports.Logger) *Pipeline {
	return &Pipeline{
		generator: generator,
		logger:    logger,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
		limit: runtime.NumCPU(),
	}
}

// Process resolves all of the article's images into destDir, rewrites the
// body's image references, and renders the result to HTML. Image failures
// degrade per image and never fail the article.
func (p *Pipeline) Process(
	ctx context.Context,
	article *domain.Article,
	destDir string,
	force bool,
) (*ArticleOutput, error) {
	out := &ArticleOutput{
		Article:  article,
		Images:   make(map[string]*domain.VariantResult, len(article.Images)),
		Statuses: make(map[string]variants.Status, len(article.Images)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)

	for _, filename := range article.Images {
		g.Go(func() error {
			req := variants.Request{
				Slug:       article.Slug,
				Filename:   filename,
				SourcePath: filepath.Join(article.Dir, filename),
				DestDir:    destDir,
				Force:      force,
			}
			result, status, err := p.generator.Ensure(gctx, req)
			if err != nil {
				// Even the copy fallback failed; the body keeps its
				// original reference for this image.
				p.logger.Warn("image " + filename + " unusable: " + err.Error())
				return nil
			}

			mu.Lock()
			out.Images[filename] = result
			out.Statuses[filename] = status
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	body := p.rewriteImages(article.Body, out.Images)

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(body), &buf); err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, domain.ErrMarkdownRenderFailed.Error()),
			"article", article.Slug,
		)
	}
	out.HTML = buf.String()

	return out, nil
}

// rewriteImages replaces Markdown image references with <picture> markup.
// References without generated variants keep their original form; authors
// may legitimately reference an image that failed generation.
func (p *Pipeline) rewriteImages(body string, images map[string]*domain.VariantResult) string {
	return imageRef.ReplaceAllStringFunc(body, func(match string) string {
		sub := imageRef.FindStringSubmatch(match)
		alt, ref := sub[1], sub[2]

		result, ok := images[ref]
		if !ok || len(result.Variants) == 0 {
			return match
		}
		return pictureElement(alt, result)
	})
}

// pictureElement builds the format-negotiated responsive element: one
// <source> per modern format with width descriptors, and an <img>
// fallback using the largest full-fidelity file.
func pictureElement(alt string, result *domain.VariantResult) string {
	var sb strings.Builder
	sb.WriteString("<picture>")

	for _, format := range []domain.Format{domain.FormatAVIF, domain.FormatWebP} {
		srcset := result.Srcset(format)
		if srcset == "" {
			continue
		}
		fmt.Fprintf(&sb, `<source type="%s" srcset="%s">`, format.MIME(), srcset)
	}

	src := result.LargestFilename
	var dims string
	if fallback := result.Variants[result.LargestWidth][domain.FormatJPEG]; fallback != nil {
		src = fallback.Filename
		dims = fmt.Sprintf(` width="%d" height="%d"`, fallback.Width, fallback.Height)
	}
	fmt.Fprintf(&sb, `<img src="%s"%s alt="%s" loading="lazy">`,
		html.EscapeString(src), dims, html.EscapeString(alt))
	sb.WriteString("</picture>")

	return sb.String()
}
