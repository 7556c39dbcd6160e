// Package site emits the static site: article pages, the index, the RSS
// feed, and passthrough assets. It reads image metadata exclusively from
// the cache so emission never invokes the converter.
package site

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.fstop.ch/fstop/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Emitter writes build artifacts under the site's output directory.
type Emitter struct {
	site   *domain.Site
	cache  ports.ImageCache
	logger ports.Logger
}

// NewEmitter creates an Emitter for one build.
func NewEmitter(site *domain.Site, cache ports.ImageCache, logger ports.Logger) *Emitter {
	return &Emitter{site: site, cache: cache, logger: logger}
}

func (e *Emitter) outputPath(parts ...string) string {
	return filepath.Join(append([]string{e.site.Root, e.site.OutputDir}, parts...)...)
}

type pageContext struct {
	Site *domain.Site
	Page any
}

type articlePageData struct {
	Title string
	Date  time.Time
	Body  template.HTML
}

// EmitArticle writes public/<slug>/index.html from the pipeline output.
// The article's variants are already on disk next to it by now.
func (e *Emitter) EmitArticle(out *pipeline.ArticleOutput) error {
	data := pageContext{
		Site: e.site,
		Page: articlePageData{
			Title: out.Article.Title,
			Date:  out.Article.Date,
			Body:  template.HTML(out.HTML), //nolint:gosec // body is our own rendered markdown
		},
	}

	var buf bytes.Buffer
	if err := articlePage.Execute(&buf, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "article", out.Article.Slug)
	}

	return e.writeFile(e.outputPath(out.Article.Slug, "index.html"), buf.Bytes())
}

type indexEntry struct {
	Title string
	Date  time.Time
	Href  string
	Thumb string
}

type indexPageData struct {
	Entries []indexEntry
}

// EmitIndex writes the front page listing all articles newest first.
// Thumbnails come from the cached smallest full-fidelity variant.
func (e *Emitter) EmitIndex(outputs []*pipeline.ArticleOutput) error {
	entries := make([]indexEntry, 0, len(outputs))
	for _, out := range outputs {
		entry := indexEntry{
			Title: out.Article.Title,
			Date:  out.Article.Date,
			Href:  out.Article.Slug + "/",
		}
		if rep := out.Article.RepresentativeImage(); rep != "" {
			if thumb := e.smallestVariant(out.Article.Slug, rep); thumb != "" {
				entry.Thumb = out.Article.Slug + "/" + thumb
			}
		}
		entries = append(entries, entry)
	}

	var buf bytes.Buffer
	if err := indexPage.Execute(&buf, pageContext{Site: e.site, Page: indexPageData{Entries: entries}}); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}

	return e.writeFile(e.outputPath("index.html"), buf.Bytes())
}

// smallestVariant returns the smallest generated full-fidelity filename,
// or the plain filename for copied-through images.
func (e *Emitter) smallestVariant(slug, filename string) string {
	entry, ok := e.cache.Get(slug, filename)
	if !ok {
		return ""
	}
	if entry.Fallback() {
		return filename
	}
	for _, w := range entry.SortedWidths() {
		if vf := entry.Variant(w, domain.FormatJPEG); vf != nil {
			return vf.Filename
		}
	}
	return ""
}

func (e *Emitter) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	return nil
}
