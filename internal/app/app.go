// Package app implements the application layer for fstop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.fstop.ch/fstop/internal/adapters/imagecache"
	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.fstop.ch/fstop/internal/engine/pipeline"
	"go.fstop.ch/fstop/internal/engine/variants"
	"go.fstop.ch/fstop/internal/site"
	"go.fstop.ch/fstop/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scanner      ports.ContentScanner
	converter    ports.Converter
	logger       ports.Logger
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scanner ports.ContentScanner,
	converter ports.Converter,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		scanner:      scanner,
		converter:    converter,
		logger:       log,
		stdout:       os.Stdout,
	}
}

// WithStdout redirects the build summary. Used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Force disables every cache fast path and regenerates all variants.
	Force bool
	// Drafts includes articles marked draft in the output.
	Drafts bool
}

// Build runs one complete site build. Only configuration and content
// enumeration failures are fatal; image failures degrade per image.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	articles, err := a.scanner.Scan(filepath.Join(cfg.Root, cfg.ContentDir))
	if err != nil {
		return zerr.Wrap(err, "failed to read content directory")
	}
	if !opts.Drafts {
		articles = published(articles)
	}

	// The cache lives exactly one build: loaded here, handed by
	// reference to the generator and the emitter.
	cache := imagecache.Open(filepath.Join(cfg.Root, domain.DefaultCachePath()), a.logger)

	generator := variants.NewGenerator(a.converter, cache, a.logger, cfg.Widths, cfg.Quality)
	pipe := pipeline.New(generator, a.logger)
	emitter := site.NewEmitter(cfg, cache, a.logger)

	outputs := make([]*pipeline.ArticleOutput, 0, len(articles))
	var counts summaryCounts

	for _, article := range articles {
		destDir := filepath.Join(cfg.Root, cfg.OutputDir, article.Slug)

		out, err := pipe.Process(ctx, article, destDir, opts.Force)
		if err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}

		// Variants are fully resolved before the page is written; the
		// rewrite above depended on them.
		if err := emitter.EmitArticle(out); err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}

		counts.add(out)
		outputs = append(outputs, out)
	}

	if err := emitter.EmitIndex(outputs); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}
	if err := emitter.EmitFeed(outputs); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}
	if err := emitter.SyncAssets(outputs); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}

	a.printSummary(len(outputs), counts)
	return nil
}

type summaryCounts struct {
	generated int
	cached    int
	degraded  int
}

func (c *summaryCounts) add(out *pipeline.ArticleOutput) {
	for _, status := range out.Statuses {
		switch status {
		case variants.StatusGenerated:
			c.generated++
		case variants.StatusDegraded:
			c.degraded++
		default:
			c.cached++
		}
	}
}

func (a *App) printSummary(pages int, c summaryCounts) {
	fmt.Fprintln(a.stdout, style.Header.Render("build complete"))
	fmt.Fprintf(a.stdout, "  %s\n", style.Generated.Render(fmt.Sprintf("%d pages, %d images generated", pages, c.generated)))
	fmt.Fprintf(a.stdout, "  %s\n", style.Skipped.Render(fmt.Sprintf("%d images cached", c.cached)))
	if c.degraded > 0 {
		fmt.Fprintf(a.stdout, "  %s\n", style.Degraded.Render(fmt.Sprintf("%d images copied without variants", c.degraded)))
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
	Cache  bool
}

// Clean removes build artifacts based on the provided options.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return err
	}

	remove := func(path, name string) error {
		a.logger.Info("removing " + name)
		if err := os.RemoveAll(path); err != nil {
			return zerr.Wrap(err, "failed to remove "+name)
		}
		return nil
	}

	if opts.Output {
		if err := remove(filepath.Join(cfg.Root, cfg.OutputDir), "output directory"); err != nil {
			return err
		}
	}
	if opts.Cache {
		if err := remove(filepath.Join(cfg.Root, domain.FstopDirName), "image cache"); err != nil {
			return err
		}
	}
	return nil
}

func published(articles []*domain.Article) []*domain.Article {
	kept := articles[:0]
	for _, a := range articles {
		if !a.Draft {
			kept = append(kept, a)
		}
	}
	return kept
}
