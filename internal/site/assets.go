package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// SyncAssets copies the site-wide static directory and every article's
// passthrough files into the output tree. A file is rewritten only when
// its content hash differs from the existing copy, so repeated builds
// leave untouched assets alone.
func (e *Emitter) SyncAssets(outputs []*pipeline.ArticleOutput) error {
	staticDir := filepath.Join(e.site.Root, e.site.StaticDir)
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		if err := e.syncTree(staticDir, e.outputPath()); err != nil {
			return err
		}
	}

	for _, out := range outputs {
		for _, name := range out.Article.Assets {
			src := filepath.Join(out.Article.Dir, name)
			dest := e.outputPath(out.Article.Slug, name)
			if err := e.syncFile(src, dest); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Emitter) syncTree(root, destRoot string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
		return e.syncFile(path, filepath.Join(destRoot, rel))
	})
}

// syncFile copies src to dest unless dest already has identical content.
func (e *Emitter) syncFile(src, dest string) error {
	srcSum, err := hashFile(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", src)
	}

	destSum, err := hashFile(dest)
	if err == nil && destSum == srcSum {
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dest)
	}

	if err := copyFile(src, dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", dest)
	}
	return nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the scanned site tree
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // read-only close

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src) //nolint:gosec // paths come from the scanned site tree
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only close

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}

	out, err := os.Create(dest) //nolint:gosec // dest is inside the build output dir
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
