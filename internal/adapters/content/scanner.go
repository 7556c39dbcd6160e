// Package content scans the source tree into articles.
package content

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scanner implements ports.ContentScanner over a directory-per-article
// layout: each subdirectory with an index.md becomes one article.
type Scanner struct {
	Logger ports.Logger
}

// NewScanner creates a new Scanner with the given logger.
func NewScanner(logger ports.Logger) *Scanner {
	return &Scanner{Logger: logger}
}

// matter is the front-matter envelope of index.md.
type matter struct {
	Title    string    `yaml:"title"`
	Date     time.Time `yaml:"date"`
	Summary  string    `yaml:"summary"`
	Featured string    `yaml:"featured"`
	Draft    bool      `yaml:"draft"`
}

// Scan enumerates the content directory. Failure to read the tree itself
// is fatal; a malformed individual article is skipped with a warning so
// one bad document cannot take the site down.
func (s *Scanner) Scan(dir string) ([]*domain.Article, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrContentScanFailed.Error()), "dir", dir)
	}

	var articles []*domain.Article
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		article, err := s.readArticle(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			s.Logger.Warn("skipping article " + entry.Name() + ": " + err.Error())
			continue
		}
		if article != nil {
			articles = append(articles, article)
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Date.After(articles[j].Date)
	})

	return articles, nil
}

func (s *Scanner) readArticle(dir, slug string) (*domain.Article, error) {
	indexPath := filepath.Join(dir, domain.ArticleFileName)
	data, err := os.ReadFile(indexPath) //nolint:gosec // path is inside the scanned content tree
	if err != nil {
		if os.IsNotExist(err) {
			// A directory without index.md is not an article.
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrArticleReadFailed.Error())
	}

	var fm matter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFrontMatterParseFailed.Error())
	}

	article := &domain.Article{
		Slug:     slug,
		Title:    fm.Title,
		Date:     fm.Date,
		Summary:  fm.Summary,
		Featured: fm.Featured,
		Draft:    fm.Draft,
		Body:     string(body),
		Dir:      dir,
	}
	if article.Title == "" {
		article.Title = slug
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrArticleReadFailed.Error())
	}
	for _, f := range files {
		if f.IsDir() || f.Name() == domain.ArticleFileName || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		if domain.IsRasterImage(f.Name()) {
			article.Images = append(article.Images, f.Name())
		} else {
			article.Assets = append(article.Assets, f.Name())
		}
	}
	sort.Strings(article.Images)
	sort.Strings(article.Assets)

	return article, nil
}
