package site

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	MediaNS string     `xml:"xmlns:media,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description,omitempty"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
	Media       *rssMedia     `xml:"media:content,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type rssMedia struct {
	URL    string `xml:"url,attr"`
	Width  int    `xml:"width,attr,omitempty"`
	Height int    `xml:"height,attr,omitempty"`
	Medium string `xml:"medium,attr"`
}

// EmitFeed writes feed.xml. Each item carries its article's
// representative image with dimensions and byte size taken from the
// cache, capped at the configured item limit.
func (e *Emitter) EmitFeed(outputs []*pipeline.ArticleOutput) error {
	base := strings.TrimSuffix(e.site.BaseURL, "/")

	limit := e.site.FeedLimit
	if limit > len(outputs) || limit <= 0 {
		limit = len(outputs)
	}

	items := make([]rssItem, 0, limit)
	for _, out := range outputs[:limit] {
		link := base + "/" + out.Article.Slug + "/"
		item := rssItem{
			Title:       out.Article.Title,
			Link:        link,
			Description: out.Article.Summary,
			PubDate:     out.Article.Date.Format(time.RFC1123Z),
			GUID:        link,
		}

		if rep := out.Article.RepresentativeImage(); rep != "" {
			item.Enclosure, item.Media = e.feedImage(out.Article.Slug, rep, link)
		}

		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		MediaNS: "http://search.yahoo.com/mrss/",
		Channel: rssChannel{
			Title:       e.site.Title,
			Link:        base + "/",
			Description: e.site.Description,
			Items:       items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	buf.WriteString("\n")

	return e.writeFile(e.outputPath("feed.xml"), buf.Bytes())
}

// feedImage resolves the representative image's largest full-fidelity
// file from the cache. The converter is never consulted here.
func (e *Emitter) feedImage(slug, filename, link string) (*rssEnclosure, *rssMedia) {
	entry, ok := e.cache.Get(slug, filename)
	if !ok {
		return nil, nil
	}

	name := filename
	size := entry.Size
	width := entry.LargestWidth
	height := 0
	if vf := entry.Variant(entry.LargestWidth, domain.FormatJPEG); vf != nil {
		name = vf.Filename
		size = vf.Size
		height = vf.Height
	} else if entry.Original != nil {
		height = entry.Original.Height
	}

	url := link + name
	enclosure := &rssEnclosure{
		URL:    url,
		Length: strconv.FormatInt(size, 10),
		Type:   domain.FormatJPEG.MIME(),
	}
	media := &rssMedia{URL: url, Width: width, Height: height, Medium: "image"}
	return enclosure, media
}
