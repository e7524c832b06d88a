package pagepress

import (
	"bytes"
	"context"
	"encoding/xml"
	"time"

	"github.com/eringen/pagepress/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// Feed renders the index as an RSS 2.0 document, newest first.
func (s *Site) Feed(ctx context.Context) ([]byte, error) {
	index, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]rssItem, 0, index.Len())
	for _, p := range index.Items() {
		postURL := views.PostURL(s.cfg.URL, p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Preview,
			PubDate:     p.Frontmatter.PublishedAt.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.cfg.Name,
			Link:        s.cfg.URL,
			Description: s.cfg.Description,
			Items:       items,
		},
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(feed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
