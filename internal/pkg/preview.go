package pkg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// LinkPreview 从页面 meta 中提取的信息
type LinkPreview struct {
	Title       string
	Description string
	Image       string
}

var previewClient = &http.Client{Timeout: 5 * time.Second}

// FetchPreview 优先 og:*，其次 <title> / description
func FetchPreview(ctx context.Context, pageURL string) (LinkPreview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return LinkPreview{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BlogLinkPreview/1.0)")
	resp, err := previewClient.Do(req)
	if err != nil {
		return LinkPreview{}, fmt.Errorf("GET %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return LinkPreview{}, fmt.Errorf("GET %s: status %d", pageURL, resp.StatusCode)
	}
	return ParsePreview(pageURL, io.LimitReader(resp.Body, 2<<20))
}

func ParsePreview(pageURL string, r io.Reader) (LinkPreview, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return LinkPreview{}, fmt.Errorf("parse html: %w", err)
	}
	meta := func(sel string) string {
		v, _ := doc.Find(sel).First().Attr("content")
		return strings.TrimSpace(v)
	}
	p := LinkPreview{
		Title:       meta(`meta[property="og:title"]`),
		Description: meta(`meta[property="og:description"]`),
		Image:       meta(`meta[property="og:image"]`),
	}
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Description == "" {
		p.Description = meta(`meta[name="description"]`)
	}
	if p.Image == "" {
		if href, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href"); ok {
			p.Image = href
		}
	}
	p.Image = absURL(pageURL, p.Image)
	return p, nil
}

// absURL 将相对链接转换为绝对 URL
func absURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
