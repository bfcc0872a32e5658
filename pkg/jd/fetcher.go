package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// blockSelectors are elements whose text should end up on its own line.
const blockSelectors = "br, p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table"

//nolint:gochecknoglobals // Compiled once, read-only
var (
	tagPattern     = regexp.MustCompile(`<[^>]*?>`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	specialPattern = regexp.MustCompile(`[^\p{L}\p{N}\s.,:;+#/()'&%-]`)
)

// Fetch retrieves page text from a file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves page text with context. HTML, whether fetched
// or read from an .html file, is reduced to its visible text.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	// Check if input is a URL
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		// It's a URL - fetch via HTTP
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch page from URL: %s", input)
			return content, err
		}
		return content, err
	}

	// It's a file path - read from disk
	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch page from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads page content from a file.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = string(data)
	if content == "" {
		err = errors.New("file is empty")
		return content, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		content, err = htmlToText(strings.NewReader(content))
		if err != nil {
			return content, err
		}
	}

	return content, err
}

// fetchFromURL retrieves a page and returns its visible text.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	// Set a reasonable user agent
	req.Header.Set("User-Agent", "referral-mailer/1.0")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	content, err = htmlToText(resp.Body)
	if err != nil {
		return content, err
	}

	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

// htmlToText parses an HTML document and returns its visible text, one
// block element per line.
func htmlToText(r io.Reader) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	// Remove non-visible content
	doc.Find("script, style, noscript, template, svg, head").Remove()

	// Keep block boundaries as line breaks
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	text = strings.Join(kept, "\n")
	return text, err
}

// CleanText prepares scraped page text for the extraction prompt: residual
// tags and URLs are dropped, characters outside letters, digits and common
// punctuation are removed, and whitespace collapses to single spaces.
func CleanText(text string) (cleaned string) {
	cleaned = tagPattern.ReplaceAllString(text, " ")
	cleaned = urlPattern.ReplaceAllString(cleaned, " ")
	cleaned = specialPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned
}
