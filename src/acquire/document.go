package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/webclient"
)

const (
	// UserAgent identifies document fetches.
	UserAgent = "Mozilla/5.0 (compatible; TruthLens/1.0)"

	minDocumentChars = 20
	maxDocumentChars = 8000
	minArticleChars  = 100
	maxDocumentBytes = 5 << 20
	insufficientText = "Could not extract enough text from the URL"
)

// Fetcher retrieves a remote document as HTML text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches documents over HTTP. The client is expected to stamp
// UserAgent on requests (see webclient.NewWithUserAgent); Fetch sets it too.
// With Guard set, URLs naming loopback, private or metadata hosts are refused;
// pair it with webclient.NewGuarded so resolved addresses are checked as well.
type HTTPFetcher struct {
	Client *http.Client
	Guard  bool
}

// Fetch GETs url. Any non-2xx status is an acquisition fault and is not retried.
func (f HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.Guard {
		if err := webclient.CheckURL(url); err != nil {
			return "", blockedFault(err)
		}
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", faults.Acquisition(http.StatusBadGateway, "Failed to fetch URL", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		if webclient.Blocked(err) {
			return "", blockedFault(err)
		}
		return "", faults.Acquisition(http.StatusBadGateway, "Failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", faults.Acquisition(http.StatusBadGateway, fmt.Sprintf("Failed to fetch URL: HTTP %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", faults.Acquisition(http.StatusBadGateway, "Failed to read URL body", err)
	}
	return string(body), nil
}

func blockedFault(err error) error {
	return &faults.Error{
		Category: faults.CategoryValidation,
		Status:   http.StatusBadRequest,
		Message:  "URL host is not allowed",
		Err:      err,
	}
}

func (a *Acquirer) acquireDocument(ctx context.Context, d modality.Document) (modality.Payload, error) {
	if a.fetcher == nil {
		return modality.Payload{}, faults.Config("document fetcher not configured")
	}
	page, err := a.fetcher.Fetch(ctx, d.URL)
	if err != nil {
		return modality.Payload{}, err
	}
	text := ExtractText(page)
	if runeLen(strings.TrimSpace(text)) < minDocumentChars {
		return modality.Payload{}, faults.Acquisition(http.StatusUnprocessableEntity, insufficientText, nil)
	}
	text = truncate(text, maxDocumentChars)
	return modality.TextPayload(modality.KindDocument, text, modality.Meta{
		Source:          d.URL,
		ExtractedLength: runeLen(text),
	}), nil
}

// ExtractText pulls candidate text out of an HTML page in priority order:
// title, meta description, og:description, article (only when its trimmed
// length exceeds 100 characters) and finally the whole body. Parts are joined
// by newlines and every whitespace run collapses to one space.
func ExtractText(page string) string {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var parts []string
	if t := textOfAll(root, atom.Title); t != "" {
		parts = append(parts, t)
	}
	if c := metaContent(root, "name", "description"); c != "" {
		parts = append(parts, c)
	}
	if c := metaContent(root, "property", "og:description"); c != "" {
		parts = append(parts, c)
	}
	if a := textOfAll(root, atom.Article); runeLen(strings.TrimSpace(a)) > minArticleChars {
		parts = append(parts, a)
	}
	if b := textOfAll(root, atom.Body); b != "" {
		parts = append(parts, b)
	}
	return collapseWhitespace(strings.Join(parts, "\n"))
}

func textOfAll(root *html.Node, tag atom.Atom) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			writeText(n, &sb)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String()
}

func writeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb)
	}
}

// metaContent returns the content attribute of the first <meta> whose key
// attribute equals value.
func metaContent(root *html.Node, key, value string) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && attr(n, key) == value {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if found == nil {
		return ""
	}
	return attr(found, "content")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate keeps the first n characters. No word-boundary handling.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
