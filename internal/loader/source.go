package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/atomicstack/doctree/internal/xmldoc"
)

const maxDocumentBytes = 64 << 20

type format int

const (
	formatXML format = iota
	formatHTML
)

type source struct {
	data   []byte
	format format
	file   string
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func read(ctx context.Context, client httpDoer, position string) (source, error) {
	u, err := url.Parse(position)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return readFile(position)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return readURL(ctx, client, u)
	case "file":
		return readFile(u.Path)
	default:
		return source{}, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
	}
}

func readFile(path string) (source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return source{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return source{}, fmt.Errorf("read %s: %w", abs, err)
	}
	return source{data: data, format: formatForExt(abs), file: abs}, nil
}

func formatForExt(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return formatHTML
	default:
		return formatXML
	}
}

func readURL(ctx context.Context, client httpDoer, u *url.URL) (source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return source{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml, text/html;q=0.9, */*;q=0.5")
	resp, err := client.Do(req)
	if err != nil {
		return source{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return source{}, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return source{}, fmt.Errorf("read %s: %w", u, err)
	}
	return source{data: data, format: formatForContentType(resp.Header.Get("Content-Type"), u.Path)}, nil
}

func formatForContentType(header, path string) format {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		return formatForExt(path)
	}
	if strings.Contains(mediaType, "html") && !strings.Contains(mediaType, "xml") {
		return formatHTML
	}
	return formatXML
}

func parse(src source, sanitize bool) (*xmldoc.Document, error) {
	if src.format == formatHTML {
		data := src.data
		if sanitize {
			data = bluemonday.UGCPolicy().SanitizeBytes(data)
		}
		return xmldoc.ParseHTML(bytes.NewReader(data))
	}
	return xmldoc.Parse(bytes.NewReader(src.data))
}
