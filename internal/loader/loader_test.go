package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/doctree/internal/xmldoc"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(t *testing.T, opts Options) *Loader {
	t.Helper()
	l := New(opts)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestFetchParsesXMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.xml", `<root id="7">hi</root>`)
	l := newTestLoader(t, Options{})

	doc, err := l.Fetch(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, doc.Root())
	assert.Equal(t, "root", doc.Root().Name)
}

func TestFetchReusesSnapshotForIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", `<root>a</root>`)
	l := newTestLoader(t, Options{})

	first, err := l.Fetch(context.Background(), path)
	require.NoError(t, err)
	second, err := l.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	writeFile(t, dir, "doc.xml", `<root>b</root>`)
	third, err := l.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, "b", third.Root().Children[0].Value)
}

func TestFetchHTMLFileIsSanitized(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html", `<p>hello<script>alert(1)</script></p>`)

	raw, err := newTestLoader(t, Options{}).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.NotNil(t, xmldoc.Resolve(raw, "/html/body/p/script"))

	clean, err := newTestLoader(t, Options{SanitizeHTML: true}).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.NotNil(t, xmldoc.Resolve(clean, "/html/body/p"))
	assert.Nil(t, xmldoc.Resolve(clean, "/html/body/p/script"))
}

func TestFetchURLUsesContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<title>x</title>`))
		case "/feed":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<feed><entry/></feed>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	l := newTestLoader(t, Options{HTTPTimeout: time.Second})

	page, err := l.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "html", page.Root().Name)

	feed, err := l.Fetch(context.Background(), srv.URL+"/feed")
	require.NoError(t, err)
	assert.Equal(t, "feed", feed.Root().Name)

	_, err = l.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}

func TestFetchRejectsUnsupportedPositions(t *testing.T) {
	l := newTestLoader(t, Options{})
	_, err := l.Fetch(context.Background(), "ftp://example.com/doc.xml")
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = l.Fetch(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestDocumentLoadsInBackground(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.xml", `<root/>`)
	l := newTestLoader(t, Options{})

	assert.Nil(t, l.Document(""))
	require.Eventually(t, func() bool {
		return l.Document(path) != nil
	}, 5*time.Second, 10*time.Millisecond)

	first := l.Document(path)
	assert.Same(t, first, l.Document(path), "cached snapshot is served until refreshed")
	require.Eventually(t, func() bool { return !l.IsWorking() }, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, l.LastError())
}

func TestDocumentRecordsFetchErrors(t *testing.T) {
	l := newTestLoader(t, Options{})
	missing := filepath.Join(t.TempDir(), "missing.xml")

	assert.Nil(t, l.Document(missing))
	require.Eventually(t, func() bool { return l.LastError() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, l.Document(missing))
}

func TestDocumentRefreshesAfterFileChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", `<root>one</root>`)
	l := newTestLoader(t, Options{MaxAge: 50 * time.Millisecond})

	require.Eventually(t, func() bool { return l.Document(path) != nil }, 5*time.Second, 10*time.Millisecond)
	first := l.Document(path)

	writeFile(t, dir, "doc.xml", `<root><changed/></root>`)
	require.Eventually(t, func() bool {
		doc := l.Document(path)
		return doc != first && doc.ElementCount() == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestThrottleHonoursContext(t *testing.T) {
	th := newThrottle(time.Hour)
	require.NoError(t, th.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, th.wait(ctx), context.Canceled)
	assert.NoError(t, newThrottle(0).wait(context.Background()))
}

func TestWatchRetriesAfterFailedAdd(t *testing.T) {
	l := newTestLoader(t, Options{})
	if l.watcher == nil {
		t.Skip("file watcher unavailable")
	}
	dir := filepath.Join(t.TempDir(), "later")
	file := filepath.Join(dir, "doc.xml")

	l.watch(file)
	assert.False(t, l.watching(dir), "a directory that could not be watched is not recorded")

	require.NoError(t, os.Mkdir(dir, 0o755))
	l.watch(file)
	assert.True(t, l.watching(dir))
}
