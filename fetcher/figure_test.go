package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"figBrowser/figure"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`

// pngHeader is enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newFigureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/plot.svg", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		io.WriteString(w, testSVG)
	})
	mux.HandleFunc("/sniffed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngHeader)
	})
	mux.HandleFunc("/slow.svg", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, testSVG+"<!--slow-->")
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "hello")
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFetch(t *testing.T) {
	srv := newFigureServer(t)
	ff := NewFigureFetcherWithClient(srv.Client())
	ctx := context.Background()

	data, mt, err := ff.Fetch(ctx, srv.URL+"/plot.svg")
	require.NoError(t, err)
	assert.Equal(t, testSVG, string(data))
	assert.Equal(t, figure.MimeSVG, mt)

	data, mt, err = ff.Fetch(ctx, srv.URL+"/sniffed")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, figure.MimePNG, mt)

	_, _, err = ff.Fetch(ctx, srv.URL+"/text")
	assert.ErrorIs(t, err, figure.ErrUnsupportedFormat)

	_, _, err = ff.Fetch(ctx, srv.URL+"/empty")
	assert.ErrorIs(t, err, figure.ErrEmptyFigure)

	_, _, err = ff.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchTooLarge(t *testing.T) {
	srv := newFigureServer(t)
	ff := &figureFetcher{client: srv.Client(), maxBytes: 4}

	_, _, err := ff.Fetch(context.Background(), srv.URL+"/plot.svg")
	assert.ErrorContains(t, err, "exceeds")
}

func TestFetchAllKeepsOrder(t *testing.T) {
	srv := newFigureServer(t)
	ff := NewFigureFetcherWithClient(srv.Client())

	urls := []string{srv.URL + "/slow.svg", srv.URL + "/plot.svg", srv.URL + "/text"}
	results := ff.FetchAll(context.Background(), urls)
	require.Len(t, results, 3)

	assert.Equal(t, urls[0], results[0].URL)
	assert.Equal(t, testSVG+"<!--slow-->", string(results[0].Data))
	assert.Equal(t, testSVG, string(results[1].Data))
	assert.Error(t, results[2].Err)
}

func TestURLSource(t *testing.T) {
	srv := newFigureServer(t)
	ff := NewFigureFetcherWithClient(srv.Client())

	src := NewURLSource(ff, []string{srv.URL + "/slow.svg", srv.URL + "/missing", srv.URL + "/plot.svg"}, quietLogger())
	b := figure.NewBrowser(figure.Options{Logger: quietLogger()})
	b.Attach(src)

	n, err := src.Run(context.Background())
	assert.Equal(t, 2, n)
	assert.ErrorContains(t, err, "/missing")

	assert.Equal(t, 2, b.History().Len())
	first, err := b.History().At(0)
	require.NoError(t, err)
	assert.True(t, first.Equal([]byte(testSVG+"<!--slow-->")))
	assert.True(t, b.Current().Equal([]byte(testSVG)))
}
