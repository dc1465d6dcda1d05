package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"figBrowser/figure"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout  = 15 * time.Second
	defaultMaxBytes = 50 * 1024 * 1024
	userAgent       = "figBrowser/1.0"
)

type FigureFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, figure.MimeType, error)
	FetchAll(ctx context.Context, urls []string) []Result
}

// Result is the outcome of fetching one URL.
type Result struct {
	URL      string
	Data     []byte
	MimeType figure.MimeType
	Err      error
}

type figureFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFigureFetcher(timeout time.Duration) FigureFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &figureFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: defaultMaxBytes,
	}
}

func NewFigureFetcherWithClient(client *http.Client) FigureFetcher {
	return &figureFetcher{client: client, maxBytes: defaultMaxBytes}
}

// Fetch downloads one rendered figure. The format comes from the
// Content-Type header, or from the bytes when the server does not send a
// supported image type.
func (ff *figureFetcher) Fetch(ctx context.Context, url string) ([]byte, figure.MimeType, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/png, image/svg+xml, image/jpeg")

	resp, err := ff.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download figure: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, ff.maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(body)) > ff.maxBytes {
		return nil, "", fmt.Errorf("figure exceeds %d bytes", ff.maxBytes)
	}
	if len(body) == 0 {
		return nil, "", figure.ErrEmptyFigure
	}

	if mt, ok := figure.ParseMimeType(resp.Header.Get("Content-Type")); ok {
		return body, mt, nil
	}
	if mt, ok := figure.DetectMimeType(body); ok {
		return body, mt, nil
	}
	return nil, "", fmt.Errorf("%w: %q from %s", figure.ErrUnsupportedFormat, resp.Header.Get("Content-Type"), url)
}

// FetchAll downloads every URL concurrently. Results are in the order of
// urls regardless of which download finished first.
func (ff *figureFetcher) FetchAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			data, mt, err := ff.Fetch(ctx, u)
			results[i] = Result{URL: u, Data: data, MimeType: mt, Err: err}
		}(i, u)
	}
	wg.Wait()

	return results
}

// URLSource emits figures downloaded from a fixed list of URLs.
type URLSource struct {
	fetcher  FigureFetcher
	urls     []string
	log      logrus.FieldLogger
	handlers []figure.Handler
}

func NewURLSource(f FigureFetcher, urls []string, log logrus.FieldLogger) *URLSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &URLSource{fetcher: f, urls: urls, log: log}
}

func (s *URLSource) OnFigure(h figure.Handler) {
	s.handlers = append(s.handlers, h)
}

// Run downloads every URL and emits the successful ones in list order. It
// returns the number of figures emitted and the first download error.
func (s *URLSource) Run(ctx context.Context) (int, error) {
	var firstErr error
	emitted := 0
	for _, res := range s.fetcher.FetchAll(ctx, s.urls) {
		if res.Err != nil {
			s.log.WithField("url", res.URL).Warnf("Failed to fetch figure: %v", res.Err)
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch %s: %w", res.URL, res.Err)
			}
			continue
		}
		for _, h := range s.handlers {
			h(res.Data, string(res.MimeType))
		}
		emitted++
	}
	return emitted, firstErr
}
