package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"figBrowser/figure"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="48"><rect width="10" height="10"/></svg>`

type received struct {
	data     []byte
	mimeType string
}

type collector struct {
	mu   sync.Mutex
	figs []received
}

func (c *collector) handle(data []byte, mimeType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.figs = append(c.figs, received{data: data, mimeType: mimeType})
}

func (c *collector) snapshot() []received {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]received(nil), c.figs...)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewDirSourceRequiresDirectory(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"), 0, quietLogger())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "plot.svg")
	require.NoError(t, os.WriteFile(file, []byte(testSVG), 0644))
	_, err = NewDirSource(file, 0, quietLogger())
	assert.Error(t, err)
}

func TestDirSourceScan(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	write := func(name string, content string, mod time.Time) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	write("b.svg", testSVG+"<!--b-->", old)
	write("a.svg", testSVG+"<!--a-->", old)
	write("c.svg", testSVG+"<!--c-->", old.Add(-time.Minute))
	write("notes.txt", "not a figure", old)
	write(".hidden.svg", testSVG, old)
	write("empty.png", "", old)

	src, err := NewDirSource(dir, 0, quietLogger())
	require.NoError(t, err)
	defer src.Stop()

	c := &collector{}
	src.OnFigure(c.handle)

	n, err := src.Scan()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	figs := c.snapshot()
	require.Len(t, figs, 3)
	assert.Equal(t, testSVG+"<!--c-->", string(figs[0].data))
	assert.Equal(t, testSVG+"<!--a-->", string(figs[1].data))
	assert.Equal(t, testSVG+"<!--b-->", string(figs[2].data))
	for _, f := range figs {
		assert.Equal(t, "image/svg+xml", f.mimeType)
	}

	stats := src.Stats()
	assert.Equal(t, 3, stats.Delivered)
	assert.Equal(t, 1, stats.Skipped)
}

func TestDirSourceWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	src, err := NewDirSource(dir, 20*time.Millisecond, quietLogger())
	require.NoError(t, err)

	b := figure.NewBrowser(figure.Options{Logger: quietLogger()})
	b.Attach(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))
	require.NoError(t, src.Start(ctx), "second start is a no-op")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.svg"), []byte(testSVG), 0644))
	require.Eventually(t, func() bool { return b.History().Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	second := []byte(testSVG + "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.svg"), second, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.Eventually(t, func() bool { return b.History().Len() == 2 }, 5*time.Second, 10*time.Millisecond)

	assert.True(t, b.Current().Equal(second))

	src.Stop()
	src.Stop()
	assert.GreaterOrEqual(t, src.Stats().Events, 2)
}

func TestDirSourceStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	src, err := NewDirSource(t.TempDir(), 20*time.Millisecond, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case <-src.doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not exit after context cancellation")
	}
}
