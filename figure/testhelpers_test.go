package figure

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// scatterPNG renders a width x height scatter of red dots, like a 6x4 inch
// plot saved at 100 dpi.
func scatterPNG(t *testing.T, width, height int, seed int64) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 10; i++ {
		cx, cy := rng.Intn(width), rng.Intn(height)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				img.Set(cx+dx, cy+dy, color.RGBA{R: 255, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func scatterSVG(seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8" standalone="no"?>` + "\n")
	buf.WriteString(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n")
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="432pt" height="288pt" viewBox="0 0 432 288" version="1.1">` + "\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&buf, `  <circle cx="%.3f" cy="%.3f" r="3" fill="#ff0000"/>`+"\n", rng.Float64()*432, rng.Float64()*288)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBrowser(t *testing.T) *Browser {
	t.Helper()
	return NewBrowser(Options{Logger: quietLogger(), SaveDir: t.TempDir()})
}

// fakeShell stands in for a kernel that pushes figures to its listeners.
type fakeShell struct {
	handlers []Handler
}

func (s *fakeShell) OnFigure(h Handler) {
	s.handlers = append(s.handlers, h)
}

func (s *fakeShell) emit(data []byte, mimeType string) {
	for _, h := range s.handlers {
		h(data, mimeType)
	}
}
