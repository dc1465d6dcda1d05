package figure

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
)

type Info struct {
	Width    int
	Height   int
	MimeType MimeType
	Size     int
}

// Inspect reports the pixel (or SVG user unit) dimensions of a record.
func Inspect(r *Record) (Info, error) {
	info := Info{MimeType: r.mimeType, Size: len(r.data)}

	if r.mimeType.IsVector() {
		w, h, err := svgSize(r.data)
		if err != nil {
			return info, err
		}
		info.Width, info.Height = w, h
		return info, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(r.data))
	if err != nil {
		return info, fmt.Errorf("failed to decode image: %w", err)
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info, nil
}

func svgSize(data []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to parse svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(se.Name.Local, "svg") {
			return 0, 0, fmt.Errorf("root element is <%s>, not <svg>", se.Name.Local)
		}

		var width, height, viewBox string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				width = attr.Value
			case "height":
				height = attr.Value
			case "viewBox":
				viewBox = attr.Value
			}
		}
		w, wok := parseLength(width)
		h, hok := parseLength(height)
		if wok && hok {
			return w, h, nil
		}
		if fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " ")); len(fields) == 4 {
			vw, err1 := strconv.ParseFloat(fields[2], 64)
			vh, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 == nil && err2 == nil {
				return int(vw + 0.5), int(vh + 0.5), nil
			}
		}
		return 0, 0, fmt.Errorf("svg has no usable width/height or viewBox")
	}
}

// parseLength reads the numeric part of an SVG length such as "432pt".
// Percentages are not absolute and are rejected.
func parseLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') && s[end-1] != '.' {
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return int(v + 0.5), true
}
