package figure

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

type MimeType string

const (
	MimePNG  MimeType = "image/png"
	MimeSVG  MimeType = "image/svg+xml"
	MimeJPEG MimeType = "image/jpeg"
)

var supportedMimeTypes = map[MimeType]string{
	MimePNG:  ".png",
	MimeSVG:  ".svg",
	MimeJPEG: ".jpg",
}

// ParseMimeType normalizes a mime string and reports whether it is one of
// the formats a figure can be ingested as. Parameters such as
// "; charset=utf-8" are ignored.
func ParseMimeType(s string) (MimeType, bool) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	mt := MimeType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := supportedMimeTypes[mt]
	return mt, ok
}

func (m MimeType) Supported() bool {
	_, ok := supportedMimeTypes[m]
	return ok
}

func (m MimeType) IsVector() bool {
	return m == MimeSVG
}

// Extension returns the file extension, with leading dot, used when saving
// a figure of this type. Unsupported types yield "".
func (m MimeType) Extension() string {
	return supportedMimeTypes[m]
}

func MimeTypeFromExt(ext string) (MimeType, bool) {
	switch strings.ToLower(ext) {
	case ".png":
		return MimePNG, true
	case ".svg":
		return MimeSVG, true
	case ".jpg", ".jpeg":
		return MimeJPEG, true
	}
	return "", false
}

func MimeTypeFromPath(path string) (MimeType, bool) {
	return MimeTypeFromExt(filepath.Ext(path))
}

// DetectMimeType sniffs the encoded bytes of a figure.
func DetectMimeType(data []byte) (MimeType, bool) {
	if len(data) == 0 {
		return "", false
	}
	if filetype.IsImage(data) {
		kind, err := filetype.Match(data)
		if err == nil {
			if mt, ok := ParseMimeType(kind.MIME.Value); ok {
				return mt, true
			}
		}
		return "", false
	}
	if looksLikeSVG(data) {
		return MimeSVG, true
	}
	return "", false
}

// looksLikeSVG reports whether the first element of the document is <svg>.
func looksLikeSVG(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if se, ok := tok.(xml.StartElement); ok {
			return strings.EqualFold(se.Name.Local, "svg")
		}
	}
}
