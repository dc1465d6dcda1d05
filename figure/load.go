package figure

import (
	"fmt"
	"os"
)

// LoadFile reads an image file from disk. The format is taken from the
// content when it can be sniffed, otherwise from the extension.
func LoadFile(path string) ([]byte, MimeType, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}

	byExt, extOK := MimeTypeFromPath(path)
	if !extOK {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrEmptyFigure, path)
	}

	if sniffed, ok := DetectMimeType(data); ok {
		return data, sniffed, nil
	}
	return data, byExt, nil
}
