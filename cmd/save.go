package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"figBrowser/figure"
)

// targetPath turns a --save value into a PathProvider. A directory (or a
// value ending in a separator) receives the suggested file name; a value
// without extension gets the figure's extension appended.
func targetPath(target string) figure.PathProvider {
	return figure.PathProviderFunc(func(suggested string, mimeType figure.MimeType) (string, error) {
		if strings.HasSuffix(target, string(os.PathSeparator)) {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			return filepath.Join(target, filepath.Base(suggested)), nil
		}
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			return filepath.Join(target, filepath.Base(suggested)), nil
		}
		if filepath.Ext(target) == "" {
			return target + mimeType.Extension(), nil
		}
		return target, nil
	})
}

// saveFigures writes the whole history into outDir and the current figure to
// saveTarget; either may be empty.
func saveFigures(w io.Writer, b *figure.Browser, outDir, saveTarget string) error {
	theme := DefaultTheme()

	if outDir != "" {
		paths, err := b.SaveAll(outDir)
		for _, p := range paths {
			fmt.Fprintln(w, SuccessText("Saved "+p, theme))
		}
		if err != nil {
			return err
		}
	}

	if saveTarget != "" {
		path, err := b.SaveCurrentAs(targetPath(saveTarget))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, SuccessText("Saved current figure to "+path, theme))
	}
	return nil
}
