package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"figBrowser/figure"
	"figBrowser/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	showJSON       bool
	showThumbnails string
)

var showCmd = &cobra.Command{
	Use:   "show [file...]",
	Short: "Show format, dimensions and size of figure files",
	Long: `Loads each file into the figure history in order and prints what was
recorded. The last file is the current figure.

Examples:
  figBrowser show plot.png
  figBrowser show --json a.png b.svg
  figBrowser show --thumbnails ./thumbs *.png`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b := newBrowser()
		names := make([]string, 0, len(args))
		for _, file := range args {
			data, mt, err := figure.LoadFile(file)
			if err != nil {
				logrus.Fatalf("Failed to load %s: %v", file, err)
			}
			if _, err := b.HandleNewFigure(data, string(mt)); err != nil {
				logrus.Fatalf("Failed to add %s: %v", file, err)
			}
			names = append(names, filepath.Base(file))
		}

		if showThumbnails != "" {
			if err := writeThumbnails(b, showThumbnails); err != nil {
				logrus.Fatalf("Failed to write thumbnails: %v", err)
			}
		}

		if showJSON {
			if err := printHistoryJSON(os.Stdout, b, names); err != nil {
				logrus.Fatal(err)
			}
			return
		}
		printHistory(os.Stdout, b, names)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().StringVar(&showThumbnails, "thumbnails", "", "Write a thumbnail of every figure into this directory")
}

type figureSummary struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	ID       string `json:"id"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bytes    int    `json:"bytes"`
	Current  bool   `json:"current"`
}

func summarize(b *figure.Browser, names []string) []figureSummary {
	records := b.History().Records()
	current := b.History().CurrentIndex()

	out := make([]figureSummary, 0, len(records))
	for i, r := range records {
		s := figureSummary{
			Index:    i,
			ID:       r.ID().String(),
			MimeType: string(r.MimeType()),
			Bytes:    r.Size(),
			Current:  i == current,
		}
		if i < len(names) {
			s.Name = names[i]
		}
		if info, err := figure.Inspect(r); err == nil {
			s.Width, s.Height = info.Width, info.Height
		} else {
			logrus.Debugf("Failed to inspect figure %d: %v", i, err)
		}
		out = append(out, s)
	}
	return out
}

func printHistoryJSON(w io.Writer, b *figure.Browser, names []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(b, names))
}

func printHistory(w io.Writer, b *figure.Browser, names []string) {
	theme := DefaultTheme()
	fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("Figures (%d)", b.History().Len())))

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, s := range summarize(b, names) {
		marker := " "
		if s.Current {
			marker = theme.CurrentStyle.Render(IconCurrent)
		}
		dims := "?"
		if s.Width > 0 {
			dims = fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", marker, s.Index, s.Name, s.MimeType, dims, utils.FormatSize(int64(s.Bytes)))
	}
	tw.Flush()
}

func writeThumbnails(b *figure.Browser, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, r := range b.History().Records() {
		data, err := b.Thumbnail(r)
		if err != nil {
			return fmt.Errorf("figure %d: %w", i, err)
		}
		ext := r.MimeType().Extension()
		if mt, ok := figure.DetectMimeType(data); ok {
			ext = mt.Extension()
		}
		name := filepath.Join(dir, fmt.Sprintf("thumb_%d%s", i, ext))
		if err := utils.WriteFileAtomic(name, data, 0644); err != nil {
			return err
		}
	}
	return nil
}
