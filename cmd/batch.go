package cmd

import (
	"os"
	"path/filepath"

	"figBrowser/figure"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	batchDir       string
	batchPattern   string
	batchRecursive bool
	batchOut       string
	batchSave      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Collect the figures of a directory",
	Long: `Adds every figure file of a directory to the history, in file name
order, then saves them.

Examples:
  figBrowser batch --dir ./figures --out ./saved
  figBrowser batch --dir ./figures --pattern "fig*.svg" --save latest.svg
  figBrowser batch --dir ./figures --recursive --out ./saved`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(batchDir); os.IsNotExist(err) {
			logrus.Fatalf("Directory does not exist: %s", batchDir)
		}

		files, err := figure.FindFigures(batchDir, batchPattern, batchRecursive)
		if err != nil {
			logrus.Fatalf("Failed to find figure files: %v", err)
		}

		b := newBrowser()
		added, skipped := collectFiles(b, files)
		logrus.Infof("Collected figures: added=%d skipped=%d", added, skipped)

		if b.History().Len() == 0 {
			logrus.Info("No figures found")
			return
		}

		printHistory(os.Stdout, b, nil)
		if err := saveFigures(os.Stdout, b, batchOut, batchSave); err != nil {
			logrus.Fatalf("Failed to save figures: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchDir, "dir", "", "Directory containing figure files")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*", "File pattern to match")
	batchCmd.Flags().BoolVar(&batchRecursive, "recursive", false, "Search recursively in subdirectories")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "Save every figure into this directory")
	batchCmd.Flags().StringVar(&batchSave, "save", "", "Save the current (last) figure to this path")

	batchCmd.MarkFlagRequired("dir")
}

// collectFiles adds files to b, in order. Files that cannot be loaded or
// are rejected by b are skipped.
func collectFiles(b *figure.Browser, files []string) (added, skipped int) {
	for _, file := range files {
		data, mt, err := figure.LoadFile(file)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", filepath.Base(file), err)
			skipped++
			continue
		}
		if _, err := b.HandleNewFigure(data, string(mt)); err != nil {
			logrus.Warnf("Skipping %s: %v", filepath.Base(file), err)
			skipped++
			continue
		}
		logrus.Debugf("Added %s", filepath.Base(file))
		added++
	}
	return added, skipped
}
