package cmd

import (
	"context"
	"fmt"
	"os"

	"figBrowser/fetcher"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	fetchOut  string
	fetchSave string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url...]",
	Short: "Download rendered figures",
	Long: `Downloads figures from URLs (for example a plotting server) into the
history, in the order given, then saves them.

Examples:
  figBrowser fetch http://localhost:8888/plot.svg --save plot.svg
  figBrowser fetch http://host/a.png http://host/b.png --out ./saved`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b := newBrowser()
		src := fetcher.NewURLSource(fetcher.NewFigureFetcher(fetchTimeout()), args, logrus.StandardLogger())
		b.Attach(src)

		n, err := src.Run(context.Background())
		if err != nil {
			logrus.Debugf("First fetch error: %v", err)
			fmt.Println(WarningText(fmt.Sprintf("Fetched %d of %d figures", n, len(args)), DefaultTheme()))
		} else {
			logrus.Infof("Fetched %d figures", n)
		}

		if b.History().Len() == 0 {
			logrus.Fatal("No figures fetched")
		}
		printHistory(os.Stdout, b, nil)
		if err := saveFigures(os.Stdout, b, fetchOut, fetchSave); err != nil {
			logrus.Fatalf("Failed to save figures: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "Save every figure into this directory")
	fetchCmd.Flags().StringVar(&fetchSave, "save", "", "Save the current (last) figure to this path")
}
