package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"figBrowser/watch"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchDir  string
	watchOut  string
	watchSave string
	watchScan bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Collect figures as they are written into a directory",
	Long: `Watches a directory for new figure files (for example the output
directory of a plotting backend) and adds each one to the history. On
interrupt the collected figures are saved.

Examples:
  figBrowser watch --dir ./figures --save latest.png
  figBrowser watch --dir ./figures --scan --out ./saved`,
	Run: func(cmd *cobra.Command, args []string) {
		src, err := watch.NewDirSource(watchDir, watchDebounce(), logrus.StandardLogger())
		if err != nil {
			logrus.Fatalf("Failed to watch %s: %v", watchDir, err)
		}

		b := newBrowser()
		b.Attach(src)

		if watchScan {
			n, err := src.Scan()
			if err != nil {
				logrus.Fatalf("Failed to scan %s: %v", watchDir, err)
			}
			logrus.Infof("Loaded %d existing figures", n)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := src.Start(ctx); err != nil {
			logrus.Fatal(err)
		}
		<-ctx.Done()
		src.Stop()

		stats := src.Stats()
		logrus.Infof("Watch stopped: delivered=%d skipped=%d errors=%d", stats.Delivered, stats.Skipped, stats.Errors)

		if b.History().Len() == 0 {
			logrus.Info("No figures collected")
			return
		}
		printHistory(os.Stdout, b, nil)
		if err := saveFigures(os.Stdout, b, watchOut, watchSave); err != nil {
			logrus.Fatalf("Failed to save figures: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Directory to watch")
	watchCmd.Flags().StringVar(&watchOut, "out", "", "Save every figure into this directory on exit")
	watchCmd.Flags().StringVar(&watchSave, "save", "", "Save the current figure to this path on exit")
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "Load the figures already in the directory first")

	watchCmd.MarkFlagRequired("dir")
}
