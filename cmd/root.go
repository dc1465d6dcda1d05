package cmd

import (
	"time"

	"figBrowser/config"
	"figBrowser/figure"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "figBrowser",
	Short: "Collect plot figures and save them to disk",
	Long: `figBrowser keeps an ordered history of plot figures (PNG, SVG, JPEG)
produced by a plotting backend and saves the current figure, or all of
them, byte-for-byte.

Features:
- Inspect figure files (format, dimensions, size)
- Collect figures from a directory, a live watched directory or URLs
- Save the current figure or the whole history without re-encoding

Examples:
  figBrowser show plot.png
  figBrowser batch --dir ./figures --out ./saved
  figBrowser watch --dir ./figures --save latest.png
  figBrowser fetch http://localhost:8888/figure.svg --save plot.svg`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.figBrowser.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}

	cfg, err = config.LoadConfig(v)
	if err != nil {
		return err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if used := v.ConfigFileUsed(); used != "" {
		logrus.Debugf("Using config file: %s", used)
	}
	return nil
}

func newBrowser() *figure.Browser {
	return figure.NewBrowser(figure.Options{
		Logger:  logrus.StandardLogger(),
		SaveDir: cfg.SaveDirectory,
		Thumbnails: figure.ThumbnailConfig{
			MaxWidth:  cfg.ThumbnailWidth,
			MaxHeight: cfg.ThumbnailHeight,
			CacheSize: cfg.ThumbnailCacheSize,
		},
		MaxFigureSize: cfg.MaxFigureSize,
	})
}

func watchDebounce() time.Duration {
	return time.Duration(cfg.WatchDebounceMS) * time.Millisecond
}

func fetchTimeout() time.Duration {
	return time.Duration(cfg.FetchTimeout) * time.Second
}
