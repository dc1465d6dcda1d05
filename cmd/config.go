package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"figBrowser/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the figBrowser configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.GetConfigPath()
		if err != nil {
			logrus.Fatal(err)
		}
		if err := writeDefaultConfig(path, configForce); err != nil {
			logrus.Fatal(err)
		}
		fmt.Println(SuccessText("Wrote "+path, DefaultTheme()))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		printConfig(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}

// writeDefaultConfig refuses to replace an existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func printConfig(w io.Writer, c *config.Config) {
	theme := DefaultTheme()
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	row := func(k string, v any) {
		fmt.Fprintf(tw, "%s\t%v\n", theme.LabelStyle.Render(k), v)
	}
	row("save_directory", c.SaveDirectory)
	row("thumbnail_width", c.ThumbnailWidth)
	row("thumbnail_height", c.ThumbnailHeight)
	row("thumbnail_cache_size", c.ThumbnailCacheSize)
	row("max_figure_size", c.MaxFigureSize)
	row("watch_debounce_ms", c.WatchDebounceMS)
	row("fetch_timeout", c.FetchTimeout)
	row("log_level", c.LogLevel)
	row("log_format", c.LogFormat)
	tw.Flush()
}
