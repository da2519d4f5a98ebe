package main

import (
	"os"
	"strings"
	"time"

	"epexgrab/internal/browser"
	"epexgrab/internal/epex"
	"epexgrab/internal/fetcher"
	"epexgrab/internal/runner"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	date         string
	templatePath string
	outPath      string
	timeoutMs    int
	logLevel     string
	dumpPage     string
	showUI       bool
	proxyURL     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "epexgrab",
		Short:   "Scrape the EPEX Spot GB half-hourly results table into an XLSX template",
		Version: version,
		Long: `epexgrab fetches the EPEX Spot GB 30-minute Continuous market results
page, extracts the 48 half-hourly trading rows from the rendered table,
and writes them into the first sheet of a provided XLSX template.

Row 1 of the template is left for headers; data rows start at A2 with
columns HH, low, high, last, weighted average, buy volume, sell volume
and total volume.`,
		Example: `  # Grab a day's results into report.xlsx
  epexgrab --date 2024-05-01 --template template.xlsx --out report.xlsx

  # Keep a copy of the rendered page for debugging a layout change
  epexgrab --date 2024-05-01 --template t.xlsx --out r.xlsx --dump-page page.md`,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(run())
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&date, "date", "", "Delivery date to grab data for (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&templatePath, "template", "", "Path to input XLSX template")
	rootCmd.Flags().StringVar(&outPath, "out", "", "Output XLSX path")
	rootCmd.Flags().IntVar(&timeoutMs, "timeout-ms", 30000, "Page load timeout (ms)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&dumpPage, "dump-page", "", "Write the rendered page to this path (.md converts to Markdown)")
	rootCmd.Flags().BoolVar(&showUI, "show-ui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVar(&proxyURL, "proxy", os.Getenv("EPEXGRAB_PROXY"), "Proxy URL, defaults to EPEXGRAB_PROXY env var")

	rootCmd.MarkFlagRequired("date")
	rootCmd.MarkFlagRequired("template")
	rootCmd.MarkFlagRequired("out")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() int {
	logger := log.Logger{
		Level:  log.ParseLevel(strings.ToLower(logLevel)),
		Writer: &log.ConsoleWriter{ColorOutput: true, Writer: os.Stderr},
	}

	url := epex.BuildURL(epex.MarketGB, date, epex.ProductHalfHour)
	timeout := time.Duration(timeoutMs) * time.Millisecond

	b, err := browser.New(browser.Config{
		Headless: !showUI,
		ProxyURL: proxyURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create browser")
		return runner.ExitFetchFailed
	}
	defer b.Close()

	f := fetcher.New(b, fetcher.Options{Timeout: timeout})

	cfg := runner.Config{
		URL:          url,
		TemplatePath: templatePath,
		OutputPath:   outPath,
		DumpPath:     dumpPage,
	}
	return runner.Run(cfg, func(url, selector string) (runner.Page, error) {
		return f.FetchReadyPage(url, selector)
	}, &logger)
}
