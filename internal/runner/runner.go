package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"epexgrab/internal/epex"
	"epexgrab/internal/extractor"
	"epexgrab/internal/fetcher"
	"epexgrab/internal/workbook"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/phuslu/log"
)

// Exit codes. Write failures propagate as a plain abnormal termination.
const (
	ExitOK          = 0
	ExitWriteFailed = 1
	ExitFetchFailed = 2
	ExitNoData      = 3
)

// Page is the slice of a fetched page the pipeline needs after the fetch
// stage. *fetcher.ReadyPage satisfies it; tests substitute stubs.
type Page interface {
	HTML() (string, error)
	Close() error
}

// FetchFunc drives a page to the ready state for the given URL and table
// row selector.
type FetchFunc func(url, selector string) (Page, error)

// Config holds one run's inputs.
type Config struct {
	URL          string
	TemplatePath string
	OutputPath   string
	StartRow     int
	StartCol     int
	DumpPath     string // optional diagnostic page dump
}

// Run sequences fetch, extract and write, translating stage failures into
// exit codes. The page handle is closed on all paths; the browser session
// itself is owned by the caller.
func Run(cfg Config, fetch FetchFunc, logger *log.Logger) int {
	if cfg.StartRow <= 0 {
		cfg.StartRow = workbook.DefaultStartRow
	}
	if cfg.StartCol <= 0 {
		cfg.StartCol = workbook.DefaultStartCol
	}

	logger.Info().Str("url", cfg.URL).Msg("navigating")

	page, err := fetch(cfg.URL, epex.TableRowSelector)
	if err != nil {
		var notFound *fetcher.TableNotFoundError
		if errors.As(err, &notFound) {
			logger.Error().Err(err).Msg("timed out waiting for table node")
			logger.Debug().Str("snippet", notFound.Snippet).Msg("page HTML snippet")
		} else {
			logger.Error().Err(err).Msg("failed to load page")
		}
		return ExitFetchFailed
	}
	defer page.Close()

	pageHTML, err := page.HTML()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read page content")
		return ExitFetchFailed
	}

	if cfg.DumpPath != "" {
		if err := dumpPage(cfg.DumpPath, pageHTML); err != nil {
			logger.Warn().Err(err).Str("path", cfg.DumpPath).Msg("failed to dump page")
		} else {
			logger.Info().Str("path", cfg.DumpPath).Msg("dumped page")
		}
	}

	rows := extractor.Extract(pageHTML, epex.TableRowSelector)
	logger.Info().Int("rows", len(rows)).Msg("extracted valid rows")
	if len(rows) == 0 {
		logger.Error().Msg("no data rows found; verify table selector or structure")
		return ExitNoData
	}

	if err := workbook.Write(cfg.TemplatePath, cfg.OutputPath, rows, cfg.StartRow, cfg.StartCol); err != nil {
		logger.Error().Err(err).Msg("failed to write workbook")
		return ExitWriteFailed
	}

	logger.Info().Int("rows", len(rows)).Str("out", cfg.OutputPath).Msg("wrote rows")
	return ExitOK
}

// dumpPage writes the fetched page to path for offline inspection,
// converting to Markdown when the extension asks for it.
func dumpPage(path, pageHTML string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(pageHTML)
		if err != nil {
			return fmt.Errorf("failed to convert page to markdown: %w", err)
		}
		return os.WriteFile(path, []byte(markdown), 0644)
	default:
		return os.WriteFile(path, []byte(pageHTML), 0644)
	}
}
