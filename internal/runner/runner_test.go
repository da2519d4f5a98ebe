package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"epexgrab/internal/fetcher"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const pageHTML = `<html><body><div class="js-table-values">
<table class="table-01"><tbody>
<tr><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td></tr>
<tr><td>10.0</td><td>12.0</td><td>11.0</td><td>11.5</td><td>100.0</td><td>90.0</td><td>190.0</td></tr>
<tr><td>-</td><td>9.0</td><td>8.5</td><td>8.7</td><td>50.0</td><td>60.0</td><td>110.0</td></tr>
</tbody></table>
</div></body></html>`

const placeholderOnlyHTML = `<html><body>
<table class="table-01"><tbody>
<tr><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td></tr>
<tr><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td><td>-</td></tr>
</tbody></table>
</body></html>`

type stubPage struct {
	html    string
	htmlErr error
	closed  bool
}

func (p *stubPage) HTML() (string, error) { return p.html, p.htmlErr }
func (p *stubPage) Close() error          { p.closed = true; return nil }

func stubFetch(p *stubPage) FetchFunc {
	return func(url, selector string) (Page, error) { return p, nil }
}

func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := &log.Logger{
		Level:  log.DebugLevel,
		Writer: &log.IOWriter{Writer: &buf},
	}
	return logger, &buf
}

func newTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "HH"))

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRunSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xlsx")
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: newTemplate(t),
		OutputPath:   out,
	}

	page := &stubPage{html: pageHTML}
	logger, _ := testLogger()

	code := Run(cfg, stubFetch(page), logger)
	assert.Equal(t, ExitOK, code)
	assert.True(t, page.closed)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "HH", header)

	a2, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", a2)

	// Second survivor's absent low is blank.
	b3, err := f.GetCellValue("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", b3)
}

func TestRunFetchFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xlsx")
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: newTemplate(t),
		OutputPath:   out,
	}

	fetchErr := &fetcher.TableNotFoundError{
		Selector: "table.table-01 tbody tr",
		Snippet:  "<html><body>maintenance</body></html>",
		Err:      errors.New("element not found"),
	}
	fetch := func(url, selector string) (Page, error) { return nil, fetchErr }

	logger, buf := testLogger()
	code := Run(cfg, fetch, logger)
	assert.Equal(t, ExitFetchFailed, code)
	assert.NoFileExists(t, out)
	assert.Contains(t, buf.String(), "maintenance")
}

func TestRunNoDataRows(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xlsx")
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: newTemplate(t),
		OutputPath:   out,
	}

	page := &stubPage{html: placeholderOnlyHTML}
	logger, _ := testLogger()

	code := Run(cfg, stubFetch(page), logger)
	assert.Equal(t, ExitNoData, code)
	assert.NoFileExists(t, out)
	assert.True(t, page.closed)
}

func TestRunContentFailure(t *testing.T) {
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: newTemplate(t),
		OutputPath:   filepath.Join(t.TempDir(), "out.xlsx"),
	}

	page := &stubPage{htmlErr: errors.New("page gone")}
	logger, _ := testLogger()

	code := Run(cfg, stubFetch(page), logger)
	assert.Equal(t, ExitFetchFailed, code)
	assert.True(t, page.closed)
}

func TestRunWriteFailure(t *testing.T) {
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: filepath.Join(t.TempDir(), "missing.xlsx"),
		OutputPath:   filepath.Join(t.TempDir(), "out.xlsx"),
	}

	page := &stubPage{html: pageHTML}
	logger, _ := testLogger()

	code := Run(cfg, stubFetch(page), logger)
	assert.Equal(t, ExitWriteFailed, code)
	assert.NoFileExists(t, cfg.OutputPath)
}

func TestRunDumpsPage(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		URL:          "https://example.invalid/market-results",
		TemplatePath: newTemplate(t),
		OutputPath:   filepath.Join(dir, "out.xlsx"),
		DumpPath:     filepath.Join(dir, "page.html"),
	}

	page := &stubPage{html: pageHTML}
	logger, _ := testLogger()

	code := Run(cfg, stubFetch(page), logger)
	assert.Equal(t, ExitOK, code)

	dumped, err := os.ReadFile(cfg.DumpPath)
	require.NoError(t, err)
	assert.Equal(t, pageHTML, string(dumped))
}

func TestDumpPageMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, dumpPage(path, "<html><body><h1>Market results</h1></body></html>"))

	dumped, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(dumped), "Market results")
}
