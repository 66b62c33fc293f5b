package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "dietchart/internal/errors"
)

// Table is raw tabular data: header order plus rows keyed by header name.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Loader reads a dataset from a local file or an http(s) URL.
// Files ending in .xlsx are read as workbooks (first sheet), anything else as CSV.
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader whose remote fetches give up after timeout.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isWorkbook(location string) bool {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isRemote(location) {
		location = location[:i]
	}
	return strings.EqualFold(filepath.Ext(location), ".xlsx")
}

// Load reads the whole dataset at location. A single attempt is made.
func (l *Loader) Load(ctx context.Context, location string) (*Table, error) {
	start := time.Now()
	log.Printf("[source] Loading %s", location)

	var (
		body io.ReadCloser
		err  error
	)
	if isRemote(location) {
		body, err = l.fetch(ctx, location)
	} else {
		body, err = os.Open(location)
		if err != nil {
			err = apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to open dataset")
		}
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var table *Table
	if isWorkbook(location) {
		table, err = ReadWorkbook(body)
	} else {
		table, err = ReadCSV(body)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[source] Loaded %d rows x %d columns in %v", len(table.Rows), len(table.Headers), time.Since(start))
	return table, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "bad dataset URL")
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError("dataset fetch", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperrors.ExternalServiceError("dataset fetch", fmt.Errorf("GET %s: %s", url, resp.Status))
	}
	return resp.Body, nil
}

// ReadCSV parses a header row followed by data rows.
// Short rows leave their trailing columns absent; blank lines are skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read CSV header")
	}

	table := &Table{Headers: cleanHeaders(header)}
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.InvalidInput(err.Error()), "failed to read CSV line %d", line)
		}
		table.Rows = append(table.Rows, rowOf(table.Headers, fields))
	}
	return table, nil
}

// ReadWorkbook reads the first sheet of an .xlsx workbook the same way as ReadCSV.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to open workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.InvalidInput(err.Error()), "failed to read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	table := &Table{Headers: cleanHeaders(rows[0])}
	for _, cells := range rows[1:] {
		if len(cells) == 0 {
			continue
		}
		table.Rows = append(table.Rows, rowOf(table.Headers, cells))
	}
	return table, nil
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func rowOf(headers, fields []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i >= len(fields) {
			break
		}
		// First occurrence of a duplicated header wins
		if _, dup := row[h]; dup {
			continue
		}
		row[h] = fields[i]
	}
	return row
}
