package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"

	"github.com/xuri/excelize/v2"
)

// FileType distinguishes the supported batch formats
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// DetectFileType picks the format from a file name; anything but .csv is treated as xlsx
func DetectFileType(name string) FileType {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		return FileTypeCSV
	}
	return FileTypeXLSX
}

// column aliases accepted in the header row
var columnAliases = map[string]string{
	"n1": "n1", "size_a": "n1", "n_a": "n1", "size1": "n1",
	"n2": "n2", "size_b": "n2", "n_b": "n2", "size2": "n2",
	"mean1": "mean1", "x1": "mean1", "x1_bar": "mean1", "mean_a": "mean1",
	"mean2": "mean2", "x2": "mean2", "x2_bar": "mean2", "mean_b": "mean2",
	"sd1": "sd1", "s1": "sd1", "sd_a": "sd1", "std1": "sd1",
	"sd2": "sd2", "s2": "sd2", "sd_b": "sd2", "std2": "sd2",
	"direction": "direction", "comparison": "direction", "test": "direction",
	"alpha": "alpha",
}

var requiredColumns = []string{"n1", "n2", "mean1", "mean2", "sd1", "sd2"}

// BatchReader reads t-test requests from Excel or CSV files
type BatchReader struct {
	filePath string
	fileType FileType
}

// NewBatchReader creates a reader for the given file
func NewBatchReader(filePath string) *BatchReader {
	return &BatchReader{filePath: filePath, fileType: DetectFileType(filePath)}
}

// ReadRequests reads every data row of the file into a request
func (r *BatchReader) ReadRequests() ([]hypothesis.Request, error) {
	log.Printf("[BatchReader] Reading %s file: %s", r.fileType, r.filePath)

	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(r.fileType)), err)
	}
	defer f.Close()

	return ReadRequestsFrom(f, r.fileType)
}

// ReadRequestsFrom parses requests from an already opened stream
func ReadRequestsFrom(src io.Reader, fileType FileType) ([]hypothesis.Request, error) {
	startTime := time.Now()

	var rows [][]string
	var err error
	switch fileType {
	case FileTypeCSV:
		rows, err = readCSVRows(src)
	case FileTypeXLSX:
		rows, err = readExcelRows(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return nil, err
	}

	requests, err := processRows(rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[BatchReader] %d requests parsed in %.2fms", len(requests), float64(time.Since(startTime).Nanoseconds())/1e6)
	return requests, nil
}

// readExcelRows reads raw cell values from the first sheet
func readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewInvalidInputError("workbook", "has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows maps the header row to columns and converts every data row
func processRows(rows [][]string) ([]hypothesis.Request, error) {
	if len(rows) < 2 {
		return nil, core.NewInvalidInputError("batch file", "must have a header row and at least one data row")
	}

	index := make(map[string]int)
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if canonical, ok := columnAliases[key]; ok {
			index[canonical] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, core.NewInvalidInputError("batch file", fmt.Sprintf("missing column %q", col))
		}
	}

	var requests []hypothesis.Request
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		line := i + 1

		req, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		requests = append(requests, req)
	}

	if len(requests) == 0 {
		return nil, core.NewInvalidInputError("batch file", "contains no data rows")
	}
	return requests, nil
}

func parseRow(row []string, index map[string]int) (hypothesis.Request, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var req hypothesis.Request
	var err error

	if req.SampleA.Size, err = parseSize("n1", cell("n1")); err != nil {
		return req, err
	}
	if req.SampleB.Size, err = parseSize("n2", cell("n2")); err != nil {
		return req, err
	}
	if req.SampleA.Mean, err = parseReal("mean1", cell("mean1")); err != nil {
		return req, err
	}
	if req.SampleB.Mean, err = parseReal("mean2", cell("mean2")); err != nil {
		return req, err
	}
	if req.SampleA.StdDev, err = parseReal("sd1", cell("sd1")); err != nil {
		return req, err
	}
	if req.SampleB.StdDev, err = parseReal("sd2", cell("sd2")); err != nil {
		return req, err
	}

	if raw := cell("direction"); raw != "" {
		if req.Direction, err = hypothesis.ParseDirection(raw); err != nil {
			return req, err
		}
	}
	if raw := cell("alpha"); raw != "" {
		if req.Alpha, err = parseReal("alpha", raw); err != nil {
			return req, err
		}
	}

	return req, nil
}

func parseSize(col, raw string) (int, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != float64(int(v)) {
		return 0, core.NewInvalidInputError(col, fmt.Sprintf("%q is not a whole number", raw))
	}
	return int(v), nil
}

func parseReal(col, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewInvalidInputError(col, fmt.Sprintf("%q is not a number", raw))
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
