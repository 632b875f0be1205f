package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ttestcalc/domain/hypothesis"

	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

var resultHeaders = []string{
	"n1", "n2", "mean1", "mean2", "sd1", "sd2", "direction", "alpha",
	"standard_error", "t_statistic", "degrees_of_freedom",
	"critical_negative", "critical_positive", "decision", "error",
}

// WriteResults writes batch outcomes in the given format
func WriteResults(w io.Writer, fileType FileType, items []hypothesis.BatchItem) error {
	switch fileType {
	case FileTypeCSV:
		return writeCSV(w, items)
	case FileTypeXLSX:
		return writeExcel(w, items)
	}
	return fmt.Errorf("unsupported file type: %s", fileType)
}

func writeExcel(w io.Writer, items []hypothesis.BatchItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}

	header := make([]interface{}, len(resultHeaders))
	for i, h := range resultHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(resultHeaders), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	fourDP := "0.0000"
	numeric, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fourDP})
	if err != nil {
		return err
	}

	for i, item := range items {
		row := excelRow(item)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		if !item.Failed() {
			// standard_error .. critical_positive
			from, _ := excelize.CoordinatesToCellName(9, i+2)
			to, _ := excelize.CoordinatesToCellName(13, i+2)
			if err := f.SetCellStyle(resultsSheet, from, to, numeric); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func excelRow(item hypothesis.BatchItem) []interface{} {
	req := item.Request
	row := []interface{}{
		req.SampleA.Size, req.SampleB.Size,
		req.SampleA.Mean, req.SampleB.Mean,
		req.SampleA.StdDev, req.SampleB.StdDev,
		string(req.Direction), req.Alpha,
	}
	if item.Failed() {
		return append(row, nil, nil, nil, nil, nil, nil, item.Error)
	}
	res := item.Run.Result
	return append(row,
		res.StandardError, res.TStatistic, res.DegreesOfFreedom,
		res.CriticalNegative, res.CriticalPositive, string(res.Decision), nil)
}

func writeCSV(w io.Writer, items []hypothesis.BatchItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeaders); err != nil {
		return err
	}

	fixed := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, item := range items {
		req := item.Request
		record := []string{
			strconv.Itoa(req.SampleA.Size), strconv.Itoa(req.SampleB.Size),
			fixed(req.SampleA.Mean), fixed(req.SampleB.Mean),
			fixed(req.SampleA.StdDev), fixed(req.SampleB.StdDev),
			string(req.Direction), strconv.FormatFloat(req.Alpha, 'g', -1, 64),
		}
		if item.Failed() {
			record = append(record, "", "", "", "", "", "", item.Error)
		} else {
			res := item.Run.Result
			record = append(record,
				fixed(res.StandardError), fixed(res.TStatistic), strconv.Itoa(res.DegreesOfFreedom),
				fixed(res.CriticalNegative), fixed(res.CriticalPositive), string(res.Decision), "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
