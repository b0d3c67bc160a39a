package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteMatrixCSV writes pm as CSV, one record per pair row and one field per
// frame, under a header of frame indices. This is the layout the hydrogen-bond
// map has before it is transposed.
func WriteMatrixCSV(w io.Writer, pm *PixelMap) error {
	if pm == nil || len(pm.Rows) == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	header := make([]string, len(pm.Rows[0]))
	for i := range header {
		header[i] = strconv.Itoa(i)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range pm.Rows {
		for i, present := range row {
			if present {
				record[i] = "1"
			} else {
				record[i] = "0"
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveMatrixCSV is WriteMatrixCSV into a new file at path.
func SaveMatrixCSV(path string, pm *PixelMap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteMatrixCSV(f, pm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
