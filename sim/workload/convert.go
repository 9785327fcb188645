package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ConvertCSV converts a process CSV file into a WorkloadSpec.
// Rows are id,burst,arrival[,priority]; an optional header row is skipped.
// An empty priority column leaves the priority unset.
func ConvertCSV(path string) (*WorkloadSpec, error) {
	if path == "" {
		return nil, fmt.Errorf("CSV path must not be empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	spec, err := ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("CSV %s: %w", path, err)
	}
	return spec, nil
}

// ParseCSV reads process rows from r.
func ParseCSV(r io.Reader) (*WorkloadSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	spec := &WorkloadSpec{Version: "1"}
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx, err)
		}
		rowIdx++
		if rowIdx == 1 && isHeader(record) {
			continue
		}
		if len(record) < 3 || len(record) > 4 {
			return nil, fmt.Errorf("row %d: expected 3 or 4 columns (id,burst,arrival[,priority]), got %d", rowIdx, len(record))
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid id %q: %w", rowIdx, record[0], err)
		}
		burst, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid burst %q: %w", rowIdx, record[1], err)
		}
		arrival, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid arrival %q: %w", rowIdx, record[2], err)
		}
		ps := ProcessSpec{ID: id, Name: fmt.Sprintf("P%d", id), Arrival: arrival, Burst: burst}
		if len(record) == 4 && strings.TrimSpace(record[3]) != "" {
			prio, err := strconv.Atoi(strings.TrimSpace(record[3]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid priority %q: %w", rowIdx, record[3], err)
			}
			ps.Priority = &prio
		}
		spec.Processes = append(spec.Processes, ps)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(record[0]))
	return err != nil
}
