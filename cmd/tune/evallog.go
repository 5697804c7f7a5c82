package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// evalLog appends one CSV row per evaluation. Columns follow the parameter
// vector, so the header is built at runtime.
type evalLog struct {
	file *os.File
	w    *csv.Writer
}

func newEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	l := &evalLog{file: f, w: csv.NewWriter(f)}

	header := []string{"eval", "fitness", "utilization", "drop_rate"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.write(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

func (l *evalLog) record(eval int, fitness, util, drop float64, rates []float64) error {
	row := []string{
		strconv.Itoa(eval),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(util, 'f', 4, 64),
		strconv.FormatFloat(drop, 'f', 4, 64),
	}
	for _, r := range rates {
		row = append(row, strconv.FormatFloat(r, 'f', 3, 64))
	}
	return l.write(row)
}

// write flushes every row so a killed run keeps its log.
func (l *evalLog) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("writing eval log: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *evalLog) Close() error {
	l.w.Flush()
	return l.file.Close()
}
