package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid stats record")

// Record is one row of a stats export: a user token and the user's tracked time on a day.
type Record struct {
	Line  int
	Token string
	Stats Stats
}

var csvHeader = []string{"date", "user", "total", "billable", "billable_sum"}

// ReadCSV parses a stats export with the columns date, user, total, billable and billable_sum.
// Times are given in seconds. A header row is optional.
func ReadCSV(r io.Reader, loc *time.Location) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records := make([]Record, 0)
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		if line == 1 && strings.EqualFold(row[0], csvHeader[0]) {
			continue
		}
		record, err := parseRow(row, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}
		record.Line = line
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, loc *time.Location) (Record, error) {
	date, err := time.ParseInLocation(time.DateOnly, row[0], loc)
	if err != nil {
		return Record{}, err
	}
	token := strings.ToLower(strings.TrimSpace(row[1]))
	if token == "" {
		return Record{}, errors.New("user is empty")
	}
	total, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("total: %w", err)
	}
	billable, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("billable: %w", err)
	}
	if total < 0 || billable < 0 {
		return Record{}, errors.New("times must not be negative")
	}
	billableSum, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Record{}, fmt.Errorf("billable_sum: %w", err)
	}
	return Record{
		Token: token,
		Stats: Stats{
			Date:        date,
			Total:       time.Duration(total) * time.Second,
			Billable:    time.Duration(billable) * time.Second,
			BillableSum: billableSum,
		},
	}, nil
}
