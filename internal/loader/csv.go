package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// CSVLoader reads the subject catalog, period schedule and timetable files.
// All three are plain CSV with no header row.
type CSVLoader struct{}

func New() *CSVLoader {
	return &CSVLoader{}
}

// LoadSubjectCatalog reads rows of the form
//
//	name,image_url,link1,link2,...
//
// and keys the result by lowercased name. Links are optional.
func (l *CSVLoader) LoadSubjectCatalog(path string) (map[string]entity.SubjectEntry, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]entity.SubjectEntry, len(records))
	for i, row := range records {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want at least name and image", path, i+1, len(row))
		}
		entry := entity.SubjectEntry{
			Name:     row[0],
			ImageURL: row[1],
		}
		if len(row) > 2 {
			entry.Links = append([]string(nil), row[2:]...)
		}
		catalog[strings.ToLower(row[0])] = entry
	}
	return catalog, nil
}

// LoadDaySchedule returns the lesson names of the weekday's row (0 = Monday).
// Empty columns mean no class in that slot.
func (l *CSVLoader) LoadDaySchedule(path string, weekday int) ([]string, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	if weekday < 0 || weekday >= len(records) {
		return nil, fmt.Errorf("%s: no row for weekday %d (file has %d rows)", path, weekday, len(records))
	}
	return append([]string(nil), records[weekday]...), nil
}

// LoadTimetable reads one row per slot, the first two columns being the
// slot's start and end clock times. Extra columns are ignored.
func (l *CSVLoader) LoadTimetable(path string) ([]entity.TimetableRow, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.TimetableRow, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want at least start and end times", path, i+1, len(record))
		}
		start, err := entity.ParseClockTime(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		end, err := entity.ParseClockTime(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		rows = append(rows, entity.TimetableRow{Start: start, End: end})
	}
	return rows, nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}
