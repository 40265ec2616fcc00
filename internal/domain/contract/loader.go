package contract

import (
	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// DataLoader reads the three schedule data sources consumed during a rebuild.
// File formats are loader-internal; the store only sees the parsed results.
type DataLoader interface {
	// LoadSubjectCatalog returns the announcement payloads keyed by
	// lowercased subject name.
	LoadSubjectCatalog(path string) (map[string]entity.SubjectEntry, error)

	// LoadDaySchedule returns the lesson-name sequence for the given weekday
	// row (0 = Monday) of the period file.
	LoadDaySchedule(path string, weekday int) ([]string, error)

	// LoadTimetable returns every slot's clock-time boundaries.
	LoadTimetable(path string) ([]entity.TimetableRow, error)
}
