package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dpavluk/slack-lesson-bot/internal/domain"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/contract"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// TimetableStore owns today's lesson slots and the subject catalog. It is
// rebuilt once at startup and once per daily reload; reads and rebuilds never
// overlap because the scheduling loop is the only caller.
type TimetableStore struct {
	loader contract.DataLoader

	subjectsPath  string
	periodPath    string
	timetablePath string

	catalog map[string]entity.SubjectEntry
	slots   []entity.LessonSlot
	loaded  bool
}

func NewTimetableStore(loader contract.DataLoader, subjectsPath, periodPath, timetablePath string) *TimetableStore {
	return &TimetableStore{
		loader:        loader,
		subjectsPath:  subjectsPath,
		periodPath:    periodPath,
		timetablePath: timetablePath,
	}
}

// Rebuild reloads the catalog, the weekday's lesson sequence for the given
// rotation period, and the timetable boundaries stamped onto now's date.
// State is swapped in wholesale only when every source loaded cleanly, so a
// failed rebuild leaves the previous day's data in place.
func (s *TimetableStore) Rebuild(period int, now time.Time) error {
	catalog, err := s.loader.LoadSubjectCatalog(s.subjectsPath)
	if err != nil {
		return fmt.Errorf("load subject catalog: %w", err)
	}

	periodPath := strings.ReplaceAll(s.periodPath, domain.PeriodPlaceholder, strconv.Itoa(period))
	weekday := domain.ScheduleWeekday(now.Weekday())
	names, err := s.loader.LoadDaySchedule(periodPath, weekday)
	if err != nil {
		return fmt.Errorf("load day schedule: %w", err)
	}

	rows, err := s.loader.LoadTimetable(s.timetablePath)
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}

	if len(names) != len(rows) {
		return fmt.Errorf("day schedule has %d slots but timetable has %d", len(names), len(rows))
	}

	slots := make([]entity.LessonSlot, len(rows))
	for i, row := range rows {
		slots[i] = entity.LessonSlot{
			Index:   i,
			Start:   row.Start.On(now),
			End:     row.End.On(now),
			Subject: names[i],
		}
	}

	s.catalog = catalog
	s.slots = slots
	s.loaded = true
	return nil
}

// Loaded reports whether at least one rebuild has succeeded.
func (s *TimetableStore) Loaded() bool {
	return s.loaded
}

// Slots returns today's lesson slots in order.
func (s *TimetableStore) Slots() []entity.LessonSlot {
	return s.slots
}

// Slot returns the slot at index i.
func (s *TimetableStore) Slot(i int) entity.LessonSlot {
	return s.slots[i]
}

// NextSlotIndex returns the first slot whose start time has not passed and
// whose subject is non-empty, or -1 when nothing remains today.
func (s *TimetableStore) NextSlotIndex(now time.Time) int {
	return s.NextSlotIndexFrom(now, 0)
}

// NextSlotIndexFrom is NextSlotIndex starting the scan at index from. The
// cursor keeps a slot that was just skipped at its exact start instant from
// being selected again.
func (s *TimetableStore) NextSlotIndexFrom(now time.Time, from int) int {
	if from < 0 {
		from = 0
	}
	for _, slot := range s.slots[min(from, len(s.slots)):] {
		if !now.After(slot.Start) && slot.Subject != "" {
			return slot.Index
		}
	}
	return -1
}

// FindSubject looks up a subject by case-folded name.
func (s *TimetableStore) FindSubject(name string) (entity.SubjectEntry, bool) {
	subject, ok := s.catalog[strings.ToLower(name)]
	return subject, ok
}
