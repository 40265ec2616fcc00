package entity

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day without a date, as read from the
// timetable file ("HH:MM:SS").
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime parses "HH:MM:SS".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// On stamps the clock time onto the date of the given day, keeping its location.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, c.Second, 0, day.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// TimetableRow is one slot's clock-time boundaries. The timetable is the same
// for every day; rows are restamped onto the current date at each rebuild.
type TimetableRow struct {
	Start ClockTime
	End   ClockTime
}

// SubjectEntry is the announcement payload for one subject, keyed in the
// catalog by the lowercased subject name.
type SubjectEntry struct {
	Name     string
	ImageURL string
	Links    []string
}

// LessonSlot is one position in today's lesson sequence. An empty Subject
// means no class in that slot today.
type LessonSlot struct {
	Index   int
	Start   time.Time
	End     time.Time
	Subject string
}

// Delivery status values as stored in the history.
const (
	DeliveryPosted    = "posted"
	DeliveryRetracted = "retracted"
	DeliveryFailed    = "failed"
	DeliveryAbandoned = "abandoned"
)

// Delivery is one announcement posted to the channel, recorded for
// observability. MessageTS is the Slack message timestamp used to delete it.
type Delivery struct {
	ID          int64
	MessageTS   string
	ChannelID   string
	Subject     string
	SlotIndex   int
	Status      string
	Detail      string
	PostedAt    time.Time
	RetractedAt *time.Time
	CreatedAt   time.Time
}
