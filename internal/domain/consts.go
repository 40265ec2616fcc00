package domain

import "time"

// Day-schedule rows in the period file are Monday-first:
// row 0 = Monday ... row 6 = Sunday.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayNames maps Monday-first row indexes to their English names
var WeekdayNames = map[int]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ScheduleWeekday converts Go's Sunday-based weekday to the Monday-first
// row index used by the period file.
func ScheduleWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// PeriodPlaceholder in the period file path is replaced with the computed
// rotation period number.
const PeriodPlaceholder = "$"
