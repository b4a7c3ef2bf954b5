package workcalendar

import "time"

// DayType partitions calendar days for rate purposes.
type DayType string

const (
	DayTypeWeekday  DayType = "weekday"
	DayTypeSaturday DayType = "saturday"
	DayTypeSunday   DayType = "sunday"
)

// DayTypes lists all day types in a stable order.
var DayTypes = []DayType{DayTypeWeekday, DayTypeSaturday, DayTypeSunday}

// DayTypeOf classifies a calendar date.
func DayTypeOf(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday:
		return DayTypeSaturday
	case time.Sunday:
		return DayTypeSunday
	default:
		return DayTypeWeekday
	}
}

// DayTypeFromCode classifies the 1=Sunday..7=Saturday day-of-week code that
// attendance rows store on is_weekend.
func DayTypeFromCode(code int) DayType {
	switch code {
	case 1:
		return DayTypeSunday
	case 7:
		return DayTypeSaturday
	default:
		return DayTypeWeekday
	}
}
