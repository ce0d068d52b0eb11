package attest

import (
	"fmt"
	"time"
)

// AccountAge renders the age of an account created at created, as seen at now.
//
//	>= 365 days: "N year[s]" with " M month[s]" appended when M > 0
//	>= 30 days:  "M month[s]"
//	otherwise:   "D day[s]"
//
// Months are 30-day blocks of the remainder; a unit is pluralized only when
// its count exceeds one.
func AccountAge(created, now time.Time) string {
	days := int(now.Sub(created) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}

	if years := days / 365; years >= 1 {
		label := pluralize(years, "year")
		if months := (days % 365) / 30; months > 0 {
			label += " " + pluralize(months, "month")
		}
		return label
	}
	if days >= 30 {
		return pluralize(days/30, "month")
	}
	return pluralize(days, "day")
}

// AccountAgeFromUnix is AccountAge for a creation time in Unix seconds.
func AccountAgeFromUnix(createdUTC int64, now time.Time) string {
	return AccountAge(time.Unix(createdUTC, 0).UTC(), now)
}

func pluralize(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}
