package domain

import "time"

// Workdays are the buckets returned by BirthdaysPerWeek, in display order.
var Workdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// upcomingWindow is how far ahead BirthdaysPerWeek looks, today included.
const upcomingWindow = 7 * 24 * time.Hour

// BirthdaysPerWeek groups the names of records whose next birthday falls within
// the seven days starting today by the weekday it falls on. Weekend birthdays
// are congratulated on Monday. Every workday is present in the result.
func BirthdaysPerWeek(records []*Record, today time.Time) map[time.Weekday][]string {
	buckets := make(map[time.Weekday][]string, len(Workdays))
	for _, d := range Workdays {
		buckets[d] = []string{}
	}

	day := truncateToDay(today)
	for _, r := range records {
		if r.Birthday.IsZero() {
			continue
		}
		next := r.Birthday.next(day)
		if next.Sub(day) >= upcomingWindow {
			continue
		}
		weekday := next.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			weekday = time.Monday
		}
		buckets[weekday] = append(buckets[weekday], r.Name)
	}
	return buckets
}
