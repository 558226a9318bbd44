package dashboard

import "time"

// bucketDates returns the evaluation dates for a range, ascending, anchored
// at end:
//
//	1M  - 5 buckets, 7 days apart, most recent = end
//	3M  - 3 buckets, one per calendar month, most recent = current month start
//	1Y  - 12 buckets, one per calendar month
//	ALL - 5 buckets, one per calendar year
func bucketDates(rng Range, end time.Time) []time.Time {
	var dates []time.Time

	switch rng {
	case Range1M:
		for i := 4; i >= 0; i-- {
			dates = append(dates, end.AddDate(0, 0, -7*i))
		}
	case Range3M:
		for i := 2; i >= 0; i-- {
			dates = append(dates, time.Date(end.Year(), end.Month()-time.Month(i), 1, 0, 0, 0, 0, end.Location()))
		}
	case Range1Y:
		for i := 11; i >= 0; i-- {
			dates = append(dates, time.Date(end.Year(), end.Month()-time.Month(i), 1, 0, 0, 0, 0, end.Location()))
		}
	default: // RangeAll
		for i := 4; i >= 0; i-- {
			dates = append(dates, time.Date(end.Year()-i, time.January, 1, 0, 0, 0, 0, end.Location()))
		}
	}

	return dates
}

// startOfMonth truncates a time to the first instant of its calendar month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
