package cashflow

import "time"

const dateLayout = "2006-01-02"

// PreviousMonth returns the first and last day of the calendar month before now,
// as midnight in now's location.
func PreviousMonth(now time.Time) (start, end time.Time) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := firstOfMonth.Add(-time.Hour)

	end = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, now.Location())
	start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, end
}

// yearOf picks the year a transaction is bucketed in: its date, else its
// authorized date, else fallback. Unparsable dates also use fallback.
func yearOf(date string, authorizedDate *string, fallback int) int {
	if date == "" && authorizedDate != nil {
		date = *authorizedDate
	}
	if date == "" {
		return fallback
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return fallback
	}
	return t.Year()
}
