package grading

// GPAEntry is one graded subject contributing to the aggregate.
type GPAEntry struct {
	Letter      string
	CreditHours int
}

// AggregateGPA computes the credit-hour weighted grade point average.
// Subjects without a saved result must not be passed in: they are excluded
// from both numerator and denominator, not treated as zero. The second
// return value is false when no entries carry credit hours.
func AggregateGPA(entries []GPAEntry) (float64, bool) {
	var points float64
	var hours int
	for _, e := range entries {
		if e.CreditHours <= 0 {
			continue
		}
		points += GradePoint(e.Letter) * float64(e.CreditHours)
		hours += e.CreditHours
	}
	if hours == 0 {
		return 0, false
	}
	return points / float64(hours), true
}
