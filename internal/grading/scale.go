package grading

// Scale maps percentage thresholds to letter grades. Bands must be listed in
// descending threshold order; the first band whose threshold the percentage
// meets wins, and anything below the last band is an F.
type Scale []Band

// Band is one threshold step of a grade scale.
type Band struct {
	Min    float64
	Letter string
}

// SubjectScale grades an individual subject result.
var SubjectScale = Scale{
	{90, "A+"}, {85, "A"}, {80, "A-"}, {75, "B+"}, {70, "B"},
	{65, "B-"}, {60, "C+"}, {55, "C"}, {50, "D"},
}

// TranscriptScale grades the aggregate transcript percentage. It is coarser
// than SubjectScale; the divergence is long-standing observed behavior and is
// kept as a separately named policy pending product clarification.
var TranscriptScale = Scale{
	{85, "A+"}, {80, "A"}, {75, "B+"}, {70, "B"},
	{65, "C+"}, {60, "C"}, {55, "D+"}, {50, "D"},
}

// Letter resolves a percentage to its letter grade on this scale.
func (s Scale) Letter(percentage float64) string {
	for _, band := range s {
		if percentage >= band.Min {
			return band.Letter
		}
	}
	return "F"
}

// gradePoints maps letter grades to their GPA contribution.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0,
}

// GradePoint returns the numeric GPA value of a letter grade; unknown
// letters (including F) score zero.
func GradePoint(letter string) float64 {
	return gradePoints[letter]
}
