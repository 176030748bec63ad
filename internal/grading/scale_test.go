package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectScaleLetters(t *testing.T) {
	cases := []struct {
		percentage float64
		letter     string
	}{
		{95, "A+"}, {90, "A+"}, {89.99, "A"}, {85, "A"}, {81.25, "A-"},
		{80, "A-"}, {75, "B+"}, {70, "B"}, {65, "B-"}, {60, "C+"},
		{55, "C"}, {50, "D"}, {49.99, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, SubjectScale.Letter(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestTranscriptScaleIsCoarser(t *testing.T) {
	// The transcript policy diverges from the subject policy on purpose.
	cases := []struct {
		percentage float64
		letter     string
	}{
		{90, "A+"}, {85, "A+"}, {80, "A"}, {75, "B+"}, {70, "B"},
		{65, "C+"}, {60, "C"}, {55, "D+"}, {50, "D"}, {49, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, TranscriptScale.Letter(tc.percentage), "percentage %v", tc.percentage)
	}

	// The same percentage can grade differently on each scale.
	assert.Equal(t, "A", SubjectScale.Letter(86))
	assert.Equal(t, "A+", TranscriptScale.Letter(86))
	assert.Equal(t, "B-", SubjectScale.Letter(67))
	assert.Equal(t, "C+", TranscriptScale.Letter(67))
}

func TestGradePoints(t *testing.T) {
	assert.Equal(t, 4.0, GradePoint("A+"))
	assert.Equal(t, 4.0, GradePoint("A"))
	assert.Equal(t, 3.7, GradePoint("A-"))
	assert.Equal(t, 3.3, GradePoint("B+"))
	assert.Equal(t, 3.0, GradePoint("B"))
	assert.Equal(t, 2.7, GradePoint("B-"))
	assert.Equal(t, 2.3, GradePoint("C+"))
	assert.Equal(t, 2.0, GradePoint("C"))
	assert.Equal(t, 1.7, GradePoint("C-"))
	assert.Equal(t, 1.3, GradePoint("D+"))
	assert.Equal(t, 1.0, GradePoint("D"))
	assert.Equal(t, 0.0, GradePoint("F"))
	assert.Equal(t, 0.0, GradePoint("bogus"))
}

func TestAggregateGPAWeightsByCreditHours(t *testing.T) {
	gpa, ok := AggregateGPA([]GPAEntry{
		{Letter: "A", CreditHours: 4},
		{Letter: "C", CreditHours: 3},
	})
	assert.True(t, ok)
	assert.InDelta(t, (4.0*4+2.0*3)/7, gpa, 1e-9)
}

func TestAggregateGPASkipsZeroHourEntries(t *testing.T) {
	gpa, ok := AggregateGPA([]GPAEntry{
		{Letter: "A", CreditHours: 3},
		{Letter: "F", CreditHours: 0},
	})
	assert.True(t, ok)
	assert.Equal(t, 4.0, gpa)
}

func TestAggregateGPAEmpty(t *testing.T) {
	_, ok := AggregateGPA(nil)
	assert.False(t, ok)
}
