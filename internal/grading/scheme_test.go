package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeForDerivesAllotments(t *testing.T) {
	scheme := SchemeFor(3, 1)
	assert.Equal(t, 60, scheme.TheoryTotal)
	assert.Equal(t, 20, scheme.PracticalTotal)
	assert.Equal(t, 80, scheme.TotalMarks())

	caps := scheme.Caps()
	assert.Equal(t, 12.0, caps.Presentation)
	assert.Equal(t, 12.0, caps.Mid)
	assert.Equal(t, 36.0, caps.Final)
	assert.Equal(t, 20.0, caps.Practical)
}

func TestSchemeForTheoryOnly(t *testing.T) {
	scheme := SchemeFor(4, 0)
	assert.Equal(t, 80, scheme.TotalMarks())

	caps := scheme.Caps()
	assert.Equal(t, 16.0, caps.Presentation)
	assert.Equal(t, 48.0, caps.Final)
	assert.Zero(t, caps.Practical)
}

func TestNormalizeForcesAbsentDimensionsToZero(t *testing.T) {
	theoryOnly := SchemeFor(3, 0)
	c := theoryOnly.Normalize(Components{Presentation: 10, Mid: 10, Final: 30, Practical: 15})
	assert.Zero(t, c.Practical)
	assert.Equal(t, 10.0, c.Presentation)

	practicalOnly := SchemeFor(0, 2)
	c = practicalOnly.Normalize(Components{Presentation: 5, Mid: 5, Final: 5, Practical: 30})
	assert.Zero(t, c.Presentation)
	assert.Zero(t, c.Mid)
	assert.Zero(t, c.Final)
	assert.Equal(t, 30.0, c.Practical)
}

func TestValidateRejectsOutOfCapMarks(t *testing.T) {
	scheme := SchemeFor(3, 1)

	fields := scheme.Validate(Components{Presentation: 10, Mid: 10, Final: 30, Practical: 15})
	assert.Nil(t, fields)

	fields = scheme.Validate(Components{Presentation: 13, Mid: 10, Final: 40, Practical: 21})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "presentation_marks")
	assert.Contains(t, fields, "final_marks")
	assert.Contains(t, fields, "practical_marks")
	assert.NotContains(t, fields, "mid_marks")

	fields = scheme.Validate(Components{Presentation: -1})
	require.NotNil(t, fields)
	assert.Equal(t, "must not be negative", fields["presentation_marks"])
}

func TestValidateIgnoresAbsentDimensionInput(t *testing.T) {
	// Practical input on a theory-only subject is zeroed before checking,
	// so an out-of-range practical value is not an error.
	scheme := SchemeFor(3, 0)
	fields := scheme.Validate(Components{Presentation: 10, Mid: 10, Final: 30, Practical: 999})
	assert.Nil(t, fields)
}

func TestEvaluateDerivesTotalsPercentageAndGrade(t *testing.T) {
	scheme := SchemeFor(3, 1)
	outcome := scheme.Evaluate(Components{Presentation: 10, Mid: 10, Final: 30, Practical: 15})

	assert.Equal(t, 80, outcome.TotalMarks)
	assert.Equal(t, 65.0, outcome.TotalObtained)
	assert.InDelta(t, 81.25, outcome.Percentage, 1e-9)
	assert.Equal(t, "A-", outcome.Grade)
}

func TestEvaluateZeroSchemeYieldsZeroPercentage(t *testing.T) {
	outcome := SchemeFor(0, 0).Evaluate(Components{Presentation: 10})
	assert.Zero(t, outcome.TotalObtained)
	assert.Zero(t, outcome.Percentage)
	assert.Equal(t, "F", outcome.Grade)
}
