// Package grading holds the pure mark-scheme, grade-scale and GPA rules.
// Every function here is total over well-formed input; malformed marks are
// rejected by Validate before any computation takes place.
package grading

// MarksPerHour converts weekly contact hours into allotted marks.
const MarksPerHour = 20

// Component weighting within the theory allotment.
const (
	presentationShare = 0.2
	midShare          = 0.2
	finalShare        = 0.6
)

// Scheme is the hour-derived mark allotment of one subject.
type Scheme struct {
	TheoryTotal    int
	PracticalTotal int
}

// SchemeFor derives the mark scheme from a subject's weekly hours.
func SchemeFor(theoryHours, practicalHours int) Scheme {
	return Scheme{
		TheoryTotal:    theoryHours * MarksPerHour,
		PracticalTotal: practicalHours * MarksPerHour,
	}
}

// TotalMarks is the full allotment across both dimensions.
func (s Scheme) TotalMarks() int {
	return s.TheoryTotal + s.PracticalTotal
}

// Caps holds the per-component maximums under a scheme.
type Caps struct {
	Presentation float64
	Mid          float64
	Final        float64
	Practical    float64
}

// Caps returns the component maximums. Absent dimensions cap at zero.
func (s Scheme) Caps() Caps {
	caps := Caps{}
	if s.TheoryTotal > 0 {
		tm := float64(s.TheoryTotal)
		caps.Presentation = presentationShare * tm
		caps.Mid = midShare * tm
		caps.Final = finalShare * tm
	}
	if s.PracticalTotal > 0 {
		caps.Practical = float64(s.PracticalTotal)
	}
	return caps
}

// Components carries raw component marks as entered by staff.
type Components struct {
	Presentation float64
	Mid          float64
	Final        float64
	Practical    float64
}

// Normalize forces components of absent dimensions to zero regardless of
// input, so they never reach storage.
func (s Scheme) Normalize(c Components) Components {
	if s.TheoryTotal == 0 {
		c.Presentation = 0
		c.Mid = 0
		c.Final = 0
	}
	if s.PracticalTotal == 0 {
		c.Practical = 0
	}
	return c
}

// Validate checks each component against its cap and for negative values.
// It returns per-field messages, empty when the input is acceptable.
// Validation happens on normalized components; out-of-cap marks are rejected,
// never clamped.
func (s Scheme) Validate(c Components) map[string]string {
	c = s.Normalize(c)
	caps := s.Caps()
	fields := make(map[string]string)
	check := func(name string, value, cap float64) {
		if value < 0 {
			fields[name] = "must not be negative"
			return
		}
		if value > cap {
			fields[name] = "exceeds component maximum"
		}
	}
	if s.TheoryTotal > 0 {
		check("presentation_marks", c.Presentation, caps.Presentation)
		check("mid_marks", c.Mid, caps.Mid)
		check("final_marks", c.Final, caps.Final)
	}
	if s.PracticalTotal > 0 {
		check("practical_marks", c.Practical, caps.Practical)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Outcome is the fully derived result of one subject's components.
type Outcome struct {
	Components    Components
	TotalMarks    int
	TotalObtained float64
	Percentage    float64
	Grade         string
}

// Evaluate recomputes every derived field from the raw components. Callers
// must Validate first; Evaluate itself never fails.
func (s Scheme) Evaluate(c Components) Outcome {
	c = s.Normalize(c)
	obtained := c.Presentation + c.Mid + c.Final + c.Practical
	total := s.TotalMarks()
	percentage := 0.0
	if total > 0 {
		percentage = obtained / float64(total) * 100
	}
	return Outcome{
		Components:    c,
		TotalMarks:    total,
		TotalObtained: obtained,
		Percentage:    percentage,
		Grade:         SubjectScale.Letter(percentage),
	}
}
