package content

import (
	"fmt"
	"strings"
)

// LearningStyle selects how the content service frames its explanation.
type LearningStyle string

const (
	StyleStandard    LearningStyle = "standard"
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
)

// DefaultStyle is preselected when the form opens.
const DefaultStyle = StyleStandard

var styleOrder = []LearningStyle{
	StyleStandard,
	StyleVisual,
	StyleAuditory,
	StyleKinesthetic,
}

// Styles returns the selectable styles in display order.
func Styles() []LearningStyle {
	return append([]LearningStyle(nil), styleOrder...)
}

// Valid reports whether s is one of the four supported styles.
func (s LearningStyle) Valid() bool {
	for _, known := range styleOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Label renders the selector caption, eg. "Visual Learner".
func (s LearningStyle) Label() string {
	value := string(s)
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:] + " Learner"
}

// Next cycles through the styles; delta may be negative.
func (s LearningStyle) Next(delta int) LearningStyle {
	idx := 0
	for i, known := range styleOrder {
		if s == known {
			idx = i
			break
		}
	}
	n := len(styleOrder)
	idx = ((idx+delta)%n + n) % n
	return styleOrder[idx]
}

// ParseStyle accepts a style name case-insensitively.
func ParseStyle(value string) (LearningStyle, error) {
	style := LearningStyle(strings.ToLower(strings.TrimSpace(value)))
	if !style.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStyle, value)
	}
	return style, nil
}
