package guide

import (
	"fmt"
	"strings"

	"github.com/csheth/eduassist/internal/content"
)

// Hint describes what a learning style asks the content service to stress.
type Hint struct {
	Title       string
	Description string
}

// For returns the hint shown under the style selector. The topic, when set,
// personalizes the wording.
func For(style content.LearningStyle, topic string) Hint {
	subject := strings.TrimSpace(topic)
	if subject == "" {
		subject = "your topic"
	}
	switch style {
	case content.StyleVisual:
		return Hint{
			Title:       style.Label(),
			Description: fmt.Sprintf("Diagrams, spatial metaphors and colour cues for %s; the illustration carries the weight.", subject),
		}
	case content.StyleAuditory:
		return Hint{
			Title:       style.Label(),
			Description: fmt.Sprintf("A spoken-style walkthrough of %s with rhythm, repetition and mnemonics.", subject),
		}
	case content.StyleKinesthetic:
		return Hint{
			Title:       style.Label(),
			Description: fmt.Sprintf("Hands-on steps and small experiments that let you try %s yourself.", subject),
		}
	default:
		return Hint{
			Title:       content.StyleStandard.Label(),
			Description: fmt.Sprintf("A balanced textbook explanation of %s with one supporting image.", subject),
		}
	}
}
