package guide

import (
	"strings"
	"testing"

	"github.com/csheth/eduassist/internal/content"
)

func TestForCoversEveryStyle(t *testing.T) {
	for _, style := range content.Styles() {
		hint := For(style, "tides")
		if hint.Title != style.Label() {
			t.Fatalf("title mismatch for %s: %q", style, hint.Title)
		}
		if !strings.Contains(hint.Description, "tides") {
			t.Fatalf("description should mention the topic, got %q", hint.Description)
		}
	}
}

func TestForFallsBackWithoutTopic(t *testing.T) {
	hint := For(content.StyleVisual, "   ")
	if !strings.Contains(hint.Description, "your topic") {
		t.Fatalf("expected placeholder subject, got %q", hint.Description)
	}
}

func TestForUnknownStyleUsesStandard(t *testing.T) {
	hint := For(content.LearningStyle("musical"), "tides")
	if hint.Title != "Standard Learner" {
		t.Fatalf("expected standard fallback, got %q", hint.Title)
	}
}
