package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csheth/eduassist/internal/content"
	"github.com/csheth/eduassist/internal/lessons"
)

func TestGenerateJobWithoutClient(t *testing.T) {
	req := content.Request{Topic: "Stars", LearningStyle: content.StyleVisual, RequestID: "generate-1"}
	msg, err := generateJob(nil, req)(context.Background())
	if err == nil {
		t.Fatal("expected error without a client")
	}
	result, ok := msg.(generateResultMsg)
	if !ok {
		t.Fatalf("expected generateResultMsg, got %T", msg)
	}
	if result.requestID != "generate-1" || result.err == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestGenerateJobCarriesRequestIdentity(t *testing.T) {
	client := &fakeClient{result: content.LearningContent{Explanation: "hot gas", ImagePath: "/s.png"}}
	req := content.Request{Topic: "Stars", LearningStyle: content.StyleAuditory, RequestID: "generate-2"}
	msg, err := generateJob(client, req)(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := msg.(generateResultMsg)
	if result.requestID != "generate-2" || result.topic != "Stars" || result.style != content.StyleAuditory {
		t.Fatalf("identity lost: %+v", result)
	}
	if result.content.Explanation != "hot gas" {
		t.Fatalf("unexpected content: %+v", result.content)
	}
}

func TestFetchImageJobReportsFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("offline")}
	msg, err := fetchImageJob(fetcher, "generate-3", "http://api.test/x.png", 20, 4)(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	result := msg.(imageResultMsg)
	if result.requestID != "generate-3" || result.url != "http://api.test/x.png" || result.preview != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRenderImageJobRejectsUndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")
	msg, err := renderImageJob("generate-4", "http://api.test/x.png", path, 20, 4)(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if result := msg.(imageResultMsg); result.err == nil {
		t.Fatal("error should travel with the message")
	}
}

func TestSaveLessonJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lessons.json")
	msg, err := saveLessonJob(path, lessons.Lesson{Topic: "Comets", LearningStyle: "visual", Explanation: "ice"})(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	saved := msg.(lessonSavedMsg)
	if saved.lesson.ID == "" || saved.path != path {
		t.Fatalf("unexpected saved message: %+v", saved)
	}
	if !strings.Contains(saved.lesson.Title(), "Comets") {
		t.Fatalf("unexpected title %q", saved.lesson.Title())
	}
}
