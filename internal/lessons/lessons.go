// Package lessons keeps a JSON archive of content the user chose to save.
package lessons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lesson is one saved explanation/image pair.
type Lesson struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	LearningStyle string    `json:"learningStyle"`
	Explanation   string    `json:"explanation"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	SavedAt       time.Time `json:"savedAt"`
}

// Title is a one-line label for listings.
func (l Lesson) Title() string {
	topic := strings.TrimSpace(l.Topic)
	if topic == "" {
		topic = "Untitled"
	}
	if l.LearningStyle == "" {
		return topic
	}
	return fmt.Sprintf("%s (%s)", topic, l.LearningStyle)
}

// Save appends lesson to the archive at path, assigning an id and timestamp
// when missing. It returns the stored lesson.
func Save(path string, lesson Lesson) (Lesson, error) {
	if strings.TrimSpace(path) == "" {
		return Lesson{}, errors.New("lessons path is empty")
	}
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	if lesson.SavedAt.IsZero() {
		lesson.SavedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Lesson{}, err
	}
	existing, err := Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Lesson{}, err
	}
	existing = append(existing, lesson)
	if err := write(path, existing); err != nil {
		return Lesson{}, err
	}
	return lesson, nil
}

// Load returns every saved lesson, oldest first.
func Load(path string) ([]Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out []Lesson
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func write(path string, entries []Lesson) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
