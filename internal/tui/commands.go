package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/eduassist/internal/content"
	"github.com/csheth/eduassist/internal/imagecache"
	"github.com/csheth/eduassist/internal/lessons"
)

// ImageFetcher resolves an image URL to a local file.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (string, error)
}

func generateJob(client content.Client, req content.Request) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if client == nil {
			err := errors.New(clientMissingText)
			return generateResultMsg{requestID: req.RequestID, topic: req.Topic, style: req.LearningStyle, err: err}, err
		}
		result, err := client.Generate(parent, req)
		return generateResultMsg{
			requestID: req.RequestID,
			topic:     req.Topic,
			style:     req.LearningStyle,
			content:   result,
			err:       err,
		}, err
	}
}

func fetchImageJob(fetcher ImageFetcher, requestID, imageURL string, width, rows int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 90*time.Second)
		defer cancel()
		path, err := fetcher.Fetch(ctx, imageURL)
		if err != nil {
			return imageResultMsg{requestID: requestID, url: imageURL, err: err}, err
		}
		preview, err := imagecache.RenderFile(path, width, rows)
		return imageResultMsg{requestID: requestID, url: imageURL, path: path, preview: preview, err: err}, err
	}
}

func renderImageJob(requestID, imageURL, path string, width, rows int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		preview, err := imagecache.RenderFile(path, width, rows)
		return imageResultMsg{requestID: requestID, url: imageURL, path: path, preview: preview, err: err}, err
	}
}

func saveLessonJob(path string, lesson lessons.Lesson) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		saved, err := lessons.Save(path, lesson)
		return lessonSavedMsg{lesson: saved, path: path, err: err}, err
	}
}
