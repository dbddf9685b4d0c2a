package tui

import (
	"github.com/csheth/eduassist/internal/content"
	"github.com/csheth/eduassist/internal/lessons"
)

// stage is the active request status; exactly one applies at a time.
type stage int

const (
	stageIdle stage = iota
	stageLoading
	stageError
	stageSuccess
)

func (s stage) String() string {
	switch s {
	case stageLoading:
		return "loading"
	case stageError:
		return "error"
	case stageSuccess:
		return "success"
	default:
		return "idle"
	}
}

// requestStatus carries the payload of the active stage.
type requestStatus struct {
	stage     stage
	message   string
	requestID string
	topic     string
	style     content.LearningStyle
	content   content.LearningContent
}

type focusField int

const (
	focusTopic focusField = iota
	focusStyle
	focusSubmit
	focusCount
)

// imageState tracks the illustration attached to the current success.
type imageState struct {
	requestID string
	url       string
	path      string
	preview   string
	loading   bool
	err       string
}

const (
	msgEmptyTopic     = "Please enter a topic"
	msgRequestFailed  = "Failed to generate content. Please try again."
	msgImageFailed    = "Image unavailable."
	labelSubmitIdle   = "Generate Content"
	labelSubmitBusy   = "Generating..."
	topicPlaceholder  = "Enter a topic to learn about"
	heroTitle         = "Educational Assistant"
	heroTagline       = "Generate personalized learning content."
	clientMissingText = "content client not configured"
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	maxPreviewWidth           = 64
	maxPreviewRows            = 16
)

type generateResultMsg struct {
	requestID string
	topic     string
	style     content.LearningStyle
	content   content.LearningContent
	err       error
}

type imageResultMsg struct {
	requestID string
	url       string
	path      string
	preview   string
	err       error
}

type lessonSavedMsg struct {
	lesson lessons.Lesson
	path   string
	err    error
}
