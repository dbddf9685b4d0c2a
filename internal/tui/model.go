package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/eduassist/internal/content"
	"github.com/csheth/eduassist/internal/lessons"
	"github.com/csheth/eduassist/internal/logging"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client      content.Client
	Images      ImageFetcher
	LessonsPath string
	Logger      *logging.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		config.Logger = logging.Nop()
	}

	topicInput := textinput.New()
	topicInput.Placeholder = topicPlaceholder
	topicInput.Focus()
	topicInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		keys:          defaultKeyMap(),
		help:          help.New(),
		layout:        layout,
		jobs:          newJobBus(config.Logger),
		topicInput:    topicInput,
		style:         content.DefaultStyle,
		focus:         focusTopic,
		spinner:       spin,
		viewport:      vp,
		status:        requestStatus{stage: stageIdle},
		activeJobs:    map[string]jobSnapshot{},
		viewportDirty: true,
	}
}

type model struct {
	config Config
	keys   keyMap
	help   help.Model
	layout pageLayout
	jobs   *jobBus

	topicInput textinput.Model
	style      content.LearningStyle
	focus      focusField
	spinner    spinner.Model
	viewport   viewport.Model

	status        requestStatus
	image         imageState
	infoMessage   string
	activeJobs    map[string]jobSnapshot
	lastJob       *jobSnapshot
	viewportDirty bool
	unmounted     bool
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.unmounted {
		m.discardAfterUnmount(msg)
		return m, nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.status.stage == stageLoading || m.image.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			if m.image.loading {
				m.markViewportDirty()
			}
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.status.stage == stageSuccess {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg.Width, msg.Height)
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		return m.Update(msg.Payload)
	case generateResultMsg:
		return m, m.handleGenerateResult(msg)
	case imageResultMsg:
		m.handleImageResult(msg)
		return m, nil
	case lessonSavedMsg:
		m.handleLessonSaved(msg)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		if m.status.stage == stageLoading {
			// The submit control is disabled while a request is outstanding.
			return m, nil
		}
		return m, m.submit()
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveLesson()
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDn):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusTopic:
		var cmd tea.Cmd
		m.topicInput, cmd = m.topicInput.Update(msg)
		return m, cmd
	case focusStyle:
		switch {
		case key.Matches(msg, m.keys.StyleNext):
			m.setLearningStyle(m.style.Next(1))
		case key.Matches(msg, m.keys.StylePrev):
			m.setLearningStyle(m.style.Next(-1))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	default:
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}
}

// setTopic replaces the topic text and nothing else.
func (m *model) setTopic(value string) {
	m.topicInput.SetValue(value)
}

// setLearningStyle replaces the selected style. Only the next submit sees it.
func (m *model) setLearningStyle(style content.LearningStyle) {
	if !style.Valid() {
		return
	}
	m.style = style
}

// submit validates the form and starts one generation request. It does not
// guard against a request already being in flight.
func (m *model) submit() tea.Cmd {
	topic := m.topicInput.Value()
	if topic == "" {
		m.status = requestStatus{stage: stageError, message: msgEmptyTopic}
		m.image = imageState{}
		m.markViewportDirty()
		return nil
	}

	requestID := m.jobs.nextID(jobKindGenerate)
	req := content.Request{
		Topic:         topic,
		LearningStyle: m.style,
		RequestID:     requestID,
	}
	m.status = requestStatus{stage: stageLoading, requestID: requestID, topic: topic, style: m.style}
	m.image = imageState{}
	m.infoMessage = ""
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	m.config.Logger.Info("content requested",
		"request_id", requestID,
		"topic", topic,
		"learning_style", string(m.style),
	)
	return tea.Batch(m.spinner.Tick, m.jobs.Start(requestID, jobKindGenerate, generateJob(m.config.Client, req)))
}

// handleGenerateResult settles the request. Whatever resolves last wins.
func (m *model) handleGenerateResult(msg generateResultMsg) tea.Cmd {
	if msg.err != nil {
		m.config.Logger.Error("content generation failed",
			"request_id", msg.requestID,
			"topic", msg.topic,
			"learning_style", string(msg.style),
			"error", msg.err,
		)
		m.status = requestStatus{stage: stageError, message: msgRequestFailed, requestID: msg.requestID}
		m.image = imageState{}
		m.markViewportDirty()
		return nil
	}

	m.status = requestStatus{
		stage:     stageSuccess,
		requestID: msg.requestID,
		topic:     msg.topic,
		style:     msg.style,
		content:   msg.content,
	}
	m.image = imageState{requestID: msg.requestID, url: m.imageURL(msg.content.ImagePath)}
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	m.config.Logger.Info("content generated",
		"request_id", msg.requestID,
		"image_path", msg.content.ImagePath,
		"explanation_chars", len(msg.content.Explanation),
	)

	if m.config.Images == nil || m.image.url == "" {
		return nil
	}
	m.image.loading = true
	width, rows := m.previewBounds()
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start("", jobKindImage, fetchImageJob(m.config.Images, msg.requestID, m.image.url, width, rows)),
	)
}

func (m *model) handleImageResult(msg imageResultMsg) {
	if m.status.stage != stageSuccess || m.status.requestID != msg.requestID || m.image.url != msg.url {
		return
	}
	m.image.loading = false
	if msg.err != nil {
		m.config.Logger.Warn("image fetch failed", "request_id", msg.requestID, "url", msg.url, "error", msg.err)
		m.image.err = msgImageFailed
		m.image.preview = ""
	} else {
		m.image.err = ""
		m.image.path = msg.path
		m.image.preview = msg.preview
	}
	m.markViewportDirty()
}

func (m *model) saveLesson() tea.Cmd {
	if m.status.stage != stageSuccess {
		m.infoMessage = "Generate content before saving a lesson."
		return nil
	}
	if strings.TrimSpace(m.config.LessonsPath) == "" {
		m.infoMessage = "Saving is disabled: no lessons file configured."
		return nil
	}
	lesson := lessons.Lesson{
		Topic:         m.status.topic,
		LearningStyle: string(m.status.style),
		Explanation:   m.status.content.Explanation,
		ImageURL:      m.image.url,
	}
	m.infoMessage = "Saving lesson…"
	return m.jobs.Start("", jobKindSave, saveLessonJob(m.config.LessonsPath, lesson))
}

func (m *model) handleLessonSaved(msg lessonSavedMsg) {
	if msg.err != nil {
		m.config.Logger.Error("lesson save failed", "path", msg.path, "error", msg.err)
		m.infoMessage = "Saving failed. Retry with ctrl+s."
		return
	}
	m.infoMessage = fmt.Sprintf("Saved %q to %s", msg.lesson.Title(), msg.path)
}

func (m *model) handleResize(width, height int) tea.Cmd {
	m.layout.Update(width, height)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.topicInput.Width = m.layout.inputWidth
	m.help.Width = width
	m.markViewportDirty()
	if m.status.stage != stageSuccess || m.image.path == "" || m.image.loading {
		return nil
	}
	w, rows := m.previewBounds()
	return m.jobs.Start("", jobKindImage, renderImageJob(m.status.requestID, m.image.url, m.image.path, w, rows))
}

func (m *model) cycleFocus(delta int) {
	next := (int(m.focus) + delta + int(focusCount)) % int(focusCount)
	m.focus = focusField(next)
	if m.focus == focusTopic {
		m.topicInput.Focus()
	} else {
		m.topicInput.Blur()
	}
}

func (m *model) imageURL(imagePath string) string {
	if m.config.Client == nil {
		return ""
	}
	return content.ImageURL(m.config.Client.BaseURL(), imagePath)
}

func (m *model) previewBounds() (int, int) {
	width := m.layout.viewportWidth - 2
	if width > maxPreviewWidth {
		width = maxPreviewWidth
	}
	if width < 8 {
		width = 8
	}
	return width, maxPreviewRows
}

func (m *model) recordJob(snapshot jobSnapshot) {
	delete(m.activeJobs, snapshot.ID)
	last := snapshot
	m.lastJob = &last
}

// unmount marks the component as gone; later results are dropped.
func (m *model) unmount() {
	m.unmounted = true
	m.config.Logger.Info("form unmounted", "pending_jobs", len(m.activeJobs))
}

func (m *model) discardAfterUnmount(msg tea.Msg) {
	switch msg := msg.(type) {
	case jobResultEnvelope:
		m.config.Logger.Debug("discarding result after teardown",
			"job_id", msg.Snapshot.ID,
			"kind", string(msg.Snapshot.Kind),
			"age", time.Since(msg.Snapshot.StartedAt),
		)
	case generateResultMsg:
		m.config.Logger.Debug("discarding result after teardown", "request_id", msg.requestID)
	}
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	if m.status.stage != stageSuccess {
		m.viewport.SetContent("")
		return
	}
	body := m.buildResultContent()
	m.viewport.Height = min(m.layout.viewportHeight, max(body.Lines(), 1))
	prev := m.viewport.YOffset
	m.viewport.SetContent(body.String())
	m.viewport.SetYOffset(prev)
}
