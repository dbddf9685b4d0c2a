package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/csheth/eduassist/internal/logging"
)

type jobKind string

type jobStatus string

const (
	jobKindGenerate jobKind = "generate"
	jobKindImage    jobKind = "image"
	jobKindSave     jobKind = "save"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs work off the update loop. Jobs are never cancelled; the model
// decides whether a late result still applies.
type jobBus struct {
	logger *logging.Logger
}

func newJobBus(logger *logging.Logger) *jobBus {
	if logger == nil {
		logger = logging.Nop()
	}
	return &jobBus{logger: logger.With("component", "jobs")}
}

func (b *jobBus) nextID(kind jobKind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

func (b *jobBus) Start(id string, kind jobKind, runner jobRunner) tea.Cmd {
	if id == "" {
		id = b.nextID(kind)
	}
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ctx := context.Background()
		payload, err := runner(ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		b.logger.Debug("job finished",
			"job_id", id,
			"kind", string(kind),
			"status", string(snapshot.Status),
			"duration", snapshot.Duration,
			"error", snapshot.Err,
		)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}
