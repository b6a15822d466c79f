package orchestrator

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events during an orchestration run.
type Observer interface {
	// Event emits a structured event.
	Event(event Event)

	// WithFields returns a new Observer carrying additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured orchestration event.
type Event struct {
	Type      EventType
	Step      string
	Message   string
	Timestamp time.Time
	Fields    map[string]string
}

// EventType identifies the kind of orchestration event.
type EventType string

const (
	// EventRunStarted indicates an orchestration run has started.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted indicates an orchestration run has finished.
	EventRunCompleted EventType = "run.completed"

	// EventStepStarted indicates a step has been scheduled.
	EventStepStarted EventType = "step.started"
	// EventStepSucceeded indicates a step created its resource.
	EventStepSucceeded EventType = "step.succeeded"
	// EventStepExists indicates a step found its resource already present.
	EventStepExists EventType = "step.exists"
	// EventStepFailed indicates a step reached a failed terminal record.
	EventStepFailed EventType = "step.failed"
	// EventStepSkipped indicates a step was skipped because a dependency failed.
	EventStepSkipped EventType = "step.skipped"
	// EventStepRetry indicates a step attempt failed and will be retried.
	EventStepRetry EventType = "step.retry"
	// EventStepWarning indicates a step tolerated a non-fatal condition.
	EventStepWarning EventType = "step.warning"

	// EventPollProgress indicates progress inside a convergence poll.
	EventPollProgress EventType = "poll.progress"
)

// ConsoleObserver implements Observer over the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{contextFields: make(map[string]string)}
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}
	log.Print(formatEvent(event))
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ConsoleObserver{contextFields: merged}
}

func formatEvent(event Event) string {
	parts := []string{string(event.Type)}
	if event.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Step))
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}
	if len(event.Fields) > 0 {
		fieldParts := make([]string, 0, len(event.Fields))
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}
	return strings.Join(parts, " ")
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// WithFields implements Observer.
func (n NopObserver) WithFields(map[string]string) Observer { return n }
