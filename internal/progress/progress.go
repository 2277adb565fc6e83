package progress

import "time"

// Stage identifies which research step is active.
type Stage string

const (
	StageVerify      Stage = "verify"
	StageArticles    Stage = "articles"
	StageAnalysis    Stage = "analysis"
	StageSocial      Stage = "social"
	StagePreferences Stage = "preferences"
	StageProfile     Stage = "profile"
	StageComplete    Stage = "complete"
)

// Event carries progress information from the research pipeline to a renderer.
type Event struct {
	Stage      Stage
	Message    string
	StepNumber int
	TotalSteps int
	Elapsed    time.Duration
	Error      error
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, step, total int, start time.Time) Event {
	return Event{
		Stage:      stage,
		Message:    msg,
		StepNumber: step,
		TotalSteps: total,
		Elapsed:    time.Since(start),
	}
}
