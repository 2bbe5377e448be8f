package driver

import "time"

// Stage describes a pass the driver runs over a function.
type Stage string

const (
	// StageFold is the aggregate constant-folding pass.
	StageFold Stage = "fold"
	// StageVerify is the post-fold verifier.
	StageVerify Stage = "verify"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the function is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the function is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the function is done.
	StatusDone Status = "done"
	// StatusError indicates the function hit an error.
	StatusError Status = "error"
)

// Event reports progress for one function (or for the whole run when Fn
// is empty).
type Event struct {
	Fn      string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
