package ingestion

import "iter"

// Outcome is the terminal result of processing one file.
type Outcome int

const (
	Succeeded Outcome = iota
	VerificationFailed
	IOError
	PublishFailed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case VerificationFailed:
		return "verification_failed"
	case IOError:
		return "io_error"
	case PublishFailed:
		return "publish_failed"
	default:
		return "unknown"
	}
}

// Event is one of EventProgress, EventFileResult or EventSummary.
type Event interface {
	isEvent()
}

// EventProgress is emitted before a file is processed. Index is 1-based.
type EventProgress struct {
	Index    int
	Total    int
	Filename string
}

// EventFileResult is emitted after a file is processed.
type EventFileResult struct {
	Filename string
	Outcome  Outcome
	Err      error
}

// EventSummary is the last event of every stream.
type EventSummary struct {
	Succeeded int
	Total     int
}

func (EventProgress) isEvent()   {}
func (EventFileResult) isEvent() {}
func (EventSummary) isEvent()    {}

// Stream yields the events of one submission in order. It can be ranged
// over once; later iterations yield nothing.
type Stream = iter.Seq[Event]
