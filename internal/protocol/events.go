// Package protocol defines the search stream wire format shared by the
// client and the mock server. Each stream frame carries one JSON record whose
// "status" field selects the event kind.
package protocol

// Status is the discriminator carried by every stream record.
type Status string

const (
	StatusStarted   Status = "started"
	StatusInfo      Status = "info"
	StatusProgress  Status = "progress"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Message is the envelope for all stream records. Counter fields are
// pointers so that a missing field can be told apart from zero.
type Message struct {
	Status         Status `json:"status"`
	Message        string `json:"message,omitempty"`
	CurrentFile    string `json:"currentFile,omitempty"`
	Word           string `json:"word,omitempty"`
	Count          *int   `json:"count,omitempty"`
	ProcessedFiles *int   `json:"processedFiles,omitempty"`
	TotalFiles     *int   `json:"totalFiles,omitempty"`
}

// Event is a decoded stream record. The concrete types below are the only
// implementations.
type Event interface {
	Status() Status
	isEvent()
}

// Started announces that the server accepted the search.
type Started struct{}

// Info carries a free-form server message and, optionally, the corpus size.
type Info struct {
	Message    string
	TotalFiles int
	HasTotal   bool
}

// Progress reports the running totals after one more file was scanned.
type Progress struct {
	CurrentFile    string
	Count          int
	ProcessedFiles int
	TotalFiles     int
}

// Completed is the terminal success record.
type Completed struct {
	Word           string
	Count          int
	ProcessedFiles int
	TotalFiles     int
}

// Error is the terminal failure record reported by the server.
type Error struct {
	Message string
}

// Unrecognized wraps a payload that could not be mapped to a known event.
// Reason says why; Raw is the payload as received.
type Unrecognized struct {
	Raw    string
	Reason string
	status Status
}

func (Started) Status() Status { return StatusStarted }
func (Info) Status() Status { return StatusInfo }
func (Progress) Status() Status { return StatusProgress }
func (Completed) Status() Status { return StatusCompleted }
func (Error) Status() Status { return StatusError }
func (u Unrecognized) Status() Status { return u.status }

func (Started) isEvent() {}
func (Info) isEvent() {}
func (Progress) isEvent() {}
func (Completed) isEvent() {}
func (Error) isEvent() {}
func (Unrecognized) isEvent() {}

// IsTerminal reports whether ev ends a search stream.
func IsTerminal(ev Event) bool {
	switch ev.(type) {
	case Completed, Error:
		return true
	}
	return false
}
