// Package session owns the lifecycle of a progressive search: the state
// model, the pure event fold that advances it, and the controller that ties
// a push stream to that fold.
package session

// Phase identifies which variant a State holds.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseCompleted
	PhaseFailed
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Snapshot is the running progress of an active search.
type Snapshot struct {
	Message        string
	MatchCount     int
	ProcessedFiles int
	TotalFiles     int
	Percentage     int // 0-100, derived from ProcessedFiles/TotalFiles
}

// Result is the final outcome of a completed search.
type Result struct {
	Keyword        string
	MatchCount     int
	ProcessedFiles int
	TotalFiles     int
}

// ErrorKind tells server-reported failures apart from connectivity ones.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindTransport
)

// ErrorInfo describes why a search failed.
type ErrorInfo struct {
	Message string
	Kind    ErrorKind
}

// State is an immutable view of a search session. Progress, Result and Err
// are set according to Phase:
//
//	PhaseActive     Progress (nil until the first progress-bearing event)
//	PhaseCompleted  Result
//	PhaseFailed     Err
//	PhaseStopped    Progress (last seen, may be nil)
//
// Values behind the pointers are never modified once a State is published.
type State struct {
	Phase    Phase
	Keyword  string
	Progress *Snapshot
	Result   *Result
	Err      *ErrorInfo
}

// Idle is the state before any search was started.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Active returns the initial state of a freshly started search.
func Active(keyword string) State {
	return State{Phase: PhaseActive, Keyword: keyword}
}

// IsTerminal reports whether no further events can change s.
func (s State) IsTerminal() bool {
	switch s.Phase {
	case PhaseCompleted, PhaseFailed, PhaseStopped:
		return true
	}
	return false
}

// percentage returns round(100*processed/total), rounding halves up,
// clamped to [0,100]. A zero total yields 0.
func percentage(processed, total int) int {
	if total <= 0 || processed <= 0 {
		return 0
	}
	pct := (200*processed + total) / (2 * total)
	if pct > 100 {
		return 100
	}
	return pct
}
