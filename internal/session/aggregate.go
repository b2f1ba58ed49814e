package session

import (
	"fmt"

	"github.com/wordsearch/wordsearch/internal/protocol"
)

const startedMessage = "search started"

// Apply folds one decoded event into cur and returns the next state. It is
// pure: cur is never modified. Terminal states absorb every event, and
// Unrecognized events leave the state unchanged.
func Apply(cur State, ev protocol.Event) State {
	if cur.IsTerminal() {
		return cur
	}

	switch ev := ev.(type) {
	case protocol.Started:
		return withProgress(cur, Snapshot{Message: startedMessage})

	case protocol.Info:
		next := Snapshot{Message: ev.Message}
		if cur.Progress != nil {
			next.MatchCount = cur.Progress.MatchCount
			next.ProcessedFiles = cur.Progress.ProcessedFiles
			next.TotalFiles = cur.Progress.TotalFiles
		}
		if ev.HasTotal {
			next.TotalFiles = ev.TotalFiles
		}
		next.Percentage = percentage(next.ProcessedFiles, next.TotalFiles)
		return withProgress(cur, next)

	case protocol.Progress:
		return withProgress(cur, Snapshot{
			Message:        fmt.Sprintf("processing %s", ev.CurrentFile),
			MatchCount:     ev.Count,
			ProcessedFiles: ev.ProcessedFiles,
			TotalFiles:     ev.TotalFiles,
			Percentage:     percentage(ev.ProcessedFiles, ev.TotalFiles),
		})

	case protocol.Completed:
		return State{
			Phase:   PhaseCompleted,
			Keyword: cur.Keyword,
			Result: &Result{
				Keyword:        ev.Word,
				MatchCount:     ev.Count,
				ProcessedFiles: ev.ProcessedFiles,
				TotalFiles:     ev.TotalFiles,
			},
		}

	case protocol.Error:
		return State{
			Phase:   PhaseFailed,
			Keyword: cur.Keyword,
			Err:     &ErrorInfo{Message: ev.Message, Kind: KindServer},
		}
	}

	return cur
}

func withProgress(cur State, snap Snapshot) State {
	return State{
		Phase:    PhaseActive,
		Keyword:  cur.Keyword,
		Progress: &snap,
	}
}
