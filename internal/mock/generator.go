// Package mock implements a stand-in search server that speaks the
// stream protocol. It performs no real search: match counts are derived
// from a hash of the keyword and file name so runs are reproducible.
package mock

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/wordsearch/wordsearch/internal/config"
	"github.com/wordsearch/wordsearch/internal/protocol"
)

const maxMatchesPerFile = 500

// Script returns the events the server emits for one search, in order.
// When fail is set the search aborts with an error halfway through.
func Script(keyword string, files []config.MockFile, fail bool) []protocol.Event {
	n := len(files)
	events := []protocol.Event{
		protocol.Started{},
		protocol.Info{
			Message:    fmt.Sprintf("found %d files to search", n),
			TotalFiles: n,
			HasTotal:   true,
		},
	}

	if fail && n == 0 {
		return append(events, protocol.Error{Message: "no files available to search"})
	}

	total := 0
	for i, f := range files {
		if fail && i == n/2 {
			return append(events, protocol.Error{Message: fmt.Sprintf("failed to read %s", f.Name)})
		}
		total += matches(keyword, f)
		events = append(events, protocol.Progress{
			CurrentFile:    f.Name,
			Count:          total,
			ProcessedFiles: i + 1,
			TotalFiles:     n,
		})
	}

	return append(events, protocol.Completed{
		Word:           keyword,
		Count:          total,
		ProcessedFiles: n,
		TotalFiles:     n,
	})
}

// matches returns the synthetic number of occurrences of keyword in f.
// Empty files never match.
func matches(keyword string, f config.MockFile) int {
	if f.Size == 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(keyword)))
	h.Write([]byte{0})
	h.Write([]byte(f.Name))
	return int(h.Sum32() % maxMatchesPerFile)
}

// FormatSize renders a byte count the way /api/files reports it.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
