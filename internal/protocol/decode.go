package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decode maps one stream payload to an Event. It never fails: payloads that
// are not valid JSON objects, carry an unknown status, or have missing or
// out-of-range counters come back as Unrecognized.
func Decode(raw []byte) Event {
	var msg Message
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&msg); err != nil {
		return unrecognized(raw, "", fmt.Sprintf("invalid json: %v", err))
	}
	if dec.More() {
		return unrecognized(raw, msg.Status, "trailing data after record")
	}

	switch msg.Status {
	case StatusStarted:
		return Started{}

	case StatusInfo:
		ev := Info{Message: msg.Message}
		if msg.TotalFiles != nil {
			if *msg.TotalFiles < 0 {
				return unrecognized(raw, msg.Status, "negative totalFiles")
			}
			ev.TotalFiles = *msg.TotalFiles
			ev.HasTotal = true
		}
		return ev

	case StatusProgress:
		count, processed, total, err := counters(msg)
		if err != nil {
			return unrecognized(raw, msg.Status, err.Error())
		}
		return Progress{
			CurrentFile:    msg.CurrentFile,
			Count:          count,
			ProcessedFiles: processed,
			TotalFiles:     total,
		}

	case StatusCompleted:
		count, processed, total, err := counters(msg)
		if err != nil {
			return unrecognized(raw, msg.Status, err.Error())
		}
		return Completed{
			Word:           msg.Word,
			Count:          count,
			ProcessedFiles: processed,
			TotalFiles:     total,
		}

	case StatusError:
		return Error{Message: msg.Message}

	case "":
		return unrecognized(raw, "", "missing status")
	}

	return unrecognized(raw, msg.Status, fmt.Sprintf("unknown status %q", msg.Status))
}

// Encode renders ev in wire form. Unrecognized events cannot be encoded.
func Encode(ev Event) ([]byte, error) {
	var msg Message
	switch ev := ev.(type) {
	case Started:
		msg = Message{Status: StatusStarted}
	case Info:
		msg = Message{Status: StatusInfo, Message: ev.Message}
		if ev.HasTotal {
			msg.TotalFiles = intPtr(ev.TotalFiles)
		}
	case Progress:
		msg = Message{
			Status:         StatusProgress,
			CurrentFile:    ev.CurrentFile,
			Count:          intPtr(ev.Count),
			ProcessedFiles: intPtr(ev.ProcessedFiles),
			TotalFiles:     intPtr(ev.TotalFiles),
		}
	case Completed:
		msg = Message{
			Status:         StatusCompleted,
			Word:           ev.Word,
			Count:          intPtr(ev.Count),
			ProcessedFiles: intPtr(ev.ProcessedFiles),
			TotalFiles:     intPtr(ev.TotalFiles),
		}
	case Error:
		msg = Message{Status: StatusError, Message: ev.Message}
	default:
		return nil, fmt.Errorf("encode %T: not a wire event", ev)
	}
	return json.Marshal(msg)
}

func counters(msg Message) (count, processed, total int, err error) {
	if msg.Count == nil || msg.ProcessedFiles == nil || msg.TotalFiles == nil {
		return 0, 0, 0, errors.New("missing counter field")
	}
	count, processed, total = *msg.Count, *msg.ProcessedFiles, *msg.TotalFiles
	if count < 0 || processed < 0 || total < 0 {
		return 0, 0, 0, errors.New("negative counter")
	}
	return count, processed, total, nil
}

func unrecognized(raw []byte, status Status, reason string) Unrecognized {
	return Unrecognized{Raw: string(raw), Reason: reason, status: status}
}

func intPtr(n int) *int { return &n }
