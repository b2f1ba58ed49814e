// Package client talks to the word search server: the file listing
// endpoint and the two push transports that carry search streams. Types
// mirror the server wire format without importing server packages.
package client

// FileDescriptor is one searchable file as reported by /api/files.
type FileDescriptor struct {
	Name          string `json:"name"`
	SizeFormatted string `json:"sizeFormatted"`
}

// FileList is the /api/files response body.
type FileList struct {
	Files []FileDescriptor `json:"files"`
}

// Transport names accepted by NewDialer.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)
