package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/wordsearch/wordsearch/internal/session"
)

// SSEDialer opens search streams as server-sent events from
// GET /api/search/{keyword}.
type SSEDialer struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSSEDialer creates a dialer for the server at baseURL. The HTTP client
// has no overall timeout since streams stay open until the search ends.
func NewSSEDialer(baseURL, token string) *SSEDialer {
	return &SSEDialer{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}
}

// Dial implements session.Dialer.
func (d *SSEDialer) Dial(ctx context.Context, keyword string) (session.Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	u := searchPath(d.baseURL, "/api/search/", keyword)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	setAuth(req.Header, d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("GET %s: %d %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/event-stream" {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("GET %s: unexpected content type %q", req.URL.Path, mediaType)
	}

	return &sseStream{
		body:   resp.Body,
		reader: bufio.NewReader(resp.Body),
		cancel: cancel,
	}, nil
}

type sseStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Next returns the data of the next "message" event. Events with another
// name are skipped, as an EventSource onmessage handler would never see
// them. An event cut short by the end of the body is discarded.
func (s *sseStream) Next() ([]byte, error) {
	var (
		data    []byte
		hasData bool
		event   string
	)
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			if hasData && len(data) > 0 && (event == "" || event == "message") {
				return data, nil
			}
			data, hasData, event = nil, false, ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			if hasData {
				data = append(data, '\n')
			}
			data = append(data, value...)
			hasData = true
		case "event":
			event = value
		}
		// "id" and "retry" only matter for reconnection, which search
		// streams never do.
	}
}

func (s *sseStream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
