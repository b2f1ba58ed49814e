package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wordsearch/wordsearch/internal/session"
)

const (
	writeTimeout     = 2 * time.Second
	handshakeTimeout = 10 * time.Second
)

// WSDialer opens search streams over WebSocket at /ws/search/{keyword}.
// Each text frame carries one JSON record.
type WSDialer struct {
	baseURL string // ws:// or wss://
	token   string
	dialer  *websocket.Dialer
}

// NewWSDialer creates a dialer from the server's HTTP base URL; the scheme
// is switched to ws or wss.
func NewWSDialer(httpBase, token string) (*WSDialer, error) {
	base, err := deriveWSBase(httpBase)
	if err != nil {
		return nil, err
	}
	return &WSDialer{
		baseURL: base,
		token:   token,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}, nil
}

// Dial implements session.Dialer.
func (d *WSDialer) Dial(ctx context.Context, keyword string) (session.Stream, error) {
	header := http.Header{}
	setAuth(header, d.token)

	conn, resp, err := d.dialer.DialContext(ctx, searchPath(d.baseURL, "/ws/search/", keyword), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws dial: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("ws dial: %w", err)
	}
	return &wsStream{conn: conn}, nil
}

type wsStream struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

// Next returns the next text frame. A normal close from the server is
// reported as io.EOF.
func (s *wsStream) Next() ([]byte, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if mt != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (s *wsStream) Close() error {
	s.closeOnce.Do(func() {
		// Best effort: the peer may already be gone.
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// deriveWSBase converts http://host:port → ws://host:port
func deriveWSBase(httpBase string) (string, error) {
	u, err := url.Parse(httpBase)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("server url %q: unsupported scheme %q", httpBase, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q: missing host", httpBase)
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path), nil
}
