package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveWSBase(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "http://localhost:3001", want: "ws://localhost:3001"},
		{in: "https://search.example.com/base", want: "wss://search.example.com/base"},
		{in: "ws://h:1", want: "ws://h:1"},
		{in: "ftp://h", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		got, err := deriveWSBase(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWSStream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	seen := make(chan [2]string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- [2]string{r.URL.EscapedPath(), r.Header.Get("Authorization")}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"started"}`))
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"error","message":"x"}`))
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}))
	defer ts.Close()

	d, err := NewWSDialer(ts.URL, "tok")
	require.NoError(t, err)
	s, err := d.Dial(context.Background(), "two words")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{`{"status":"started"}`, `{"status":"error","message":"x"}`}, collect(t, s))
	got := <-seen
	assert.Equal(t, "/ws/search/two%20words", got[0])
	assert.Equal(t, "Bearer tok", got[1])
}

func TestWSAbnormalCloseIsNotEOF(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer ts.Close()

	d, err := NewWSDialer(ts.URL, "")
	require.NoError(t, err)
	s, err := d.Dial(context.Background(), "k")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestNewDialer(t *testing.T) {
	d, err := NewDialer("", "http://h:1", "")
	require.NoError(t, err)
	assert.IsType(t, &SSEDialer{}, d)

	d, err = NewDialer(TransportWebSocket, "http://h:1", "")
	require.NoError(t, err)
	assert.IsType(t, &WSDialer{}, d)

	_, err = NewDialer(TransportWebSocket, "ftp://h", "")
	assert.Error(t, err)

	_, err = NewDialer("carrier-pigeon", "http://h:1", "")
	assert.Error(t, err)
}
