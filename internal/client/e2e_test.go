package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordsearch/wordsearch/internal/config"
	"github.com/wordsearch/wordsearch/internal/mock"
	"github.com/wordsearch/wordsearch/internal/session"
)

var mockFiles = []config.MockFile{
	{Name: "alpha.txt", Size: 1200},
	{Name: "beta.txt", Size: 5400},
	{Name: "gamma.txt", Size: 80},
}

func mockServer(t *testing.T, tick time.Duration) *httptest.Server {
	t.Helper()
	srv := mock.NewServer(config.MockConfig{
		TickInterval: tick,
		Token:        "tok",
		FailKeywords: []string{"boom"},
		Files:        mockFiles,
	}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func waitTerminal(t *testing.T, c *session.Controller) session.State {
	t.Helper()
	require.Eventually(t, func() bool { return c.State().IsTerminal() }, 5*time.Second, 5*time.Millisecond)
	return c.State()
}

func TestEndToEnd(t *testing.T) {
	for _, transport := range []string{TransportSSE, TransportWebSocket} {
		t.Run(transport, func(t *testing.T) {
			ts := mockServer(t, time.Millisecond)
			d, err := NewDialer(transport, ts.URL, "tok")
			require.NoError(t, err)

			c := session.NewController(d)
			defer c.Close()

			t.Run("completes", func(t *testing.T) {
				require.NoError(t, c.Start("  cat "))
				st := waitTerminal(t, c)
				require.Equal(t, session.PhaseCompleted, st.Phase)

				events := mock.Script("cat", mockFiles, false)
				want := session.Active("cat")
				for _, ev := range events {
					want = session.Apply(want, ev)
				}
				assert.Equal(t, want.Result, st.Result)
				assert.Equal(t, "cat", st.Result.Keyword)
				assert.Equal(t, len(mockFiles), st.Result.ProcessedFiles)
			})

			t.Run("server error", func(t *testing.T) {
				require.NoError(t, c.Start("boom"))
				st := waitTerminal(t, c)
				require.Equal(t, session.PhaseFailed, st.Phase)
				assert.Equal(t, session.KindServer, st.Err.Kind)
				assert.Contains(t, st.Err.Message, "beta.txt")
			})

			t.Run("escaped keyword", func(t *testing.T) {
				require.NoError(t, c.Start("café / 50%"))
				st := waitTerminal(t, c)
				require.Equal(t, session.PhaseCompleted, st.Phase)
				assert.Equal(t, "café / 50%", st.Result.Keyword)
			})
		})
	}
}

func TestEndToEndStop(t *testing.T) {
	for _, transport := range []string{TransportSSE, TransportWebSocket} {
		t.Run(transport, func(t *testing.T) {
			ts := mockServer(t, 50*time.Millisecond)
			d, err := NewDialer(transport, ts.URL, "tok")
			require.NoError(t, err)

			c := session.NewController(d)
			defer c.Close()

			require.NoError(t, c.Start("cat"))
			require.Eventually(t, func() bool { return c.State().Progress != nil }, 5*time.Second, 2*time.Millisecond)
			c.Stop()

			st := c.State()
			assert.Equal(t, session.PhaseStopped, st.Phase)
			assert.Never(t, func() bool { return c.State().Phase != session.PhaseStopped }, 300*time.Millisecond, 10*time.Millisecond)
		})
	}
}

func TestEndToEndUnauthorized(t *testing.T) {
	for _, transport := range []string{TransportSSE, TransportWebSocket} {
		t.Run(transport, func(t *testing.T) {
			ts := mockServer(t, time.Millisecond)
			d, err := NewDialer(transport, ts.URL, "wrong")
			require.NoError(t, err)

			c := session.NewController(d)
			defer c.Close()

			require.NoError(t, c.Start("cat"))
			st := waitTerminal(t, c)
			require.Equal(t, session.PhaseFailed, st.Phase)
			assert.Equal(t, session.KindTransport, st.Err.Kind)
			assert.Equal(t, session.ConnectionLostMessage, st.Err.Message)
		})
	}
}
