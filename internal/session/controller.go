package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wordsearch/wordsearch/internal/protocol"
)

// Stream is one open push connection. Next blocks until the next frame
// payload arrives; it returns io.EOF when the server ends the stream. Close
// must be safe to call concurrently with a blocked Next and must unblock it.
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

// Dialer opens a search stream for a keyword. The keyword is passed
// unescaped; escaping is the dialer's job.
type Dialer interface {
	Dial(ctx context.Context, keyword string) (Stream, error)
}

// Note kinds reported through WithNotes.
const (
	NoteLifecycle = "sess"
	NoteDecode    = "dec"
	NoteTransport = "err"
	NoteStale     = "stal"
)

// Note is a diagnostic about stream handling, meant for a debug log.
type Note struct {
	Kind    string
	Message string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle and diagnostic records.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotes registers fn to receive diagnostics. fn runs with the
// controller lock held; it must not block or call back into the Controller.
func WithNotes(fn func(Note)) Option {
	return func(c *Controller) {
		c.notes = fn
	}
}

// Controller runs at most one search session at a time. Starting a new
// search supersedes the previous one; events from a superseded or stopped
// stream are discarded.
type Controller struct {
	dialer Dialer
	logger *log.Logger
	notes  func(Note)

	mu      sync.Mutex
	gen     uint64 // identifies the current session
	state   State
	stream  Stream // live stream of the current session, nil if none
	cancel  context.CancelFunc
	subs    map[uint64]chan State
	nextSub uint64
	closed  bool
}

// NewController creates an idle controller that opens streams through d.
func NewController(d Dialer, opts ...Option) *Controller {
	c := &Controller{
		dialer: d,
		logger: log.New(io.Discard),
		state:  Idle(),
		subs:   make(map[uint64]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a search for keyword, closing any session still running.
// It returns immediately; the connection is opened in the background and
// progress is published through State and Subscribe.
func (c *Controller) Start(keyword string) error {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return &ValidationError{Keyword: keyword, Err: ErrEmptyKeyword}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	if c.state.Phase == PhaseActive {
		c.note(NoteLifecycle, "superseding search for %q", c.state.Keyword)
	}
	c.releaseLocked()

	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.setLocked(Active(kw))
	c.note(NoteLifecycle, "search %d started for %q", gen, kw)

	go c.run(ctx, gen, kw)
	return nil
}

// Stop cancels the running search. The session ends as Stopped, keeping
// its last progress snapshot. Calling Stop with no active search only
// makes sure no connection is left open.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// State returns the latest session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives the current state immediately
// and then every later state. The channel holds one value: a subscriber that
// falls behind sees only the newest state. cancel unsubscribes and closes
// the channel.
func (c *Controller) Subscribe() (updates <-chan State, cancel func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close stops any running search and closes every subscription. Start
// fails with ErrClosed afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopLocked()
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *Controller) run(ctx context.Context, gen uint64, keyword string) {
	stream, err := c.dialer.Dial(ctx, keyword)
	if err != nil {
		c.fail(gen, &TransportError{Op: "dial", Keyword: keyword, Err: err})
		return
	}
	if !c.attach(gen, stream) {
		stream.Close()
		return
	}

	for {
		data, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			c.fail(gen, &TransportError{Op: "read", Keyword: keyword, Err: err})
			return
		}
		if !c.deliver(gen, data) {
			return
		}
	}
}

// attach records stream as the live connection of session gen. It reports
// false when the session was superseded or stopped while dialing.
func (c *Controller) attach(gen uint64, stream Stream) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.IsTerminal() {
		c.note(NoteStale, "search %d ended before its stream opened", gen)
		return false
	}
	c.stream = stream
	return true
}

// deliver applies one frame of session gen. It reports whether the read
// loop should continue.
func (c *Controller) deliver(gen uint64, data []byte) bool {
	ev := protocol.Decode(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.IsTerminal() {
		c.note(NoteStale, "dropped %s event of finished search %d", eventName(ev), gen)
		return false
	}

	if u, ok := ev.(protocol.Unrecognized); ok {
		c.logger.Warn("ignoring stream record", "search", gen, "reason", u.Reason, "raw", u.Raw)
		c.note(NoteDecode, "ignored record: %s", u.Reason)
		return true
	}

	next := Apply(c.state, ev)
	c.setLocked(next)
	if next.IsTerminal() {
		c.note(NoteLifecycle, "search %d %s", gen, next.Phase)
		c.releaseLocked()
		return false
	}
	return true
}

// fail ends session gen after a transport error.
func (c *Controller) fail(gen uint64, err *TransportError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state.IsTerminal() {
		c.logger.Debug("ignoring transport error of finished search", "search", gen, "err", err)
		return
	}

	c.logger.Error("search stream failed", "search", gen, "err", err)
	c.note(NoteTransport, "%v", err)
	c.releaseLocked()
	c.setLocked(State{
		Phase:   PhaseFailed,
		Keyword: c.state.Keyword,
		Err:     &ErrorInfo{Message: ConnectionLostMessage, Kind: KindTransport},
	})
}

func (c *Controller) stopLocked() {
	c.releaseLocked()
	if c.state.Phase != PhaseActive {
		return
	}
	c.note(NoteLifecycle, "search %d stopped", c.gen)
	c.setLocked(State{
		Phase:    PhaseStopped,
		Keyword:  c.state.Keyword,
		Progress: c.state.Progress,
	})
}

// releaseLocked cancels the pending dial and closes the live stream, if any.
func (c *Controller) releaseLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			c.logger.Debug("closing search stream", "err", err)
		}
		c.stream = nil
	}
}

func (c *Controller) setLocked(s State) {
	c.state = s
	c.logger.Debug("session state", "phase", s.Phase, "keyword", s.Keyword)
	for _, ch := range c.subs {
		// Keep only the newest state in the buffer.
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (c *Controller) note(kind, format string, args ...any) {
	if c.notes == nil {
		return
	}
	c.notes(Note{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func eventName(ev protocol.Event) string {
	if s := ev.Status(); s != "" {
		return string(s)
	}
	return "unrecognized"
}
