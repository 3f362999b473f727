package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"startime/config"
	"startime/conversation"
)

// ErrConnectionClosed is returned by Next once the socket is gone
var ErrConnectionClosed = errors.New("conversation connection closed")

// CloseReason tells who ended a conversation socket
type CloseReason int

const (
	NotClosed CloseReason = iota
	ClosedByServer
	ClosedByClient
)

func (r CloseReason) String() string {
	switch r {
	case ClosedByServer:
		return "server"
	case ClosedByClient:
		return "client"
	default:
		return "open"
	}
}

// SnapshotEvent is one received frame: a decoded snapshot, or the error
// that kept it from decoding.
type SnapshotEvent struct {
	Snapshot conversation.Snapshot
	Err      error
}

// Socket is a receive-only connection to one conversation. The server pushes
// a full snapshot on every change; nothing is ever written except the close frame.
type Socket struct {
	conn           *websocket.Conn
	conversationID ID

	events  chan SnapshotEvent
	done    chan struct{}
	closing chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	reason    CloseReason
	err       error
}

// ConversationURL builds {ws}/ws/conversation/{id}/
func ConversationURL(wsBase string, id ID) (string, error) {
	base, err := url.Parse(strings.TrimRight(wsBase, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid websocket url: %w", err)
	}

	switch base.Scheme {
	case "ws", "wss":
	case "http":
		base.Scheme = "ws"
	case "https":
		base.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid websocket url scheme %q", base.Scheme)
	}

	return base.String() + "/ws/conversation/" + url.PathEscape(id.String()) + "/", nil
}

// Dial opens the socket for a conversation and starts reading
func Dial(ctx context.Context, wsBase string, id ID) (*Socket, error) {
	if id == "" {
		return nil, fmt.Errorf("dial conversation: empty conversation id")
	}

	target, err := ConversationURL(wsBase, id)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial conversation %s: %w", id, &APIError{StatusCode: resp.StatusCode, Message: err.Error()})
		}
		return nil, fmt.Errorf("dial conversation %s: %w", id, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Socket] connected to %s", target)
	}

	s := &Socket{
		conn:           conn,
		conversationID: id,
		events:         make(chan SnapshotEvent, 8),
		done:           make(chan struct{}),
		closing:        make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

func (s *Socket) readLoop() {
	defer close(s.done)
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.finish(ClosedByServer, err)
			return
		}

		snapshot, decodeErr := conversation.DecodeSnapshot(data)
		if decodeErr != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Socket] %s: dropping malformed frame: %v", s.conversationID, decodeErr)
		}

		select {
		case s.events <- SnapshotEvent{Snapshot: snapshot, Err: decodeErr}:
		case <-s.closing:
			return
		}
	}
}

// finish records the first close only
func (s *Socket) finish(reason CloseReason, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reason != NotClosed {
		return
	}
	s.reason = reason

	if reason == ClosedByServer && err != nil &&
		!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.err = err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Socket] %s closed by %s (err=%v)", s.conversationID, reason, err)
	}
}

// ConversationID is the conversation this socket belongs to
func (s *Socket) ConversationID() ID {
	return s.conversationID
}

// Snapshots delivers received frames in order; it is closed when the socket ends
func (s *Socket) Snapshots() <-chan SnapshotEvent {
	return s.events
}

// Next waits for the next frame. It returns ErrConnectionClosed once the socket has ended.
func (s *Socket) Next(ctx context.Context) (SnapshotEvent, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return SnapshotEvent{}, ErrConnectionClosed
		}
		return ev, nil
	case <-ctx.Done():
		return SnapshotEvent{}, ctx.Err()
	}
}

// Done is closed once the read loop has exited
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Reason returns who closed the socket, or NotClosed
func (s *Socket) Reason() CloseReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Err is the transport error that ended a server-side close, if it was abnormal
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the socket from our side. Safe to call more than once.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.finish(ClosedByClient, nil)
		close(s.closing)

		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = s.conn.Close()
	})
	return err
}
