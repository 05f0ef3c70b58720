package channel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ueconsole/internal/engine"
	"ueconsole/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pushServer is a stand-in telephony core: it accepts the channel, pushes
// canned events, and records what the console writes back.
type pushServer struct {
	events         []string
	closeAfterPush bool

	mu       sync.Mutex
	greeting string
	acks     []string
}

func (p *pushServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, greeting, err := conn.ReadMessage()
		if err != nil {
			return
		}
		p.mu.Lock()
		p.greeting = string(greeting)
		p.mu.Unlock()

		for _, ev := range p.events {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(ev)); err != nil {
				return
			}
		}

		if p.closeAfterPush {
			// Give the console time to fold the events in, then drop the
			// link mid-session.
			time.Sleep(100 * time.Millisecond)
			return
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			p.mu.Lock()
			p.acks = append(p.acks, string(msg))
			p.mu.Unlock()
		}
	}
}

func (p *pushServer) ackCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.acks)
}

func TestChannelReconcilesAndAcks(t *testing.T) {
	srv := &pushServer{
		events: []string{
			`{"imsi":"001010000000001","callID":"c1","state":"Ringing","endTime":"N/A","flashAnswer":true}`,
			`{"imsi":"001010000000001","callID":"c1","state":"Answered","endTime":"N/A"}`,
			`{"state":"orphan"}`,
			`{"imsi":"001010000000001","msisdn":"96170123456","regStatus":"Registered","expires":"600"}`,
		},
	}

	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	records := store.NewRecordStore()
	records.ReplaceAll([]store.SubscriberRecord{{
		IMSI: "001010000000001", Ki: "k", OPC: "o", Expires: "3600", UDPPort: 5060,
	}})
	calls := store.NewCallStore()
	rec := engine.NewReconciler(records, calls)

	var mu sync.Mutex
	var outcomes []engine.OutcomeKind

	ch := New("ws"+strings.TrimPrefix(ts.URL, "http"), rec)
	ch.Backoff = time.Hour // no reconnect during the test
	ch.OnOutcome = func(_ context.Context, out engine.Outcome) {
		mu.Lock()
		outcomes = append(outcomes, out.Kind)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	// Three of the four events are routable; each handled one is acked,
	// the unroutable one is dropped silently.
	require.Eventually(t, func() bool {
		return srv.ackCount() == 3
	}, 3*time.Second, 10*time.Millisecond)

	srv.mu.Lock()
	assert.Contains(t, srv.greeting, "connected")
	assert.Equal(t, []string{
		"Call record added!",
		"Call record updated!",
		"Line record updated!",
	}, srv.acks)
	srv.mu.Unlock()

	snap := calls.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Answered", snap[0].State)

	line, ok := records.Get("001010000000001")
	require.True(t, ok)
	assert.Equal(t, "Registered", line.RegStatus)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []engine.OutcomeKind{
		engine.CallInserted,
		engine.CallUpdated,
		engine.LineUpdated,
	}, outcomes)
}

func TestChannelFailureKeepsStores(t *testing.T) {
	srv := &pushServer{
		events: []string{
			`{"imsi":"001010000000001","callID":"c1","state":"Ringing","endTime":"N/A"}`,
		},
		closeAfterPush: true,
	}

	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	records := store.NewRecordStore()
	calls := store.NewCallStore()
	rec := engine.NewReconciler(records, calls)

	ch := New("ws"+strings.TrimPrefix(ts.URL, "http"), rec)
	ch.Backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	require.Eventually(t, func() bool {
		return calls.Len() == 1
	}, 3*time.Second, 10*time.Millisecond)

	// The peer drops the link: live updates stop, store contents stay.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, calls.Len())
}

func TestChannelOnOpenRunsPerConnect(t *testing.T) {
	srv := &pushServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	rec := engine.NewReconciler(store.NewRecordStore(), store.NewCallStore())
	ch := New("ws"+strings.TrimPrefix(ts.URL, "http"), rec)
	ch.Backoff = time.Hour

	opened := make(chan struct{}, 1)
	ch.OnOpen = func(ctx context.Context) {
		select {
		case opened <- struct{}{}:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	select {
	case <-opened:
	case <-time.After(3 * time.Second):
		t.Fatal("OnOpen never ran")
	}
}
