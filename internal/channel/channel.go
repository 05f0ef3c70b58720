package channel

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ueconsole/internal/engine"
)

// Channel is the persistent duplex link to the telephony core. One goroutine
// owns the connection: it reads pushed events in arrival order, hands each to
// the reconciler, and writes the acknowledgment back. A channel failure
// suspends live updates but never touches the stores; on reconnect the
// OnOpen callback pulls a fresh snapshot, since missed events are not
// replayed.
type Channel struct {
	URL        string
	Reconciler *engine.Reconciler

	// OnOpen runs after every successful (re)connect.
	OnOpen func(ctx context.Context)

	// OnOutcome, if set, observes every non-dropped outcome (viewer push,
	// call journal).
	OnOutcome func(ctx context.Context, out engine.Outcome)

	// Backoff between reconnect attempts. Zero means 5s.
	Backoff time.Duration

	instanceID string
}

func New(url string, rec *engine.Reconciler) *Channel {
	return &Channel{
		URL:        url,
		Reconciler: rec,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this console in acks and journal rows.
func (c *Channel) InstanceID() string {
	return c.instanceID
}

// Run dials and serves the channel until ctx is cancelled, reconnecting
// after failures.
func (c *Channel) Run(ctx context.Context) {
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}

	for {
		if err := c.serve(ctx); err != nil {
			log.Printf("channel: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

func (c *Channel) serve(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	defer conn.Close()

	log.Printf("channel: connected to %s", c.URL)

	// Greeting is informational; the peer does not interpret it.
	hello := fmt.Sprintf("console %s connected", c.instanceID)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(hello)); err != nil {
		return fmt.Errorf("greeting: %w", err)
	}

	if c.OnOpen != nil {
		c.OnOpen(ctx)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		out := c.Reconciler.HandleRaw(data)

		if ack := out.Ack(); ack != "" {
			// Fire and forget; a write failure surfaces on the next read.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(ack)); err != nil {
				log.Printf("channel: ack write failed: %v", err)
			}
		}

		if out.Kind != engine.Dropped && c.OnOutcome != nil {
			c.OnOutcome(ctx, out)
		}
	}
}
