package viewer

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ueconsole/internal/auth"
	"ueconsole/internal/store"
)

type monitorMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func TestMonitor(t *testing.T) {
	h := newTestHandler(t, nil)
	h.Records.ReplaceAll([]store.SubscriberRecord{
		{IMSI: "001010000000001", Ki: "k", OPC: "o", Expires: "3600", UDPPort: 5060},
	})

	srv := httptest.NewServer(Monitor(h.Dispatcher, h.Records, h.Calls, "test-secret"))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("missing token rejected", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		if conn != nil {
			conn.Close()
		}
		require.NotNil(t, resp)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("snapshot then updates", func(t *testing.T) {
		token, err := auth.GenerateToken(auth.Claims{
			Username:  "operator",
			ExpiresAt: time.Now().Add(time.Hour),
		}, "test-secret")
		require.NoError(t, err)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(3 * time.Second))

		var msg monitorMessage
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "snapshot", msg.Type)

		var snap struct {
			Clients []store.SubscriberRecord `json:"clients"`
			Calls   []store.CallRecord       `json:"calls"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &snap))
		require.Len(t, snap.Clients, 1)
		assert.Empty(t, snap.Calls)

		// The subscription starts after the snapshot write; give the handler
		// a moment to register it before mutating.
		time.Sleep(100 * time.Millisecond)

		h.Calls.Upsert(store.CallRecord{IMSI: "001010000000001", CallID: "c1", State: "Ringing"})

		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "call_update", msg.Type)

		var call store.CallRecord
		require.NoError(t, json.Unmarshal(msg.Data, &call))
		assert.Equal(t, "c1", call.CallID)

		// A removed record reaches the viewer as a tombstone.
		h.Records.Remove("001010000000001")

		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "record_removed", msg.Type)

		var tomb struct {
			IMSI string `json:"imsi"`
		}
		require.NoError(t, json.Unmarshal(msg.Data, &tomb))
		assert.Equal(t, "001010000000001", tomb.IMSI)
	})
}
