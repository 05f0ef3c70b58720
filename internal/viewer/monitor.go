package viewer

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"ueconsole/internal/auth"
	"ueconsole/internal/engine"
	"ueconsole/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Monitor streams store changes to a browser viewer: one snapshot on connect,
// then one message per record or call change. Browsers cannot set an
// Authorization header on a WebSocket, so the token rides in the query.
func Monitor(d *engine.Dispatcher, records *store.RecordStore, calls *store.CallStore, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token required", http.StatusUnauthorized)
			return
		}

		if _, err := auth.ParseToken(token, secret); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		cfg := d.LineConfig()
		conn.WriteJSON(map[string]any{
			"type": "snapshot",
			"data": map[string]any{
				"pcscfSocket": cfg.PcscfSocket,
				"imsDomain":   cfg.ImsDomain,
				"clients":     records.Snapshot(),
				"calls":       calls.Snapshot(),
			},
		})

		recordSub := records.Subscribe()
		callSub := calls.Subscribe()

		defer records.Unsubscribe(recordSub)
		defer calls.Unsubscribe(callSub)

		for {
			var err error
			select {
			case up := <-recordSub:
				if up.Removed {
					err = conn.WriteJSON(map[string]any{
						"type": "record_removed",
						"data": map[string]string{"imsi": up.Record.IMSI},
					})
					break
				}
				err = conn.WriteJSON(map[string]any{
					"type": "record_update",
					"data": up.Record,
				})

			case c := <-callSub:
				err = conn.WriteJSON(map[string]any{
					"type": "call_update",
					"data": c,
				})
			}
			if err != nil {
				log.Printf("viewer: push failed, dropping connection: %v", err)
				return
			}
		}
	}
}
