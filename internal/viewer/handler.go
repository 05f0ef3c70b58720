package viewer

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"

	"ueconsole/internal/backend"
	"ueconsole/internal/engine"
	"ueconsole/internal/store"
)

// Handler is the read/write surface for the operator UI. Reads are snapshots
// of the stores; writes go through the dispatcher and come back through the
// push channel — the handlers never mutate the stores themselves.
type Handler struct {
	Dispatcher *engine.Dispatcher
	Records    *store.RecordStore
	Calls      *store.CallStore
}

// StateResponse is the reconciled line view.
type StateResponse struct {
	PcscfSocket string                   `json:"pcscfSocket"`
	ImsDomain   string                   `json:"imsDomain"`
	Clients     []store.SubscriberRecord `json:"clients"`
}

func writeErr(w http.ResponseWriter, err error) {
	var verr *backend.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	var rerr *backend.RequestError
	if errors.As(err, &rerr) {
		http.Error(w, rerr.Error(), http.StatusBadGateway)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// GetState godoc
//
// @Summary      Current line state
// @Description  Line configuration plus all reconciled subscriber records
// @Tags         State
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} StateResponse
// @Router       /api/state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	cfg := h.Dispatcher.LineConfig()
	writeJSON(w, StateResponse{
		PcscfSocket: cfg.PcscfSocket,
		ImsDomain:   cfg.ImsDomain,
		Clients:     h.Records.Snapshot(),
	})
}

// GetCalls godoc
//
// @Summary      Call log
// @Description  Reconciled call records in arrival order
// @Tags         Calls
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} store.CallRecord
// @Router       /api/calls [get]
func (h *Handler) GetCalls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Calls.Snapshot())
}

// Refresh pulls a fresh snapshot from the backend.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Dispatcher.Refresh(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, StateResponse{
		PcscfSocket: cfg.PcscfSocket,
		ImsDomain:   cfg.ImsDomain,
		Clients:     h.Records.Snapshot(),
	})
}

// RefreshCalls re-pulls the backend's call list through the reconciler.
func (h *Handler) RefreshCalls(w http.ResponseWriter, r *http.Request) {
	if err := h.Dispatcher.RefreshCalls(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, h.Calls.Snapshot())
}

// ClearCalls empties the local call log only.
func (h *Handler) ClearCalls(w http.ResponseWriter, r *http.Request) {
	h.Dispatcher.ClearCalls()
	w.WriteHeader(http.StatusOK)
}

// SaveSubscriber godoc
//
// @Summary      Create or update subscriber
// @Tags         Subscribers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriber body store.SubscriberRecord true "Subscriber"
// @Success      200 {array} store.SubscriberRecord
// @Failure      400 {string} string "validation error"
// @Failure      502 {string} string "backend error"
// @Router       /api/subscribers [post]
func (h *Handler) SaveSubscriber(w http.ResponseWriter, r *http.Request) {
	var rec store.SubscriberRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Dispatcher.SaveSubscriber(r.Context(), rec); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, h.Records.Snapshot())
}

// DeleteSubscribers godoc
//
// @Summary      Delete subscribers
// @Description  Sends the IMSI list to the backend; records vanish locally on the next refresh
// @Tags         Subscribers
// @Security     BearerAuth
// @Accept       json
// @Param        imsis body []string true "IMSI list"
// @Success      200 {string} string "ok"
// @Router       /api/subscribers [delete]
func (h *Handler) DeleteSubscribers(w http.ResponseWriter, r *http.Request) {
	var imsis []string
	if err := json.NewDecoder(r.Body).Decode(&imsis); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Dispatcher.DeleteSubscribers(r.Context(), imsis); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SaveConfig pushes the line configuration to the backend.
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg engine.LineConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Dispatcher.SaveLineConfig(r.Context(), cfg.PcscfSocket, cfg.ImsDomain); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Register triggers registration or unregistration for one line.
func (h *Handler) Register(unregister bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imsi := r.URL.Query().Get("imsi")
		if err := h.Dispatcher.SetRegistration(r.Context(), imsi, unregister); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// PlaceCall dials a destination from one line.
func (h *Handler) PlaceCall(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.Dispatcher.PlaceCall(r.Context(), q.Get("imsi"), q.Get("cdpn")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CallAction godoc
//
// @Summary      Act on a call
// @Description  action is one of Resume/Answer, Reject/Release, HoldCall
// @Tags         Calls
// @Security     BearerAuth
// @Param        imsi   query string true "IMSI"
// @Param        callID query string true "Call ID"
// @Param        action query string true "Action"
// @Success      200 {string} string "ok"
// @Failure      400 {string} string "validation error"
// @Router       /api/callAction [post]
func (h *Handler) CallAction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.Dispatcher.ActOnCall(r.Context(), q.Get("imsi"), q.Get("callID"), q.Get("action")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Stats reports runtime numbers for the console itself.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, map[string]any{
		"goroutines":  runtime.NumGoroutine(),
		"allocMB":     m.Alloc / 1000 / 1000,
		"gcCycles":    m.NumGC,
		"subscribers": len(h.Records.Snapshot()),
		"calls":       h.Calls.Len(),
	})
}
