package engine

import (
	"encoding/json"
	"log"

	"ueconsole/internal/store"
)

// =========================
// EVENTS
// =========================

// Event is one inbound push message. A message carrying a callID is a call
// event; otherwise, one carrying an imsi is a line event. Anything else is
// unroutable.
type Event struct {
	IMSI        string `json:"imsi"`
	CallID      string `json:"callID"`
	MSISDN      string `json:"msisdn"`
	RegStatus   string `json:"regStatus"`
	Expires     string `json:"expires"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Direction   string `json:"direction"`
	State       string `json:"state"`
	CallHold    bool   `json:"callHold"`
	FlashAnswer bool   `json:"flashAnswer"`
}

// =========================
// OUTCOMES
// =========================

type OutcomeKind int

const (
	Dropped OutcomeKind = iota
	CallInserted
	CallUpdated
	LineUpdated
)

// Outcome is what one push event did to the stores, plus the presentation
// side effects the event implies. The engine knows nothing about rendering;
// viewers react to these.
type Outcome struct {
	Kind   OutcomeKind
	Call   store.CallRecord
	Record store.SubscriberRecord

	// RingStart: a new call wants the operator's attention.
	// RingStop: the call reached a terminal state; stop alerting and clear
	// the answer affordance.
	RingStart bool
	RingStop  bool

	// HoldActive reflects callHold, except that an ended call is never shown
	// as held: ended always wins.
	HoldActive bool
}

// Ack returns the liveness message sent back over the channel after the
// event was handled, or "" when nothing was done.
func (o Outcome) Ack() string {
	switch o.Kind {
	case CallInserted:
		return "Call record added!"
	case CallUpdated:
		return "Call record updated!"
	case LineUpdated:
		return "Line record updated!"
	}
	return ""
}

// =========================
// RECONCILER
// =========================

// Reconciler folds pushed events into the stores. Events are handed to it in
// arrival order by a single channel reader; the stores make each upsert
// atomic, so duplicated or reordered deliveries converge on the same state.
type Reconciler struct {
	Records *store.RecordStore
	Calls   *store.CallStore
}

func NewReconciler(records *store.RecordStore, calls *store.CallStore) *Reconciler {
	return &Reconciler{Records: records, Calls: calls}
}

// HandleRaw decodes one channel message and applies it.
func (r *Reconciler) HandleRaw(data []byte) Outcome {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("channel: dropping undecodable event: %v", err)
		return Outcome{Kind: Dropped}
	}
	return r.Handle(ev)
}

// Handle routes one event. Unroutable events are dropped, never fatal.
func (r *Reconciler) Handle(ev Event) Outcome {
	switch {
	case ev.CallID != "":
		return r.handleCall(ev)
	case ev.IMSI != "":
		return r.handleLine(ev)
	default:
		log.Printf("channel: dropping unroutable event (no callID, no imsi)")
		return Outcome{Kind: Dropped}
	}
}

func (r *Reconciler) handleCall(ev Event) Outcome {
	rec := store.CallRecord{
		IMSI:        ev.IMSI,
		MSISDN:      ev.MSISDN,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Direction:   ev.Direction,
		CallID:      ev.CallID,
		State:       ev.State,
		CallHold:    ev.CallHold,
		FlashAnswer: ev.FlashAnswer,
	}

	merged, result := r.Calls.Upsert(rec)

	out := Outcome{Call: merged}
	if result == store.Inserted {
		out.Kind = CallInserted
		out.RingStart = merged.FlashAnswer
	} else {
		out.Kind = CallUpdated
		out.RingStop = merged.Terminal()
	}
	out.HoldActive = merged.CallHold && !merged.Ended()

	return out
}

func (r *Reconciler) handleLine(ev Event) Outcome {
	ok := r.Records.UpsertFields(ev.IMSI, store.LineFields{
		MSISDN:    ev.MSISDN,
		RegStatus: ev.RegStatus,
		Expires:   ev.Expires,
	})
	if !ok {
		// Push raced ahead of the snapshot; the next pull will pick it up.
		log.Printf("channel: line event for unknown imsi=%s ignored", ev.IMSI)
		return Outcome{Kind: Dropped}
	}

	rec, _ := r.Records.Get(ev.IMSI)
	return Outcome{Kind: LineUpdated, Record: rec}
}
