package store

import (
	"strings"
	"sync"
)

// =========================
// TYPES
// =========================

// EndTimeNone is the backend's sentinel for a call that has not ended yet.
const EndTimeNone = "N/A"

// CallKey identifies a call. callID alone is not globally unique — the
// backend may reuse or omit it across subscribers — so the IMSI always
// participates in equality.
type CallKey struct {
	IMSI   string
	CallID string
}

// CallRecord mirrors a call event payload.
type CallRecord struct {
	IMSI        string `json:"imsi"`
	MSISDN      string `json:"msisdn"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Direction   string `json:"direction"`
	CallID      string `json:"callID"`
	State       string `json:"state"`
	CallHold    bool   `json:"callHold"`
	FlashAnswer bool   `json:"flashAnswer"`
}

func (r CallRecord) Key() CallKey {
	return CallKey{IMSI: r.IMSI, CallID: r.CallID}
}

// Ended reports whether the backend has stamped an end time on the call.
func (r CallRecord) Ended() bool {
	return r.EndTime != "" && r.EndTime != EndTimeNone
}

// Terminal reports whether the state is a completed one. The backend marks
// those with a trailing "ed" (Answered, Rejected, Released).
func (r CallRecord) Terminal() bool {
	return strings.HasSuffix(r.State, "ed")
}

// UpsertResult classifies what an Upsert did, so the caller can decide
// between new-call and call-changed side effects.
type UpsertResult int

const (
	Inserted UpsertResult = iota
	Updated
)

// =========================
// STORE
// =========================

type CallStore struct {
	mu    sync.RWMutex
	calls map[CallKey]CallRecord
	order []CallKey
	subs  []chan CallRecord
}

func NewCallStore() *CallStore {
	return &CallStore{
		calls: make(map[CallKey]CallRecord),
	}
}

// Upsert inserts the record under its (imsi, callID) key, or merges
// startTime, endTime, state and callHold into the existing entry. A repeated
// event for a known key never creates a second row.
func (s *CallStore) Upsert(rec CallRecord) (CallRecord, UpsertResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()

	old, ok := s.calls[key]
	if !ok {
		s.calls[key] = rec
		s.order = append(s.order, key)
		s.publish(rec)
		return rec, Inserted
	}

	if rec.StartTime != "" {
		old.StartTime = rec.StartTime
	}
	if rec.EndTime != "" {
		old.EndTime = rec.EndTime
	}
	if rec.State != "" {
		old.State = rec.State
	}
	old.CallHold = rec.CallHold

	s.calls[key] = old
	s.publish(old)
	return old, Updated
}

func (s *CallStore) Get(key CallKey) (CallRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.calls[key]
	return rec, ok
}

// Snapshot returns the calls in arrival order, oldest first.
func (s *CallStore) Snapshot() []CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CallRecord, 0, len(s.calls))
	for _, key := range s.order {
		out = append(out, s.calls[key])
	}
	return out
}

func (s *CallStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Clear empties the store. Local presentation log only — nothing is sent to
// the backend and nothing is deleted there.
func (s *CallStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = make(map[CallKey]CallRecord)
	s.order = nil
}

// =========================
// SUBSCRIPTIONS
// =========================

func (s *CallStore) Subscribe() chan CallRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan CallRecord, 16)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *CallStore) Unsubscribe(sub chan CallRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ch := range s.subs {
		if ch == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(ch)
			break
		}
	}
}

// callers hold s.mu
func (s *CallStore) publish(rec CallRecord) {
	for _, ch := range s.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}
