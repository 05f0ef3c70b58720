package store

import (
	"sort"
	"sync"
)

// =========================
// TYPES
// =========================

// SubscriberRecord mirrors the backend's subscriber JSON. IMSI is the
// primary key; msisdn, regStatus and expires are backend-owned and only
// change through snapshots or line events.
type SubscriberRecord struct {
	Enabled   bool   `json:"enabled"`
	IMSI      string `json:"imsi"`
	Ki        string `json:"ki"`
	OPC       string `json:"opc"`
	MSISDN    string `json:"msisdn"`
	RegStatus string `json:"regStatus"`
	Expires   string `json:"expires"`
	UDPPort   int    `json:"udpPort"`
}

// LineFields is the narrow field set a line event may change.
type LineFields struct {
	MSISDN    string
	RegStatus string
	Expires   string
}

// RecordUpdate is one store change delivered to subscribers. Removed marks a
// record that no longer exists; only its IMSI is meaningful then.
type RecordUpdate struct {
	Record  SubscriberRecord
	Removed bool
}

// =========================
// STORE
// =========================

type RecordStore struct {
	mu      sync.RWMutex
	records map[string]SubscriberRecord
	subs    []chan RecordUpdate
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]SubscriberRecord),
	}
}

// ReplaceAll swaps the full record set for the given one. Identities absent
// from the new set are gone afterwards and published as removals.
func (s *RecordStore) ReplaceAll(records []SubscriberRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.records
	s.records = make(map[string]SubscriberRecord, len(records))
	for _, rec := range records {
		s.records[rec.IMSI] = rec
		s.publish(RecordUpdate{Record: rec})
	}

	for imsi, rec := range old {
		if _, ok := s.records[imsi]; !ok {
			s.publish(RecordUpdate{Record: rec, Removed: true})
		}
	}
}

// UpsertFields merges the backend-owned line fields into the record with the
// given IMSI. A line event for an IMSI we have never seen is not an error:
// pushes may race ahead of the first snapshot.
func (s *RecordStore) UpsertFields(imsi string, f LineFields) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[imsi]
	if !ok {
		return false
	}

	rec.MSISDN = f.MSISDN
	rec.RegStatus = f.RegStatus
	rec.Expires = f.Expires
	s.records[imsi] = rec

	s.publish(RecordUpdate{Record: rec})
	return true
}

// Remove drops all records matching the given IMSIs and publishes a removal
// for each one that existed.
func (s *RecordStore) Remove(imsis ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, imsi := range imsis {
		rec, ok := s.records[imsi]
		if !ok {
			continue
		}
		delete(s.records, imsi)
		s.publish(RecordUpdate{Record: rec, Removed: true})
	}
}

func (s *RecordStore) Get(imsi string) (SubscriberRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[imsi]
	return rec, ok
}

func (s *RecordStore) Snapshot() []SubscriberRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SubscriberRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IMSI < out[j].IMSI })
	return out
}

// =========================
// SUBSCRIPTIONS
// =========================

func (s *RecordStore) Subscribe() chan RecordUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan RecordUpdate, 16)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *RecordStore) Unsubscribe(sub chan RecordUpdate) {
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
func (s *RecordStore) publish(up RecordUpdate) {
	for _, ch := range s.subs {
		select {
		case ch <- up:
		default:
		}
	}
}
