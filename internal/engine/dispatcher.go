package engine

import (
	"context"
	"sync"

	"ueconsole/internal/backend"
	"ueconsole/internal/store"
)

// LineConfig is the subscriber-level backend configuration returned with a
// snapshot, held for display only.
type LineConfig struct {
	PcscfSocket string `json:"pcscfSocket"`
	ImsDomain   string `json:"imsDomain"`
}

// Dispatcher turns operator intents into backend requests. It never mutates
// the stores optimistically: state changes come back through the push channel
// or, for snapshot-style operations, through the response body.
type Dispatcher struct {
	Backend    *backend.Client
	Records    *store.RecordStore
	Calls      *store.CallStore
	Reconciler *Reconciler

	mu      sync.RWMutex
	lineCfg LineConfig
}

func NewDispatcher(b *backend.Client, records *store.RecordStore, calls *store.CallStore, rec *Reconciler) *Dispatcher {
	return &Dispatcher{
		Backend:    b,
		Records:    records,
		Calls:      calls,
		Reconciler: rec,
	}
}

// Refresh pulls a fresh snapshot and replaces the record set wholesale.
// Also run after every channel reconnect: missed pushes are not replayed, so
// the pull is what restores line-record consistency.
func (d *Dispatcher) Refresh(ctx context.Context) (LineConfig, error) {
	snap, err := d.Backend.LoadSnapshot(ctx)
	if err != nil {
		return LineConfig{}, err
	}

	d.Records.ReplaceAll(snap.Clients)

	cfg := LineConfig{PcscfSocket: snap.PcscfSocket, ImsDomain: snap.ImsDomain}
	d.mu.Lock()
	d.lineCfg = cfg
	d.mu.Unlock()

	return cfg, nil
}

// LineConfig returns the last pulled line configuration.
func (d *Dispatcher) LineConfig() LineConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineCfg
}

// RefreshCalls pulls the backend's call list and upserts each entry as a
// call, skipping the push-channel routing: every entry from the call list is
// a call by construction, even one with an empty callID, which the routing
// heuristic would misread as a line event.
func (d *Dispatcher) RefreshCalls(ctx context.Context) error {
	calls, err := d.Backend.LoadCalls(ctx)
	if err != nil {
		return err
	}

	for _, c := range calls {
		d.Reconciler.handleCall(Event{
			IMSI:        c.IMSI,
			CallID:      c.CallID,
			MSISDN:      c.MSISDN,
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Direction:   c.Direction,
			State:       c.State,
			CallHold:    c.CallHold,
			FlashAnswer: c.FlashAnswer,
		})
	}
	return nil
}

// SaveSubscriber provisions or updates one subscriber. The backend replies
// with the full updated list, which replaces the record set — equivalent to
// a fresh pull, so local drift cannot survive a save.
func (d *Dispatcher) SaveSubscriber(ctx context.Context, rec store.SubscriberRecord) error {
	clients, err := d.Backend.CreateOrUpdateSubscriber(ctx, rec)
	if err != nil {
		return err
	}
	d.Records.ReplaceAll(clients)
	return nil
}

// DeleteSubscribers sends the deletion and leaves the local records alone.
// They disappear on the next Refresh, once the backend has confirmed.
func (d *Dispatcher) DeleteSubscribers(ctx context.Context, imsis []string) error {
	return d.Backend.DeleteSubscribers(ctx, imsis)
}

func (d *Dispatcher) SetRegistration(ctx context.Context, imsi string, unregister bool) error {
	return d.Backend.SetRegistration(ctx, imsi, unregister)
}

func (d *Dispatcher) PlaceCall(ctx context.Context, imsi, cdpn string) error {
	return d.Backend.PlaceCall(ctx, imsi, cdpn)
}

func (d *Dispatcher) ActOnCall(ctx context.Context, imsi, callID, action string) error {
	return d.Backend.ActOnCall(ctx, imsi, callID, action)
}

func (d *Dispatcher) SaveLineConfig(ctx context.Context, pcscfSocket, imsDomain string) error {
	if err := d.Backend.SaveLineConfig(ctx, pcscfSocket, imsDomain); err != nil {
		return err
	}
	d.mu.Lock()
	d.lineCfg = LineConfig{PcscfSocket: pcscfSocket, ImsDomain: imsDomain}
	d.mu.Unlock()
	return nil
}

// ClearCalls empties the local call log. Presentation retention choice only;
// the backend is not told.
func (d *Dispatcher) ClearCalls() {
	d.Calls.Clear()
}
