package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(imsi string) SubscriberRecord {
	return SubscriberRecord{
		Enabled: true,
		IMSI:    imsi,
		Ki:      "465B5CE8B199B49FAA5F0A2EE238A6BC",
		OPC:     "E8ED289DEBA952E4283B54E88E6183CA",
		Expires: "3600",
		UDPPort: 5060,
	}
}

func TestRecordStoreReplaceAll(t *testing.T) {
	s := NewRecordStore()

	s.ReplaceAll([]SubscriberRecord{
		testRecord("001010000000001"),
		testRecord("001010000000002"),
	})
	require.Len(t, s.Snapshot(), 2)

	// Set B replaces set A entirely, including removal of identities
	// present only in A.
	s.ReplaceAll([]SubscriberRecord{
		testRecord("001010000000002"),
		testRecord("001010000000003"),
	})

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "001010000000002", snap[0].IMSI)
	assert.Equal(t, "001010000000003", snap[1].IMSI)

	_, ok := s.Get("001010000000001")
	assert.False(t, ok)
}

func TestRecordStoreUpsertFields(t *testing.T) {
	s := NewRecordStore()
	s.ReplaceAll([]SubscriberRecord{testRecord("001010000000001")})

	ok := s.UpsertFields("001010000000001", LineFields{
		MSISDN:    "96170123456",
		RegStatus: "Registered",
		Expires:   "600",
	})
	require.True(t, ok)

	rec, found := s.Get("001010000000001")
	require.True(t, found)
	assert.Equal(t, "96170123456", rec.MSISDN)
	assert.Equal(t, "Registered", rec.RegStatus)
	assert.Equal(t, "600", rec.Expires)

	// Everything not backend-owned is untouched.
	assert.True(t, rec.Enabled)
	assert.Equal(t, "465B5CE8B199B49FAA5F0A2EE238A6BC", rec.Ki)
	assert.Equal(t, "E8ED289DEBA952E4283B54E88E6183CA", rec.OPC)
	assert.Equal(t, 5060, rec.UDPPort)
}

func TestRecordStoreUpsertFieldsUnknownIMSI(t *testing.T) {
	s := NewRecordStore()
	s.ReplaceAll([]SubscriberRecord{testRecord("001010000000001")})

	// A push event may race ahead of the snapshot; not an error, a no-op.
	ok := s.UpsertFields("999999999999999", LineFields{RegStatus: "Registered"})
	assert.False(t, ok)
	assert.Len(t, s.Snapshot(), 1)
}

func TestRecordStoreRemove(t *testing.T) {
	s := NewRecordStore()
	s.ReplaceAll([]SubscriberRecord{
		testRecord("001010000000001"),
		testRecord("001010000000002"),
		testRecord("001010000000003"),
	})

	s.Remove("001010000000001", "001010000000003")

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "001010000000002", snap[0].IMSI)
}

func TestRecordStoreSubscribe(t *testing.T) {
	s := NewRecordStore()
	s.ReplaceAll([]SubscriberRecord{testRecord("001010000000001")})

	sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	// drain the nothing that happened so far
	select {
	case <-sub:
		t.Fatal("unexpected event before mutation")
	default:
	}

	s.UpsertFields("001010000000001", LineFields{RegStatus: "Registered"})

	up := <-sub
	assert.False(t, up.Removed)
	assert.Equal(t, "Registered", up.Record.RegStatus)
}

func TestRecordStoreSubscribeSeesRemovals(t *testing.T) {
	s := NewRecordStore()
	s.ReplaceAll([]SubscriberRecord{
		testRecord("001010000000001"),
		testRecord("001010000000002"),
	})

	sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	s.Remove("001010000000001")

	up := <-sub
	assert.True(t, up.Removed)
	assert.Equal(t, "001010000000001", up.Record.IMSI)

	// Removing an unknown identity publishes nothing.
	s.Remove("999999999999999")
	select {
	case got := <-sub:
		t.Fatalf("unexpected update %+v", got)
	default:
	}

	// A wholesale replace publishes a removal for each dropped identity.
	s.ReplaceAll([]SubscriberRecord{testRecord("001010000000003")})

	var removed []string
	for i := 0; i < 2; i++ {
		up := <-sub
		if up.Removed {
			removed = append(removed, up.Record.IMSI)
		}
	}
	assert.Equal(t, []string{"001010000000002"}, removed)
}
