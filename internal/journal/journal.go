package journal

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgconn"

	"ueconsole/internal/engine"
	"ueconsole/internal/store"
)

// DB is the slice of pgxpool the journal needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Journal appends every reconciled call event to Postgres for later audit.
// Writes are best effort: a failed insert is logged and the engine moves on;
// the live view never depends on the journal.
type Journal struct {
	db       DB
	instance string
}

func New(db DB, instance string) *Journal {
	return &Journal{db: db, instance: instance}
}

const insertCall = `
	INSERT INTO call_journal
		(instance_id, imsi, call_id, msisdn, direction, state,
		 start_time, end_time, call_hold, inserted, received_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
`

func (j *Journal) RecordCall(ctx context.Context, rec store.CallRecord, kind engine.OutcomeKind) {
	_, err := j.db.Exec(ctx, insertCall,
		j.instance,
		rec.IMSI,
		rec.CallID,
		rec.MSISDN,
		rec.Direction,
		rec.State,
		rec.StartTime,
		rec.EndTime,
		rec.CallHold,
		kind == engine.CallInserted,
	)
	if err != nil {
		log.Printf("journal: insert failed for imsi=%s callID=%s: %v", rec.IMSI, rec.CallID, err)
	}
}
