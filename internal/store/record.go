package store

import (
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Record is a toast that has left the screen.
type Record struct {
	toast.Snapshot `yaml:",inline"`
	Reason         toast.RemoveReason `json:"reason" yaml:"reason"`
	RemovedAt      time.Time          `json:"removed_at" yaml:"removed_at"`
}

// NewRecord builds a record from a removal event.
func NewRecord(ev toast.Event) Record {
	return Record{
		Snapshot:  ev.Toast,
		Reason:    ev.Reason,
		RemovedAt: ev.At,
	}
}

// Shown returns how long the toast was attached.
func (r Record) Shown() time.Duration {
	return r.RemovedAt.Sub(r.CreatedAt)
}

// Snapshots returns the toast snapshots of records, in order.
func Snapshots(records []Record) []toast.Snapshot {
	out := make([]toast.Snapshot, len(records))
	for i, r := range records {
		out[i] = r.Snapshot
	}
	return out
}
