package prompt

import "github.com/vcscsvcscs/vitals-tracker/pkg/model"

// DefaultHistorySize is the number of snapshots kept for trend prompts
const DefaultHistorySize = 5

// History is a bounded trailing window of fetched snapshots, oldest first.
// It is not safe for concurrent use; the owning session serializes access.
type History struct {
	size    int
	records []model.VitalRecord
}

// NewHistory creates a history keeping at most size snapshots.
// Non-positive sizes use DefaultHistorySize.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, records: make([]model.VitalRecord, 0, size)}
}

// Push appends a snapshot, evicting the oldest when full
func (h *History) Push(r model.VitalRecord) {
	if len(h.records) == h.size {
		copy(h.records, h.records[1:])
		h.records = h.records[:h.size-1]
	}
	h.records = append(h.records, r)
}

// Records returns a copy of the snapshots, oldest first
func (h *History) Records() []model.VitalRecord {
	out := make([]model.VitalRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len is the number of stored snapshots
func (h *History) Len() int {
	return len(h.records)
}

// Size is the capacity
func (h *History) Size() int {
	return h.size
}

// Reset drops every snapshot
func (h *History) Reset() {
	h.records = h.records[:0]
}
