package consumer

import "time"

// ReindexRequest asks an indexer to rebuild from the corpus.
type ReindexRequest struct {
	RequestID   string    `json:"request_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// IndexComplete announces that a rebuild finished. Error is set when the
// rebuild failed and no new index was saved.
type IndexComplete struct {
	RequestID         string    `json:"request_id"`
	Generation        int64     `json:"generation"`
	Documents         int       `json:"documents"`
	Terms             int       `json:"terms"`
	PositionalEntries int       `json:"positional_entries"`
	BuiltAt           time.Time `json:"built_at"`
	Error             string    `json:"error,omitempty"`
}
