package store

import (
	"encoding/json"
	"time"
)

// record is the value layout used by key value backends
type record struct {
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"data"`
}

// EncodeRecord serializes the data and creation time of an entry
func EncodeRecord(e *Entry) ([]byte, error) {
	return json.Marshal(record{CreatedAt: e.CreatedAt.UTC(), Data: e.Data})
}

// DecodeRecord restores an entry written by EncodeRecord
func DecodeRecord(key string, raw []byte) (*Entry, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &Entry{Key: key, Data: r.Data, CreatedAt: r.CreatedAt}, nil
}
