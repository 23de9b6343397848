package models

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/dimitrije/officehub/internal/store"
)

// Meta is the record metadata shared by every entity. It is filled from the
// record on read and never written into the record data.
type Meta struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

func (m *Meta) SetMeta(id string, version int64) {
	m.ID = id
	m.Version = version
}

type entity[T any] interface {
	*T
	SetMeta(id string, version int64)
}

// Decode unmarshals a record into an entity and attaches its key and version.
// An id or version stored inside the data is ignored; the record's own key and
// version win.
func Decode[T any, P entity[T]](rec store.Record) (T, error) {
	var v T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec.Data, &fields); err != nil {
		return v, fmt.Errorf("decode %s: %w", rec.Path, err)
	}
	delete(fields, "id")
	delete(fields, "version")
	data, err := json.Marshal(fields)
	if err != nil {
		return v, fmt.Errorf("decode %s: %w", rec.Path, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", rec.Path, err)
	}
	P(&v).SetMeta(rec.Key, rec.Version)
	return v, nil
}

// DecodeAll decodes a snapshot. Records that do not match the entity shape
// are logged and left out.
func DecodeAll[T any, P entity[T]](snap store.Snapshot) []T {
	out := make([]T, 0, len(snap.Records))
	for _, rec := range snap.Records {
		v, err := Decode[T, P](rec)
		if err != nil {
			log.Printf("Skipping undecodable record: %v", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
