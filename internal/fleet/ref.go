package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a relation that the API serves in two shapes: a bare id string, or
// the full embedded record (populated endpoints). Both unmarshal into the
// same value; ID resolves either shape.
type Ref[T Entity] struct {
	id     string
	record *T
}

// RefID creates a reference from a bare id.
func RefID[T Entity](id string) Ref[T] {
	return Ref[T]{id: id}
}

// RefTo creates a reference embedding the full record.
func RefTo[T Entity](record T) Ref[T] {
	return Ref[T]{record: &record}
}

// ID returns the referenced record's id, regardless of shape.
// Empty when the relation is unset.
func (r Ref[T]) ID() string {
	if r.record != nil {
		return (*r.record).EntityID()
	}
	return r.id
}

// Record returns the embedded record if this ref arrived populated.
func (r Ref[T]) Record() (T, bool) {
	if r.record != nil {
		return *r.record, true
	}
	var zero T
	return zero, false
}

// IsZero reports whether the relation is unset.
func (r Ref[T]) IsZero() bool {
	return r.record == nil && r.id == ""
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.record != nil {
		return json.Marshal(*r.record)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decoding reference id: %w", err)
		}
		*r = Ref[T]{id: id}
		return nil
	}
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("decoding embedded record: %w", err)
	}
	*r = Ref[T]{record: &record}
	return nil
}
