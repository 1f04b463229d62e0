package dto

import (
	"bytes"
	"encoding/json"
)

// Optional carries an analysis block that the caller may not have asked for.
// Included=false means "not requested", which is not an error.
type Optional[T any] struct {
	Included bool
	Data     T
}

// Include wraps a computed analysis
func Include[T any](data T) Optional[T] {
	return Optional[T]{Included: true, Data: data}
}

// NotRequested returns the empty variant
func NotRequested[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the data and whether it was requested
func (o Optional[T]) Get() (T, bool) {
	return o.Data, o.Included
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Included {
		return []byte("null"), nil
	}
	return json.Marshal(o.Data)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Included = false
		o.Data = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Data); err != nil {
		return err
	}
	o.Included = true
	return nil
}
