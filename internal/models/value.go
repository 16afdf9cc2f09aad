package models

import (
	"bytes"
	"encoding/json"

	"github.com/platformbuilds/evitalab-core/internal/errs"
)

// Value distinguishes a known value from a field the connected server's
// protocol generation does not provide. Values are immutable once built.
type Value[T any] struct {
	value     T
	supported bool
}

// Of wraps a supported value.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, supported: true}
}

// NotSupported returns a value marked as unsupported by the driver.
func NotSupported[T any]() Value[T] {
	return Value[T]{}
}

func (v Value[T]) IsSupported() bool {
	return v.supported
}

// Get returns the value or an UnsupportedValueAccess error.
func (v Value[T]) Get() (T, error) {
	if !v.supported {
		var zero T
		return zero, errs.UnsupportedValueAccess()
	}
	return v.value, nil
}

// GetOrElse never fails.
func (v Value[T]) GetOrElse(fallback T) T {
	if !v.supported {
		return fallback
	}
	return v.value
}

// GetIfSupported is the comma-ok form of Get.
func (v Value[T]) GetIfSupported() (T, bool) {
	return v.value, v.supported
}

// MapValue transforms a supported value and keeps unsupported ones unsupported.
func MapValue[T, R any](v Value[T], f func(T) R) Value[R] {
	if !v.supported {
		return NotSupported[R]()
	}
	return Of(f(v.value))
}

type valueJSON[T any] struct {
	Supported bool `json:"supported"`
	Value     *T   `json:"value,omitempty"`
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.supported {
		return []byte(`{"supported":false}`), nil
	}
	val := v.value
	return json.Marshal(valueJSON[T]{Supported: true, Value: &val})
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = NotSupported[T]()
		return nil
	}
	var raw valueJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Supported {
		*v = NotSupported[T]()
		return nil
	}
	var val T
	if raw.Value != nil {
		val = *raw.Value
	}
	*v = Of(val)
	return nil
}
