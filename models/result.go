package models

import "encoding/json"

// Discriminator values used by the backend in the "type" field.
const (
	ResultTypeSuccess = "success"
	ResultTypeError   = "error"
)

// Envelope is the raw {type, msg, data} shape every PQR endpoint answers with.
type Envelope struct {
	Type string          `json:"type"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Result is the decoded form of an Envelope: either Ok with a value or Err with the
// backend message. Callers never look at the "type" string themselves.
type Result[T any] struct {
	ok    bool
	value T
	msg   string
}

// Ok wraps a successful value.
func Ok[T any](value T, msg string) Result[T] {
	return Result[T]{ok: true, value: value, msg: msg}
}

// Err wraps a backend-reported failure.
func Err[T any](msg string) Result[T] {
	return Result[T]{msg: msg}
}

func (r Result[T]) IsOk() bool      { return r.ok }
func (r Result[T]) Value() T        { return r.value }
func (r Result[T]) Message() string { return r.msg }

// DecodeResult turns an envelope into a Result. Only "success" is Ok; any other
// discriminator is treated as an error. A success whose data does not decode into T
// is returned as an error.
func DecodeResult[T any](env Envelope) (Result[T], error) {
	if env.Type != ResultTypeSuccess {
		return Err[T](env.Msg), nil
	}
	var value T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &value); err != nil {
			return Result[T]{}, err
		}
	}
	return Ok(value, env.Msg), nil
}

// Empty is the payload of endpoints that only answer {type, msg}.
type Empty struct{}
