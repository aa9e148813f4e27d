// Package wire defines the msgpack messages of serialized IR modules.
//
// Every polymorphic message carries an explicit case field selecting the
// populated payload; Dispatch methods route a message to a visitor and
// report unset or unknown cases as *CaseError.
package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is stored in every module header. Bump it when a message
// layout changes.
const FormatVersion uint32 = 1

// Marshal encodes a message. Map keys are sorted so equal messages encode
// to equal bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a message, rejecting fields the message does not define
// and trailing bytes.
func Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("wire: %d trailing bytes", r.Len())
	}
	return nil
}

// ErrUnsetCase matches CaseErrors for messages without a case.
var ErrUnsetCase = errors.New("wire: case not set")

// ErrUnknownCase matches CaseErrors for cases this build does not know.
var ErrUnknownCase = errors.New("wire: unknown case")

// ErrMissingPayload matches CaseErrors for a case whose payload is absent.
var ErrMissingPayload = errors.New("wire: payload missing")

// CaseError reports a union message that cannot be dispatched.
type CaseError struct {
	Union  string
	Case   uint8
	Reason error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("%s: %v (case %d)", e.Union, e.Reason, e.Case)
}

func (e *CaseError) Unwrap() error { return e.Reason }

func unset(union string) error {
	return &CaseError{Union: union, Reason: ErrUnsetCase}
}

func unknown(union string, c uint8) error {
	return &CaseError{Union: union, Case: c, Reason: ErrUnknownCase}
}

func missing(union string, c uint8) error {
	return &CaseError{Union: union, Case: c, Reason: ErrMissingPayload}
}
