package services

import "fmt"

// MissingKeyError reports a Lot entity that lacks its identity field. It is
// fatal to that one record only; the composer excludes the record and keeps
// going.
type MissingKeyError struct {
	Field string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("lot entity missing required field %q", e.Field)
}

// ConversionError reports a raw field value that could not be parsed as a
// number. Under the strict Lot policy it ends the run; under the lenient
// Product policy the caller logs it and skips the value.
type ConversionError struct {
	Field string
	Value any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert %v (%T) to number", e.Field, e.Value, e.Value)
}
