package domain

import (
	"encoding/json"
	"errors"
)

// ParseRawRecord decodes a JSON asteroid record. Decoding failures are
// reported as InvalidField naming the offending field, or "body" when the
// payload is not a JSON object at all.
func ParseRawRecord(data []byte) (RawRecord, error) {
	var rec RawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return RawRecord{}, decodeError(err)
	}
	return rec, nil
}

func decodeError(err error) *DomainError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return ErrInvalidField(typeErr.Field)
	}
	return ErrInvalidField("body")
}
