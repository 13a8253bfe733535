package domain

import (
	"context"
	"errors"
)

// ErrNeoNotFound is returned by a NeoLookup when the catalogue has no object
// with the requested id.
var ErrNeoNotFound = errors.New("neo not found")

// NeoLookup fetches near-Earth object documents from an upstream catalogue.
type NeoLookup interface {
	// LookupNeo returns the object with the given NeoWs id.
	LookupNeo(ctx context.Context, id string) (NeoWsObject, error)
}
