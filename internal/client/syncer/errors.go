package syncer

import (
	"errors"
	"fmt"
)

// ErrSessionChanged is returned to callers whose refresh was fetched for a
// session that has since signed in or out. Its result was discarded.
var ErrSessionChanged = errors.New("session changed during refresh")

// RefreshError reports a failed refresh of one resource. The mirrored
// collection keeps its previous snapshot.
type RefreshError struct {
	Resource Resource
	Err      error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %v", e.Resource, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
