package syncer

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const syncFailedCode = "SYNC_FAILED"

// SyncFailure reports a transport error during layout or content sync. The
// tree is left untouched; a later sync retries.
type SyncFailure struct {
	Path string
	Key  string
	Err  error
}

func (e *SyncFailure) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("syncer: store %s %s: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("syncer: store %s: %v", e.Path, e.Err)
}

func (e *SyncFailure) Unwrap() error { return e.Err }

func syncFailure(path, key string, err error) error {
	return goerrors.Wrap(&SyncFailure{Path: path, Key: key, Err: err}, goerrors.CategoryExternal, "sync failed").
		WithTextCode(syncFailedCode)
}
