package application

import "errors"

var (
	// ErrLocalCache marks a failure of the local route cache.
	ErrLocalCache = errors.New("local route cache")
	// ErrRemoteSync marks a failure to reach or update the remote route store.
	// The local cache is left as the caller last wrote it.
	ErrRemoteSync = errors.New("remote sync failed")
)
