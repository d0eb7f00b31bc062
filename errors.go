package cacheables

import "errors"

var (
	// ErrCacheMiss indicates a manual load found no record for the input id.
	ErrCacheMiss = errors.New("cacheables: cache miss")

	// ErrFilteredOutput indicates a loaded output was rejected by the
	// active filter while the function runs in ErrorOnReject mode.
	ErrFilteredOutput = errors.New("cacheables: cached output rejected by filter")
)
