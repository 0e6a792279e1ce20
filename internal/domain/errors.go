package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes the crawler branches on.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMetadataUnavailable
	KindTooSmall
	KindNetworkTransient
	KindNetworkFatal
	KindCommentExpansion
)

func (k ErrorKind) String() string {
	switch k {
	case KindMetadataUnavailable:
		return "metadata_unavailable"
	case KindTooSmall:
		return "too_small"
	case KindNetworkTransient:
		return "network_transient"
	case KindNetworkFatal:
		return "network_fatal"
	case KindCommentExpansion:
		return "comment_expansion"
	default:
		return "unknown"
	}
}

// Retryable reports whether an operation failing with this kind may be
// attempted again.
func (k ErrorKind) Retryable() bool {
	return k == KindNetworkTransient
}

// FetchError is returned by collectors for every failed API call.
type FetchError struct {
	Kind   ErrorKind
	Op     string
	Target string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Target, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with a kind.
func NewFetchError(kind ErrorKind, op, target string, err error) *FetchError {
	return &FetchError{Kind: kind, Op: op, Target: target, Err: err}
}

// KindOf extracts the ErrorKind carried by err. Errors that were never
// classified are KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
