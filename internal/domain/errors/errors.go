package errors

import "errors"

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDecode           = errors.New("decode error")
	ErrWriteRejected    = errors.New("write rejected")
	ErrNotFound         = errors.New("not found")
	ErrInvalidPatch     = errors.New("invalid patch")
	ErrInvalidQuery     = errors.New("invalid query")
)
