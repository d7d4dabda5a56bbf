package util

import "errors"

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrPageOutOfBounds  = errors.New("page out of bounds")
	ErrInvalidPoolSize  = errors.New("invalid pool size")
)
