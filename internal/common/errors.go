package common

import "errors"

// Error kinds shared by all pipeline stages. Stages wrap them with %w so
// callers can classify failures using errors.Is.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrParse        = errors.New("parse error")
	ErrConversion   = errors.New("conversion error")
	ErrIO           = errors.New("io error")
	ErrConfig       = errors.New("invalid configuration")
)
