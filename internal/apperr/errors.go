package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrArtifactMissing marks a compatibility fault: the file expected at
	// a canonical path does not exist, meaning the writer and resolver
	// disagree on the encoding.
	ErrArtifactMissing = errors.New("artifact missing at canonical path")

	// ErrArtifactMalformed marks a content fault: the file exists but its
	// payload does not decode.
	ErrArtifactMalformed = errors.New("artifact malformed")
)
