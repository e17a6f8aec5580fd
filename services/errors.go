package services

import "errors"

// Input errors surfaced to callers. Conflict outcomes (duplicate probe,
// already-marked-today) are not errors; they are reported through result
// values so callers can branch without inspecting error text.
var (
	ErrSessionNotFound  = errors.New("attendance session not found")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrDuplicateSession = errors.New("session already exists for this class, subject and date")
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// Extractor outcomes; both are the caller's input being rejected
	ErrNoFaceDetected = errors.New("no face detected in image")
	ErrDecodeFailed   = errors.New("failed to decode image")
)
