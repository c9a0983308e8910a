package domain

import "errors"

// Sentinel errors for session operations. Services return these wrapped with
// context; the delivery layer maps them to HTTP status codes with errors.Is.
var (
	// ErrNotFound means the requested session or slot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput means a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRange means a time slot's end is not after its start.
	ErrInvalidRange = errors.New("end time must be after start time")
	// ErrAlreadyVoted means the user already has a vote on this exact slot.
	ErrAlreadyVoted = errors.New("already voted for this slot")
	// ErrNoFinalizedSlot means feedback was submitted before any slot was finalized.
	ErrNoFinalizedSlot = errors.New("session has no finalized slot")
	// ErrSessionNotEnded means feedback was submitted before the finalized slot ended.
	ErrSessionNotEnded = errors.New("session has not ended yet")
	// ErrDuplicateFeedback means the user already left feedback for this session.
	ErrDuplicateFeedback = errors.New("feedback already submitted")
	// ErrInvalidRating means a feedback rating is outside 1 through 5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
