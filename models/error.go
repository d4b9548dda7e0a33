package models

import (
	"errors"
	"fmt"
)

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

var (
	// ErrNotFound is returned when a record does not exist in a store
	ErrNotFound = errors.New("not found")
	// ErrInvalidPhaseTransition is returned when a state change is attempted from a phase that does not permit it
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
	// ErrAmbulanceUnavailable is returned when the dispatch target cannot take a mission
	ErrAmbulanceUnavailable = errors.New("ambulance unavailable")
	// ErrTriageAnalysisFailed is returned when the external classifier fails or answers garbage
	ErrTriageAnalysisFailed = errors.New("triage analysis failed")
	// ErrVisibilityViolation is returned when an actor touches an entity outside their scope
	ErrVisibilityViolation = errors.New("visibility violation")
	// ErrValidation is returned when a request body fails field validation
	ErrValidation = errors.New("validation failed")
	// ErrIncidentClosed is returned for any mutation of a closed incident. It is a kind of
	// ErrInvalidPhaseTransition.
	ErrIncidentClosed = fmt.Errorf("%w: incident closed", ErrInvalidPhaseTransition)
)

// TransitionError describes a rejected lifecycle transition.
type TransitionError struct {
	IncidentID string
	Operation  string
	From       Phase
	Err        error
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.IncidentID, e.Err)
	}
	return fmt.Sprintf("%s %s from phase %q: %v", e.Operation, e.IncidentID, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// TriageError keeps the scenario text so the operator can retry without retyping it.
type TriageError struct {
	Scenario string
	Err      error
}

func (e *TriageError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTriageAnalysisFailed, e.Err)
}

func (e *TriageError) Unwrap() []error { return []error{ErrTriageAnalysisFailed, e.Err} }
