package services

import "fmt"

// ValidationError indicates missing or invalid input. Surfaced before any
// store call is made.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StateError indicates a transition was attempted from a state that does
// not permit it. No partial mutation is applied.
type StateError struct {
	Code    string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// BalanceError indicates delivery was attempted while the order still has
// a pending balance.
type BalanceError struct {
	Code    string
	Message string
}

func (e *BalanceError) Error() string {
	return e.Message
}

// StoreError wraps a rejected store call. The triggering action is
// abandoned and never retried automatically.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
