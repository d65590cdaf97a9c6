package trade

import "errors"

var (
	// ErrNotFound covers both a missing transaction and a requester with no
	// relationship to it; the two are deliberately indistinguishable so the
	// API does not leak existence information.
	ErrNotFound = errors.New("transaction not found")

	// ErrForbidden means the requester is authenticated but not authorized
	// for this specific action.
	ErrForbidden = errors.New("action not allowed for this user")

	// ErrInvalidState means the action is not applicable to the entity's
	// current state, including the loser of a write race.
	ErrInvalidState = errors.New("action not applicable in current state")

	// ErrUpstream means the payment gateway failed or timed out. Status
	// checks degrade to the last known local state instead of returning it.
	ErrUpstream = errors.New("payment gateway unavailable")
)
