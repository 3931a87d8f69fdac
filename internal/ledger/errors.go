package ledger

import "errors"

// Domain errors. Callers dispatch with errors.Is; operations wrap these with
// fmt.Errorf("...: %w", ...) to attach context.
var (
	// ErrValidation covers malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the account id is unknown to the store.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateAccount means an id collision on create or rename.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAuthentication means a credential or capability token mismatch.
	ErrAuthentication = errors.New("authentication failed")

	// ErrFrozenAccount means a balance mutation was attempted on a frozen account.
	ErrFrozenAccount = errors.New("account is frozen")

	// ErrInsufficientFunds means a withdrawal or transfer exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState means a freeze/unfreeze into the state already held.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrConcurrency means a bounded lock acquisition timed out.
	ErrConcurrency = errors.New("lock acquisition timed out")
)
