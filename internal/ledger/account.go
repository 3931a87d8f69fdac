// Package ledger implements the in-memory account ledger: account entities
// with append-only audit trails, the keyed account store, and the service
// that orchestrates authenticated operations against them.
//
// Balances are int64 minor units (cents). Every balance or status mutation
// happens inside the owning account's critical section; the lock is a
// one-permit weighted semaphore so acquisition is bounded by the caller's
// context and times out with ErrConcurrency instead of hanging.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusFrozen Status = "FROZEN"
)

// AccountSummary is the read-only projection handed to callers. It never
// carries the credential digest.
type AccountSummary struct {
	ID      string `json:"id"`
	Balance int64  `json:"balance"`
	Status  Status `json:"status"`
}

// CredentialVerifier checks a presented secret against a stored digest.
type CredentialVerifier interface {
	Verify(secret, digest string) bool
}

// RenameAuthorizer validates the out-of-band capability token that authorizes
// a holder identity change.
type RenameAuthorizer interface {
	AuthorizeRename(currentID, token string) error
}

// Account is a single ledger account. All fields except credential are
// guarded by sem; credential is immutable after construction.
type Account struct {
	sem        *semaphore.Weighted
	id         string
	balance    int64
	credential string // digest; empty means legacy no-auth account
	status     Status
	history    auditLog
	sink       Sink
}

func newAccount(id string, initialDeposit int64, credentialDigest string, sink Sink) *Account {
	a := &Account{
		sem:        semaphore.NewWeighted(1),
		id:         id,
		balance:    initialDeposit,
		credential: credentialDigest,
		status:     StatusActive,
		sink:       sink,
	}
	a.record(newEvent(EventCreated, id, initialDeposit, nil))
	return a
}

func (a *Account) acquire(ctx context.Context) error {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("account %s: %w", a.id, ErrConcurrency)
	}
	return nil
}

func (a *Account) release() {
	a.sem.Release(1)
}

// record appends to the account history and forwards the event to the audit
// sink. Caller holds the account lock (or is the constructor).
func (a *Account) record(e Event) {
	a.history.append(e)
	if a.sink != nil {
		a.sink.Record(e)
	}
}

// Authenticate reports whether the presented secret matches the stored
// credential digest. Accounts without a credential accept any secret.
// The plaintext secret is never stored or logged.
func (a *Account) Authenticate(gate CredentialVerifier, secret string) bool {
	if a.credential == "" {
		return true
	}
	return gate.Verify(secret, a.credential)
}

// Deposit credits the account and returns the new balance.
func (a *Account) Deposit(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deposit amount must be positive: %w", ErrValidation)
	}
	if err := a.acquire(ctx); err != nil {
		return 0, err
	}
	defer a.release()

	if a.status == StatusFrozen {
		return 0, fmt.Errorf("deposit to %s: %w", a.id, ErrFrozenAccount)
	}
	a.balance += amount
	a.record(newEvent(EventDeposit, a.id, amount, nil))
	return a.balance, nil
}

// Withdraw debits the account and returns the new balance. The balance never
// goes negative.
func (a *Account) Withdraw(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("withdrawal amount must be positive: %w", ErrValidation)
	}
	if err := a.acquire(ctx); err != nil {
		return 0, err
	}
	defer a.release()

	if a.status == StatusFrozen {
		return 0, fmt.Errorf("withdrawal from %s: %w", a.id, ErrFrozenAccount)
	}
	if amount > a.balance {
		return 0, fmt.Errorf("withdrawal of %d exceeds balance %d: %w", amount, a.balance, ErrInsufficientFunds)
	}
	a.balance -= amount
	a.record(newEvent(EventWithdraw, a.id, amount, nil))
	return a.balance, nil
}

// Freeze blocks balance mutations. Freezing a frozen account is an error.
func (a *Account) Freeze(ctx context.Context) error {
	if err := a.acquire(ctx); err != nil {
		return err
	}
	defer a.release()

	if a.status == StatusFrozen {
		return fmt.Errorf("account %s is already frozen: %w", a.id, ErrInvalidState)
	}
	a.status = StatusFrozen
	a.record(newEvent(EventStatusChanged, a.id, 0, map[string]string{"status": string(StatusFrozen)}))
	return nil
}

// Unfreeze re-enables balance mutations. Unfreezing an active account is an
// error.
func (a *Account) Unfreeze(ctx context.Context) error {
	if err := a.acquire(ctx); err != nil {
		return err
	}
	defer a.release()

	if a.status == StatusActive {
		return fmt.Errorf("account %s is already active: %w", a.id, ErrInvalidState)
	}
	a.status = StatusActive
	a.record(newEvent(EventStatusChanged, a.id, 0, map[string]string{"status": string(StatusActive)}))
	return nil
}

// RenameIdentity changes the holder id after the capability token checks out.
// Store re-keying is the store's job; use AccountStore.Rename as the entry
// point so the map key and the account id stay in sync.
func (a *Account) RenameIdentity(ctx context.Context, newID, token string, auth RenameAuthorizer) error {
	if strings.TrimSpace(newID) == "" {
		return fmt.Errorf("new holder id must not be empty: %w", ErrValidation)
	}
	if err := a.acquire(ctx); err != nil {
		return err
	}
	defer a.release()

	if err := auth.AuthorizeRename(a.id, token); err != nil {
		return fmt.Errorf("rename of %s rejected: %w", a.id, ErrAuthentication)
	}
	old := a.id
	a.id = newID
	a.record(newEvent(EventRenamed, newID, 0, map[string]string{"old": old, "new": newID}))
	return nil
}

// Summary returns the read-only projection of the account.
func (a *Account) Summary(ctx context.Context) (AccountSummary, error) {
	if err := a.acquire(ctx); err != nil {
		return AccountSummary{}, err
	}
	defer a.release()
	return AccountSummary{ID: a.id, Balance: a.balance, Status: a.status}, nil
}

// History returns a copy of the account's audit trail.
func (a *Account) History(ctx context.Context) ([]Event, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.release()
	return a.history.snapshot(), nil
}
