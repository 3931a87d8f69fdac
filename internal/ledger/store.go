package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// AccountStore is the keyed collection of live accounts. The store mutex
// guards the key space (create, delete, rename re-keying); balance and status
// mutations take the per-account lock instead so independent accounts do not
// contend. Lock order is store before account, never the reverse.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	sink     Sink
}

func NewAccountStore(sink Sink) *AccountStore {
	return &AccountStore{
		accounts: make(map[string]*Account),
		sink:     sink,
	}
}

// Create inserts a new active account. The credential digest may be empty
// for legacy no-auth accounts.
func (s *AccountStore) Create(id string, initialDeposit int64, credentialDigest string) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("holder id must not be empty: %w", ErrValidation)
	}
	if initialDeposit < 0 {
		return nil, fmt.Errorf("initial deposit must not be negative: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; ok {
		return nil, fmt.Errorf("create %s: %w", id, ErrDuplicateAccount)
	}
	a := newAccount(id, initialDeposit, credentialDigest, s.sink)
	s.accounts[id] = a
	return a, nil
}

// Get resolves an account by holder id.
func (s *AccountStore) Get(id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// Delete removes an account irrevocably. A final Deleted event reaches the
// audit sink; the per-account history is discarded with the account.
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if err := a.markDeleted(ctx); err != nil {
		return err
	}
	delete(s.accounts, id)
	return nil
}

// List returns a snapshot slice of all live accounts in unspecified order.
// Callers sort if they need a stable order.
func (s *AccountStore) List() []*Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out
}

// Rename re-keys an account under a new holder id, delegating token
// verification and the id change to the account itself. The store lock is
// held across the whole operation so no concurrent create or rename can
// claim either id mid-flight; a collision leaves both accounts unchanged.
func (s *AccountStore) Rename(ctx context.Context, id, newID, token string, auth RenameAuthorizer) error {
	if strings.TrimSpace(newID) == "" {
		return fmt.Errorf("new holder id must not be empty: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("rename %s: %w", id, ErrNotFound)
	}
	if _, taken := s.accounts[newID]; taken {
		return fmt.Errorf("rename %s to %s: %w", id, newID, ErrDuplicateAccount)
	}
	if err := a.RenameIdentity(ctx, newID, token, auth); err != nil {
		return err
	}
	delete(s.accounts, id)
	s.accounts[newID] = a
	return nil
}

// markDeleted records the terminal audit event under the account lock.
func (a *Account) markDeleted(ctx context.Context) error {
	if err := a.acquire(ctx); err != nil {
		return err
	}
	defer a.release()
	a.record(newEvent(EventDeleted, a.id, a.balance, nil))
	return nil
}
