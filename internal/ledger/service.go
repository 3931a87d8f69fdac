package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CredentialGate hashes secrets into digests and verifies presented secrets
// against stored digests.
type CredentialGate interface {
	Hash(secret string) string
	Verify(secret, digest string) bool
}

// AdminVerifier authenticates the administrator. Implementations report a
// bare boolean so failures stay uniform: callers never learn whether the
// name or the secret was wrong.
type AdminVerifier interface {
	Verify(name, secret string) bool
}

const defaultLockTimeout = 5 * time.Second

// Service orchestrates authenticated operations against the store. Every
// mutation resolves the account, verifies the credential, then runs inside
// the account's critical section with a bounded lock window.
type Service struct {
	store       *AccountStore
	gate        CredentialGate
	admin       AdminVerifier
	renames     RenameAuthorizer
	validate    *validator.Validate
	lockTimeout time.Duration
}

func NewService(store *AccountStore, gate CredentialGate, admin AdminVerifier, renames RenameAuthorizer, lockTimeout time.Duration) *Service {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Service{
		store:       store,
		gate:        gate,
		admin:       admin,
		renames:     renames,
		validate:    validator.New(),
		lockTimeout: lockTimeout,
	}
}

// Store exposes the underlying account store.
func (s *Service) Store() *AccountStore {
	return s.store
}

func (s *Service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %v: %w", err, ErrValidation)
	}
	return nil
}

// opCtx bounds lock acquisition so no operation blocks indefinitely.
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.lockTimeout)
}

func (s *Service) authenticate(a *Account, secret string) error {
	if !a.Authenticate(s.gate, secret) {
		return fmt.Errorf("credential mismatch: %w", ErrAuthentication)
	}
	return nil
}

type CreateAccountRequest struct {
	ID             string `validate:"required"`
	InitialDeposit int64  `validate:"gte=0"`
	Secret         string `validate:"omitempty,min=4"`
}

// Create opens a new active account. An empty secret creates a legacy
// no-auth account; otherwise only the argon2 digest is retained.
func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (AccountSummary, error) {
	if err := s.check(req); err != nil {
		return AccountSummary{}, err
	}
	digest := ""
	if req.Secret != "" {
		digest = s.gate.Hash(req.Secret)
	}
	a, err := s.store.Create(req.ID, req.InitialDeposit, digest)
	if err != nil {
		return AccountSummary{}, err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Summary(octx)
}

// Login verifies a holder's credential. The shell collapses ErrNotFound and
// ErrAuthentication into one uniform message; the distinction stays available
// to callers that need it.
func (s *Service) Login(ctx context.Context, id, secret string) error {
	a, err := s.store.Get(id)
	if err != nil {
		return err
	}
	return s.authenticate(a, secret)
}

type DepositRequest struct {
	ID     string `validate:"required"`
	Secret string
	Amount int64  `validate:"gt=0"`
}

func (s *Service) Deposit(ctx context.Context, req DepositRequest) (int64, error) {
	if err := s.check(req); err != nil {
		return 0, err
	}
	a, err := s.store.Get(req.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authenticate(a, req.Secret); err != nil {
		return 0, err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Deposit(octx, req.Amount)
}

type WithdrawRequest struct {
	ID     string `validate:"required"`
	Secret string
	Amount int64  `validate:"gt=0"`
}

func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (int64, error) {
	if err := s.check(req); err != nil {
		return 0, err
	}
	a, err := s.store.Get(req.ID)
	if err != nil {
		return 0, err
	}
	if err := s.authenticate(a, req.Secret); err != nil {
		return 0, err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Withdraw(octx, req.Amount)
}

type TransferRequest struct {
	SourceID string `validate:"required"`
	Secret   string
	TargetID string `validate:"required"`
	Amount   int64  `validate:"gt=0"`
}

// Transfer moves funds between two accounts as one all-or-nothing operation.
// Both account locks are taken in lexicographic id order so concurrent
// opposite-direction transfers cannot deadlock; all validation happens with
// both locks held, before either balance changes.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) error {
	if err := s.check(req); err != nil {
		return err
	}
	if req.SourceID == req.TargetID {
		return fmt.Errorf("transfer to the same account: %w", ErrValidation)
	}

	src, err := s.store.Get(req.SourceID)
	if err != nil {
		return err
	}
	tgt, err := s.store.Get(req.TargetID)
	if err != nil {
		return err
	}

	// Transfers are authorized by the sender only.
	if err := s.authenticate(src, req.Secret); err != nil {
		return err
	}

	octx, cancel := s.opCtx(ctx)
	defer cancel()

	first, second := src, tgt
	if req.TargetID < req.SourceID {
		first, second = tgt, src
	}
	if err := first.acquire(octx); err != nil {
		return err
	}
	defer first.release()
	if err := second.acquire(octx); err != nil {
		return err
	}
	defer second.release()

	if src.status == StatusFrozen {
		return fmt.Errorf("source %s: %w", src.id, ErrFrozenAccount)
	}
	if tgt.status == StatusFrozen {
		return fmt.Errorf("target %s: %w", tgt.id, ErrFrozenAccount)
	}
	if req.Amount > src.balance {
		return fmt.Errorf("transfer of %d exceeds balance %d: %w", req.Amount, src.balance, ErrInsufficientFunds)
	}

	txID := uuid.NewString()
	src.balance -= req.Amount
	src.record(newEvent(EventTransferOut, src.id, req.Amount, map[string]string{
		"transaction_id": txID,
		"to":             tgt.id,
	}))
	tgt.balance += req.Amount
	tgt.record(newEvent(EventTransferIn, tgt.id, req.Amount, map[string]string{
		"transaction_id": txID,
		"from":           src.id,
	}))
	return nil
}

func (s *Service) Freeze(ctx context.Context, id string) error {
	a, err := s.store.Get(id)
	if err != nil {
		return err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Freeze(octx)
}

func (s *Service) Unfreeze(ctx context.Context, id string) error {
	a, err := s.store.Get(id)
	if err != nil {
		return err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Unfreeze(octx)
}

type RenameRequest struct {
	ID    string `validate:"required"`
	NewID string `validate:"required"`
	Token string `validate:"required"`
}

// Rename changes the holder identity and re-keys the store, authorized by a
// signed capability token rather than a shared literal.
func (s *Service) Rename(ctx context.Context, req RenameRequest) error {
	if err := s.check(req); err != nil {
		return err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.store.Rename(octx, req.ID, req.NewID, req.Token, s.renames)
}

// Delete removes an account. Administrative operation; the shell gates it
// behind an admin session.
func (s *Service) Delete(ctx context.Context, id string) error {
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.store.Delete(octx, id)
}

// AuthenticateAdmin verifies the administrator credential. The failure is
// uniform by construction; see AdminVerifier.
func (s *Service) AuthenticateAdmin(name, secret string) error {
	if !s.admin.Verify(name, secret) {
		return fmt.Errorf("admin access denied: %w", ErrAuthentication)
	}
	return nil
}

// Summary returns the holder's own account projection after verifying the
// credential.
func (s *Service) Summary(ctx context.Context, id, secret string) (AccountSummary, error) {
	a, err := s.store.Get(id)
	if err != nil {
		return AccountSummary{}, err
	}
	if err := s.authenticate(a, secret); err != nil {
		return AccountSummary{}, err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.Summary(octx)
}

// ListAll returns a snapshot of every account, sorted by holder id. Requires
// administrative authentication; never mutates.
func (s *Service) ListAll(ctx context.Context, adminName, adminSecret string) ([]AccountSummary, error) {
	if !s.admin.Verify(adminName, adminSecret) {
		return nil, fmt.Errorf("admin access denied: %w", ErrAuthentication)
	}

	octx, cancel := s.opCtx(ctx)
	defer cancel()

	accounts := s.store.List()
	out := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		sum, err := a.Summary(octx)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// History returns the audit trail of the holder's own account.
func (s *Service) History(ctx context.Context, id, secret string) ([]Event, error) {
	a, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.authenticate(a, secret); err != nil {
		return nil, err
	}
	octx, cancel := s.opCtx(ctx)
	defer cancel()
	return a.History(octx)
}
