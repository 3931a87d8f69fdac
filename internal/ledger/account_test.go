package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainGate struct{}

func (plainGate) Hash(secret string) string { return "digest:" + secret }

func (plainGate) Verify(secret, digest string) bool { return digest == "digest:"+secret }

type stubRenamer struct {
	token string
}

func (r stubRenamer) AuthorizeRename(currentID, token string) error {
	if token != r.token {
		return errors.New("token mismatch")
	}
	return nil
}

func TestAccount_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("increases balance and appends event", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		balance, err := a.Deposit(ctx, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(150), balance)

		events, err := a.History(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, EventCreated, events[0].Kind)
		assert.Equal(t, EventDeposit, events[1].Kind)
		assert.Equal(t, int64(50), events[1].Amount)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		_, err := a.Deposit(ctx, 0)
		assert.ErrorIs(t, err, ErrValidation)

		_, err = a.Deposit(ctx, -5)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects deposits while frozen", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		require.NoError(t, a.Freeze(ctx))

		_, err := a.Deposit(ctx, 10)
		assert.ErrorIs(t, err, ErrFrozenAccount)

		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), sum.Balance)
	})
}

func TestAccount_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("decreases balance", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		balance, err := a.Withdraw(ctx, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(60), balance)
	})

	t.Run("withdrawing the full balance leaves zero", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		balance, err := a.Withdraw(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		_, err := a.Withdraw(ctx, 101)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), sum.Balance)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		_, err := a.Withdraw(ctx, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects withdrawals while frozen", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		require.NoError(t, a.Freeze(ctx))

		_, err := a.Withdraw(ctx, 10)
		assert.ErrorIs(t, err, ErrFrozenAccount)
	})
}

func TestAccount_FreezeUnfreeze(t *testing.T) {
	ctx := context.Background()

	t.Run("freeze then unfreeze round-trips", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		require.NoError(t, a.Freeze(ctx))
		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusFrozen, sum.Status)

		require.NoError(t, a.Unfreeze(ctx))
		sum, err = a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, sum.Status)
	})

	t.Run("freezing a frozen account fails", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		require.NoError(t, a.Freeze(ctx))

		assert.ErrorIs(t, a.Freeze(ctx), ErrInvalidState)
	})

	t.Run("unfreezing an active account fails", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		assert.ErrorIs(t, a.Unfreeze(ctx), ErrInvalidState)
	})

	t.Run("frozen accounts still answer queries", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		require.NoError(t, a.Freeze(ctx))

		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), sum.Balance)

		events, err := a.History(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, events)
	})
}

func TestAccount_RenameIdentity(t *testing.T) {
	ctx := context.Background()
	auth := stubRenamer{token: "ok-token"}

	t.Run("valid token renames and records old and new", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)

		require.NoError(t, a.RenameIdentity(ctx, "Alicia", "ok-token", auth))

		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", sum.ID)

		events, err := a.History(ctx)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, EventRenamed, last.Kind)
		assert.Equal(t, "Alice", last.Detail["old"])
		assert.Equal(t, "Alicia", last.Detail["new"])
	})

	t.Run("empty new id", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		assert.ErrorIs(t, a.RenameIdentity(ctx, "  ", "ok-token", auth), ErrValidation)
	})

	t.Run("bad token", func(t *testing.T) {
		a := newAccount("Alice", 100, "", nil)
		assert.ErrorIs(t, a.RenameIdentity(ctx, "Alicia", "wrong", auth), ErrAuthentication)

		sum, err := a.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Alice", sum.ID)
	})
}

func TestAccount_Authenticate(t *testing.T) {
	gate := plainGate{}

	t.Run("matching secret", func(t *testing.T) {
		a := newAccount("Alice", 0, gate.Hash("hunter2"), nil)
		assert.True(t, a.Authenticate(gate, "hunter2"))
	})

	t.Run("wrong secret", func(t *testing.T) {
		a := newAccount("Alice", 0, gate.Hash("hunter2"), nil)
		assert.False(t, a.Authenticate(gate, "hunter3"))
	})

	t.Run("legacy account without credential accepts anything", func(t *testing.T) {
		a := newAccount("Alice", 0, "", nil)
		assert.True(t, a.Authenticate(gate, ""))
		assert.True(t, a.Authenticate(gate, "whatever"))
	})
}

func TestAccount_HistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	a := newAccount("Alice", 100, "", nil)

	events, err := a.History(ctx)
	require.NoError(t, err)
	events[0].Kind = "TAMPERED"

	fresh, err := a.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, EventCreated, fresh[0].Kind)
}
