package ledger

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventCreated       EventKind = "CREATED"
	EventDeposit       EventKind = "DEPOSIT"
	EventWithdraw      EventKind = "WITHDRAW"
	EventTransferIn    EventKind = "TRANSFER_IN"
	EventTransferOut   EventKind = "TRANSFER_OUT"
	EventStatusChanged EventKind = "STATUS_CHANGED"
	EventRenamed       EventKind = "RENAMED"
	EventDeleted       EventKind = "DELETED"
)

// Event is one entry in an account's audit trail. Amount is in minor units
// and zero for non-monetary events.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      EventKind         `json:"kind"`
	AccountID string            `json:"account_id"`
	Amount    int64             `json:"amount,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

func newEvent(kind EventKind, accountID string, amount int64, detail map[string]string) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Kind:      kind,
		AccountID: accountID,
		Amount:    amount,
		Detail:    detail,
	}
}

// Sink receives every domain event as it is appended. Implementations must
// not block; the core calls them while holding the account lock.
type Sink interface {
	Record(Event)
}

// auditLog is the append-only history owned by an account. Entries are never
// edited or removed; concurrency is guarded by the owning account's lock.
type auditLog struct {
	events []Event
}

func (l *auditLog) append(e Event) {
	l.events = append(l.events, e)
}

// snapshot returns a copy so callers cannot mutate the trail.
func (l *auditLog) snapshot() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
