// Package audit is the human-facing subscriber to the ledger's domain
// events. The core only appends events; this sink renders each one as a
// single JSON line so operators can grep and ship the trail.
package audit

import (
	"encoding/json"
	"log"

	"github.com/ruralpay/teller/internal/ledger"
)

// Logger implements ledger.Sink by writing one AUDIT line per event.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Record(e ledger.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("AUDIT: unloggable event %s: %v", e.ID, err)
		return
	}
	log.Printf("AUDIT: %s", string(data))
}
