package contracts

import (
	"context"

	"github.com/XavierBriggs/Chronos/pkg/models"
)

// RowSink receives finished game sheets
type RowSink interface {
	// Name identifies the sink in logs
	Name() string

	// Begin is called once per run, before any game is written
	Begin(ctx context.Context, run models.Run) error

	// WriteGame exports one game's rows in ledger order
	WriteGame(ctx context.Context, sheet *models.GameSheet) error

	// Close flushes and releases the sink
	Close() error
}
