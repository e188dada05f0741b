package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
)

// NewRepositories ata todos los repositorios a db (la base o una transacción en curso).
func NewRepositories(db *gorm.DB) ports.Repositories {
	return ports.Repositories{
		Requests:  NewRequestRepo(db),
		Quotes:    NewQuoteRepo(db),
		Jobs:      NewJobRepo(db),
		Invoices:  NewInvoiceRepo(db),
		Payments:  NewPaymentRepo(db),
		History:   NewHistoryRepo(db),
		Checks:    NewCheckRepo(db),
		Reference: NewReferenceRepo(db),
	}
}

// TxRunner implementa ports.TxRunner con transacciones de gorm.
type TxRunner struct {
	db *gorm.DB
}

var _ ports.TxRunner = (*TxRunner)(nil)

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx hace commit si fn devuelve nil; cualquier error o pánico deshace todo.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
