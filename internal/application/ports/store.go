package ports

import (
	"context"

	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

// Repositories conjunto de repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Requests  repository.ServiceRequestRepository
	Quotes    repository.QuoteRepository
	Jobs      repository.JobRepository
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
	History   repository.StatusHistoryRepository
	Checks    repository.AssignmentCheckRepository
	Reference repository.ReferenceRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback y nada de lo escrito queda visible.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos Repositories) error) error
}
