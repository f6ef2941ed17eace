package unitofwork

import "context"

// RepositoryFactory hands out fresh units of work for transactional flows.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
