package unitofwork

import (
	"context"

	"ai-writeassist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	BlockRepository() contract.BlockRepository
	ReferenceEntryRepository() contract.ReferenceEntryRepository
}
