package service

import (
	"context"
	"sort"
	"strings"

	"ai-writeassist-be/internal/dto"
	"ai-writeassist-be/internal/repository/specification"
	"ai-writeassist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReferenceService interface {
	GetLedger(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.GetLedgerResponse, error)
	DeleteEntry(ctx context.Context, userId uuid.UUID, documentId, entryId uuid.UUID) error
}

type referenceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReferenceService(uowFactory unitofwork.RepositoryFactory) IReferenceService {
	return &referenceService{
		uowFactory: uowFactory,
	}
}

func (s *referenceService) GetLedger(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.GetLedgerResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	entries, err := uow.ReferenceEntryRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: documentId},
	)
	if err != nil {
		return nil, err
	}

	res := dto.GetLedgerResponse{
		DocumentId: documentId,
		Entries:    make([]dto.ReferenceEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		entry := dto.ReferenceEntryDTO{
			Id:        e.Id,
			Title:     e.Title,
			Authors:   e.Authors,
			Year:      e.Year,
			CreatedAt: e.CreatedAt,
		}
		if e.Doi != nil {
			entry.DOI = *e.Doi
		}
		if e.Url != nil {
			entry.URL = *e.Url
		}
		res.Entries = append(res.Entries, entry)
	}

	// Ledger order is alphabetical by first-author surname. Entries without
	// authors sort after everything else, by title.
	sort.SliceStable(res.Entries, func(i, j int) bool {
		a, b := surnameKey(res.Entries[i]), surnameKey(res.Entries[j])
		if a != b {
			return a < b
		}
		return res.Entries[i].Title < res.Entries[j].Title
	})

	return &res, nil
}

func (s *referenceService) DeleteEntry(ctx context.Context, userId uuid.UUID, documentId, entryId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	return uow.ReferenceEntryRepository().Delete(ctx, entryId)
}

func surnameKey(e dto.ReferenceEntryDTO) string {
	if len(e.Authors) == 0 {
		return "￿" // sorts last
	}
	fields := strings.Fields(e.Authors[0])
	if len(fields) == 0 {
		return "￿"
	}
	return strings.ToLower(fields[len(fields)-1])
}
