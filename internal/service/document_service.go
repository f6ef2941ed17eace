package service

import (
	"context"
	"time"

	"ai-writeassist-be/internal/dto"
	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/repository/specification"
	"ai-writeassist-be/internal/repository/unitofwork"
	"ai-writeassist-be/pkg/events"
	pktNats "ai-writeassist-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllDocumentsResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	UpsertBlock(ctx context.Context, userId uuid.UUID, req *dto.UpsertBlockRequest) (*dto.UpsertBlockResponse, error)
	DeleteBlock(ctx context.Context, userId uuid.UUID, documentId, blockId uuid.UUID) error
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllDocumentsResponse, 0, len(documents))
	for _, doc := range documents {
		result = append(result, &dto.GetAllDocumentsResponse{
			Id:        doc.Id,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return result, nil
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "DOCUMENT_CREATED",
			Data: map[string]interface{}{
				"document_id": doc.Id,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		// Auxiliary; never fail the request over it.
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil // Not found
	}

	blocks, err := uow.BlockRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: doc.Id},
		specification.OrderBy{Field: "position"},
	)
	if err != nil {
		return nil, err
	}

	res := dto.ShowDocumentResponse{
		Id:        doc.Id,
		Title:     doc.Title,
		Blocks:    make([]dto.BlockDTO, 0, len(blocks)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, b := range blocks {
		res.Blocks = append(res.Blocks, dto.BlockDTO{
			Id:       b.Id,
			Text:     b.Text,
			Position: b.Position,
		})
	}
	return &res, nil
}

func (s *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	now := time.Now()
	doc.Title = req.Title
	doc.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}
	return &dto.UpdateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	// Delete document, blocks and ledger entries together.
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	blocks, err := uow.BlockRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: id})
	if err != nil {
		uow.Rollback()
		return err
	}
	for _, b := range blocks {
		if err := uow.BlockRepository().Delete(ctx, b.Id); err != nil {
			uow.Rollback()
			return err
		}
	}

	entries, err := uow.ReferenceEntryRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: id})
	if err != nil {
		uow.Rollback()
		return err
	}
	for _, e := range entries {
		if err := uow.ReferenceEntryRepository().Delete(ctx, e.Id); err != nil {
			uow.Rollback()
			return err
		}
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *documentService) UpsertBlock(ctx context.Context, userId uuid.UUID, req *dto.UpsertBlockRequest) (*dto.UpsertBlockResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.DocumentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	if req.Id != uuid.Nil {
		block, err := uow.BlockRepository().FindOne(ctx,
			specification.ByID{ID: req.Id},
			specification.ByDocumentID{DocumentID: req.DocumentId},
		)
		if err != nil {
			return nil, err
		}
		if block != nil {
			now := time.Now()
			block.Text = req.Text
			block.Position = req.Position
			block.UpdatedAt = &now
			if err := uow.BlockRepository().Update(ctx, block); err != nil {
				return nil, err
			}
			return &dto.UpsertBlockResponse{Id: block.Id}, nil
		}
	}

	block := entity.Block{
		Id:         uuid.New(),
		DocumentId: req.DocumentId,
		Position:   req.Position,
		Text:       req.Text,
		CreatedAt:  time.Now(),
	}
	if req.Id != uuid.Nil {
		block.Id = req.Id // client-generated block ids are kept
	}
	if err := uow.BlockRepository().Create(ctx, &block); err != nil {
		return nil, err
	}
	return &dto.UpsertBlockResponse{Id: block.Id}, nil
}

func (s *documentService) DeleteBlock(ctx context.Context, userId uuid.UUID, documentId, blockId uuid.UUID) error {
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
	return uow.BlockRepository().Delete(ctx, blockId)
}
