package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-writeassist-be/internal/dto"
	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/repository/specification"
	"ai-writeassist-be/internal/repository/unitofwork"
	"ai-writeassist-be/pkg/events"
	pktNats "ai-writeassist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// CommandDelivery pushes editor commands to a user's connected editors.
// Implemented by the WebSocket Hub.
type CommandDelivery interface {
	SendCommand(userID uuid.UUID, cmd dto.EditorCommand)
}

// consumerService persists accepted citations. The engine upserts into the
// connection's in-memory ledger synchronously; durable storage happens here,
// off the accept path.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	delivery       CommandDelivery
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	delivery CommandDelivery,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		delivery:       delivery,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.LedgerUpsertMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ledger upsert: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[WARN] Ledger upsert for missing document %s, dropping", payload.DocumentId)
		msg.Ack() // Document deleted meanwhile? Ack.
		return
	}

	// (title, year) is the identity of an entry within a document. The unique
	// index backs this up against concurrent consumers.
	existing, err := uow.ReferenceEntryRepository().FindOne(ctx,
		specification.ByDocumentID{DocumentID: payload.DocumentId},
		specification.ByTitleYear{Title: payload.Title, Year: payload.Year},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to check ledger for %q (%d): %v", payload.Title, payload.Year, err)
		msg.Nack()
		return
	}
	if existing != nil {
		msg.Ack() // already present, upsert is a no-op
		return
	}

	entry := entity.ReferenceEntry{
		Id:         uuid.New(),
		DocumentId: payload.DocumentId,
		Title:      payload.Title,
		Authors:    payload.Authors,
		Year:       payload.Year,
		CreatedAt:  time.Now(),
	}
	if payload.DOI != "" {
		entry.Doi = &payload.DOI
	}
	if payload.URL != "" {
		entry.Url = &payload.URL
	}

	if err := uow.ReferenceEntryRepository().Create(ctx, &entry); err != nil {
		log.Printf("[ERROR] Failed to persist ledger entry %q: %v", payload.Title, err)
		msg.Nack()
		return
	}

	// Other open editors of the same user see the new entry immediately; the
	// originating connection already rendered it, its upsert is a no-op.
	if cs.delivery != nil {
		cs.delivery.SendCommand(payload.UserId, dto.EditorCommand{
			Type: dto.EditorCommandLedgerUpsert,
			Citation: &dto.CitationPayload{
				Title:   payload.Title,
				Authors: payload.Authors,
				Year:    payload.Year,
				DOI:     payload.DOI,
				URL:     payload.URL,
			},
		})
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "REFERENCE_ADDED",
			Data: map[string]interface{}{
				"document_id": payload.DocumentId,
				"user_id":     payload.UserId,
				"title":       payload.Title,
				"year":        payload.Year,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish REFERENCE_ADDED event: %v", err)
		}
	}

	msg.Ack()
}
