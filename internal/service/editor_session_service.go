package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-writeassist-be/internal/dto"
	"ai-writeassist-be/internal/pkg/logger"
	"ai-writeassist-be/internal/repository/memory"
	"ai-writeassist-be/internal/repository/specification"
	"ai-writeassist-be/internal/repository/unitofwork"
	"ai-writeassist-be/internal/websocket"
	pktNats "ai-writeassist-be/pkg/nats"
	"ai-writeassist-be/pkg/store"
	"ai-writeassist-be/pkg/suggest"

	"github.com/google/uuid"
)

// EditorSessionService owns the live editing sessions. Each websocket
// connection gets its own suggestion engine plus a shadow copy of the
// document the engine reads from; editor events update the shadow first and
// are then forwarded to the engine.
type EditorSessionService struct {
	cfg              suggest.Config
	sessions         *memory.SessionRepository
	uowFactory       unitofwork.RepositoryFactory
	completions      suggest.CompletionFetcher
	citations        suggest.CitationFetcher
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger

	hosts sync.Map // session id -> *connHost
}

func NewEditorSessionService(
	cfg suggest.Config,
	sessions *memory.SessionRepository,
	uowFactory unitofwork.RepositoryFactory,
	completions suggest.CompletionFetcher,
	citations suggest.CitationFetcher,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) *EditorSessionService {
	return &EditorSessionService{
		cfg:              cfg,
		sessions:         sessions,
		uowFactory:       uowFactory,
		completions:      completions,
		citations:        citations,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

var _ websocket.EventHandler = (*EditorSessionService)(nil)

func (s *EditorSessionService) HandleConnect(c *websocket.Client, documentID uuid.UUID) error {
	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentID},
		specification.UserOwnedBy{UserID: c.UserID},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", documentID)
	}

	blocks, err := uow.BlockRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: documentID},
		specification.OrderBy{Field: "position"},
	)
	if err != nil {
		return err
	}

	host := &connHost{
		client:     c,
		userID:     c.UserID,
		documentID: documentID,
		service:    s,
	}
	for _, b := range blocks {
		host.blocks = append(host.blocks, blockState{id: b.Id, text: b.Text})
	}

	var sink suggest.EventSink
	if s.eventPublisher != nil {
		sink = s.eventPublisher
	}
	engineLog := log.New(log.Writer(), fmt.Sprintf("[suggest %s] ", c.SessionID[:8]), log.LstdFlags)
	engine := suggest.NewEngine(s.cfg, host, s.completions, s.citations, sink, engineLog)

	runCtx, cancel := context.WithCancel(context.Background())
	go engine.Run(runCtx)

	host.engine = engine
	s.hosts.Store(c.SessionID, host)
	s.sessions.Save(&store.Session{
		ID:         c.SessionID,
		UserID:     c.UserID.String(),
		DocumentID: documentID.String(),
		Engine:     engine,
		Cancel:     cancel,
	})

	s.logger.Info("EditorSession", "Session started", map[string]interface{}{
		"session_id":  c.SessionID,
		"document_id": documentID,
		"blocks":      len(blocks),
	})
	return nil
}

func (s *EditorSessionService) HandleEditorEvent(c *websocket.Client, event dto.EditorEvent) {
	sess, ok := s.sessions.Get(c.SessionID)
	if !ok {
		return
	}
	hostAny, ok := s.hosts.Load(c.SessionID)
	if !ok {
		return
	}
	host := hostAny.(*connHost)

	switch event.Type {
	case dto.EditorEventContentChanged:
		host.observeContent(event.BlockId, event.Text, event.CursorOffset)
		sess.Engine.ContentChanged(event.BlockId, event.Text, event.CursorOffset)
	case dto.EditorEventKeyDown:
		sess.Engine.KeyDown(event.Key)
	case dto.EditorEventSelectionChanged:
		host.observeSelection(event.BlockId, event.CursorOffset)
		sess.Engine.SelectionChanged(event.BlockId, event.CursorOffset)
	case dto.EditorEventBlur:
		host.observeBlur()
		sess.Engine.Blur()
	default:
		// Unknown event types are ignored for forward compatibility.
	}
}

func (s *EditorSessionService) HandleDisconnect(c *websocket.Client) {
	if sess, ok := s.sessions.Get(c.SessionID); ok {
		if sess.Cancel != nil {
			sess.Cancel()
		}
		s.sessions.Delete(c.SessionID)
	}
	s.hosts.Delete(c.SessionID)
	s.logger.Info("EditorSession", "Session closed", map[string]interface{}{"session_id": c.SessionID})
}

type blockState struct {
	id   uuid.UUID
	text string
}

// connHost is the engine's view of one remote editor. The engine goroutine
// reads it while the websocket read goroutine updates it, hence the mutex.
type connHost struct {
	mu         sync.Mutex
	blocks     []blockState
	focusedID  uuid.UUID
	focused    bool
	cursor     int
	overlaySeq int

	client     *websocket.Client
	userID     uuid.UUID
	documentID uuid.UUID
	engine     *suggest.Engine
	service    *EditorSessionService
}

func (h *connHost) observeContent(blockID uuid.UUID, text string, cursorOffset int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focusedID = blockID
	h.focused = true
	h.cursor = cursorOffset

	for i := range h.blocks {
		if h.blocks[i].id == blockID {
			h.blocks[i].text = text
			return
		}
	}
	// First sight of a client-created block; it joins at the end.
	h.blocks = append(h.blocks, blockState{id: blockID, text: text})
}

func (h *connHost) observeSelection(blockID uuid.UUID, cursorOffset int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focusedID = blockID
	h.focused = true
	h.cursor = cursorOffset
}

func (h *connHost) observeBlur() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focused = false
}

var _ suggest.HostEditor = (*connHost)(nil)

func (h *connHost) GetFocusedBlock() (suggest.FocusedBlock, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.focused {
		return suggest.FocusedBlock{}, false
	}
	for _, b := range h.blocks {
		if b.id == h.focusedID {
			return suggest.FocusedBlock{
				ID:          b.id,
				Text:        b.text,
				CursorAtEnd: h.cursor >= len(b.text),
			}, true
		}
	}
	return suggest.FocusedBlock{}, false
}

func (h *connHost) PrecedingBlocks(blockID uuid.UUID, n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := -1
	for i, b := range h.blocks {
		if b.id == blockID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}
	start := idx - n
	if start < 0 {
		start = 0
	}
	texts := make([]string, 0, idx-start)
	for _, b := range h.blocks[start:idx] {
		texts = append(texts, b.text)
	}
	return texts
}

func (h *connHost) ReplaceBlockContent(blockID uuid.UUID, text string) {
	h.mu.Lock()
	for i := range h.blocks {
		if h.blocks[i].id == blockID {
			h.blocks[i].text = text
			break
		}
	}
	h.mu.Unlock()

	h.client.WriteCommand(dto.EditorCommand{
		Type:    dto.EditorCommandReplaceBlock,
		BlockId: blockID,
		Text:    text,
	})

	// Persist off the engine goroutine; the shadow copy and the client are
	// already consistent.
	go h.persistBlock(blockID, text)
}

func (h *connHost) persistBlock(blockID uuid.UUID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	uow := h.service.uowFactory.NewUnitOfWork(ctx)
	block, err := uow.BlockRepository().FindOne(ctx,
		specification.ByID{ID: blockID},
		specification.ByDocumentID{DocumentID: h.documentID},
	)
	if err != nil || block == nil {
		h.service.logger.Warn("EditorSession", "Block persist skipped", map[string]interface{}{
			"block_id": blockID, "error": fmt.Sprint(err),
		})
		return
	}
	now := time.Now()
	block.Text = text
	block.UpdatedAt = &now
	if err := uow.BlockRepository().Update(ctx, block); err != nil {
		h.service.logger.Error("EditorSession", "Block persist failed", map[string]interface{}{
			"block_id": blockID, "error": err.Error(),
		})
	}
}

func (h *connHost) InsertOverlay(blockID uuid.UUID, rendered string) suggest.OverlayHandle {
	h.mu.Lock()
	h.overlaySeq++
	handle := suggest.OverlayHandle(fmt.Sprintf("%s/%d", blockID, h.overlaySeq))
	h.mu.Unlock()

	h.client.WriteCommand(dto.EditorCommand{
		Type:    dto.EditorCommandShowOverlay,
		BlockId: blockID,
		Handle:  string(handle),
		Text:    rendered,
	})
	return handle
}

func (h *connHost) RemoveOverlay(handle suggest.OverlayHandle) {
	h.client.WriteCommand(dto.EditorCommand{
		Type:   dto.EditorCommandRemoveOverlay,
		Handle: string(handle),
	})
}

func (h *connHost) UpsertReferenceLedgerEntry(citation suggest.Citation) {
	h.client.WriteCommand(dto.EditorCommand{
		Type: dto.EditorCommandLedgerUpsert,
		Citation: &dto.CitationPayload{
			Title:   citation.Title,
			Authors: citation.Authors,
			Year:    citation.Year,
			DOI:     citation.DOI,
			URL:     citation.URL,
		},
	})

	// Durable persistence happens asynchronously via the ledger topic.
	payload, err := json.Marshal(dto.LedgerUpsertMessage{
		DocumentId: h.documentID,
		UserId:     h.userID,
		Title:      citation.Title,
		Authors:    citation.Authors,
		Year:       citation.Year,
		DOI:        citation.DOI,
		URL:        citation.URL,
	})
	if err != nil {
		return
	}
	if err := h.service.publisherService.Publish(context.Background(), payload); err != nil {
		h.service.logger.Error("EditorSession", "Ledger publish failed", map[string]interface{}{
			"title": citation.Title, "error": err.Error(),
		})
	}
}

func (h *connHost) MoveCursorToEnd(blockID uuid.UUID) {
	h.mu.Lock()
	for _, b := range h.blocks {
		if b.id == blockID {
			h.cursor = len(b.text)
			break
		}
	}
	h.mu.Unlock()

	h.client.WriteCommand(dto.EditorCommand{
		Type:    dto.EditorCommandSetCursor,
		BlockId: blockID,
	})
}
