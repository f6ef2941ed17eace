package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-writeassist-be/internal/config"
	"ai-writeassist-be/internal/controller"
	"ai-writeassist-be/internal/handler"
	"ai-writeassist-be/internal/pkg/logger"
	"ai-writeassist-be/internal/repository/memory"
	"ai-writeassist-be/internal/repository/unitofwork"
	"ai-writeassist-be/internal/service"
	"ai-writeassist-be/internal/websocket"
	"ai-writeassist-be/pkg/citation"
	"ai-writeassist-be/pkg/completion"
	"ai-writeassist-be/pkg/suggest"

	pktNats "ai-writeassist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController  controller.IDocumentController
	ReferenceController controller.IReferenceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EditorHandler *handler.EditorHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var completionProvider completion.Provider
	if cfg.Ai.CompletionProvider == "ollama" {
		completionProvider = completion.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Completion Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		completionProvider = completion.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Completion Provider: GEMINI")
	}

	crossref := citation.NewCrossrefProvider()
	if cfg.Ai.CitationEndpoint != "" {
		crossref.Endpoint = cfg.Ai.CitationEndpoint
	}
	citationProvider := citation.NewCachedProvider(crossref)

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/editor.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.LedgerUpsertTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.LedgerUpsertTopic,
		uowFactory,
		natsPub,
		wsHub, // Hub implements CommandDelivery
	)

	suggestCfg := suggest.Config{
		QuietPeriod:     time.Duration(cfg.Suggest.QuietPeriodMS) * time.Millisecond,
		MinBlockLength:  cfg.Suggest.MinBlockLength,
		MinCharsBetween: cfg.Suggest.MinCharsBetween,
		ContextBlocks:   cfg.Suggest.ContextBlocks,
		AcceptKey:       cfg.Suggest.AcceptKey,
	}

	editorSessionService := service.NewEditorSessionService(
		suggestCfg,
		sessionRepo,
		uowFactory,
		&completionFetcher{provider: completionProvider},
		&citationFetcher{provider: citationProvider},
		publisherService,
		natsPub,
		sysLogger,
	)

	documentService := service.NewDocumentService(uowFactory, natsPub)
	referenceService := service.NewReferenceService(uowFactory)

	editorHandler := handler.NewEditorHandler(editorSessionService, wsHub, wsLogger)

	return &Container{
		DocumentController:  controller.NewDocumentController(documentService),
		ReferenceController: controller.NewReferenceController(referenceService),

		ConsumerService: consumerService,

		EditorHandler: editorHandler,
		WebSocketHub:  wsHub,
	}
}

// completionFetcher adapts a completion.Provider to the engine's contract.
type completionFetcher struct {
	provider completion.Provider
}

func (f *completionFetcher) FetchCompletion(ctx context.Context, text string) (suggest.CompletionResult, error) {
	res, err := f.provider.Complete(ctx, text)
	if err != nil {
		return suggest.CompletionResult{}, err
	}
	return suggest.CompletionResult{
		Completion: res.Completion,
		Keywords:   res.Keywords,
	}, nil
}

// citationFetcher adapts a citation.Provider to the engine's contract.
type citationFetcher struct {
	provider citation.Provider
}

func (f *citationFetcher) FetchCitation(ctx context.Context, keywords []string) (*suggest.Citation, error) {
	return f.provider.Lookup(ctx, keywords)
}
