package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lunaryss/tarot-ai/internal/api/handler"
	custommiddleware "github.com/lunaryss/tarot-ai/internal/api/middleware"
	"github.com/lunaryss/tarot-ai/internal/config"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/game"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/lunaryss/tarot-ai/internal/llm/gemini"
	"github.com/lunaryss/tarot-ai/internal/llm/ollama"
	"github.com/lunaryss/tarot-ai/internal/llm/openai"
	"github.com/lunaryss/tarot-ai/internal/repository/redis"
	"github.com/lunaryss/tarot-ai/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. redisClient may be
// nil, which disables rate limiting and reading caching.
func NewRouter(cfg *config.Config, store domain.Store, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize LLM router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing text generators. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(
			cfg.LLM.OpenAI.APIKey,
			cfg.LLM.OpenAI.BaseURL,
			cfg.LLM.OpenAI.Model,
			cfg.LLM.RequestTimeout,
		))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(
			cfg.LLM.Ollama.Host,
			cfg.LLM.Ollama.DefaultModel,
			cfg.LLM.RequestTimeout,
		))
	}

	// Optional redis-backed components
	var (
		readingCache service.ReadingCache
		rateLimit    *custommiddleware.RateLimitMiddleware
	)
	if redisClient != nil {
		readingCache = redis.NewReadingCache(redisClient)
		rateLimit = custommiddleware.NewRateLimitMiddleware(redis.NewRateLimiter(
			redisClient,
			cfg.Redis.RateLimit.RequestsPerMinute,
			cfg.Redis.RateLimit.Burst,
		))
	}

	// Initialize services
	settings := service.NewSettings(cfg)
	manager := game.NewManager(deck.NewRNG(), cfg.Game.ShuffleDelay)
	gameService := service.NewGameService(manager, llmRouter, store, readingCache, settings)
	chatService := service.NewChatService(store, llmRouter, manager, settings)
	historyService := service.NewHistoryService(store, settings)

	// Initialize handlers
	gameHandler := handler.NewGameHandler(gameService)
	chatHandler := handler.NewChatHandler(chatService)
	historyHandler := handler.NewHistoryHandler(historyService)
	settingsHandler := handler.NewSettingsHandler(settings, llmRouter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(store))

		// Static catalog
		r.Get("/cards", handler.ListCards)
		r.Get("/cards/{cardID}", handler.GetCard)
		r.Get("/spreads", handler.ListSpreads)
		r.Get("/spreads/{spreadID}", handler.GetSpread)

		// Providers and settings
		r.Get("/providers", settingsHandler.ListProviders)
		r.Get("/settings", settingsHandler.Get)
		r.Patch("/settings", settingsHandler.Update)

		// Game sessions
		r.Route("/game/sessions", func(r chi.Router) {
			r.Post("/", gameHandler.Start)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", gameHandler.Get)
				r.Post("/shuffle", gameHandler.Shuffle)
				r.Post("/cards/{positionID}", gameHandler.Draw)
				r.Delete("/cards/{positionID}", gameHandler.Remove)
				r.Post("/cards/{positionID}/cut", gameHandler.Cut)
				r.Post("/cards/{positionID}/reverse", gameHandler.Reverse)
				r.Post("/cards/{positionID}/reveal", gameHandler.Reveal)
				r.Post("/reveal-all", gameHandler.RevealAll)
				r.Post("/hide-all", gameHandler.HideAll)
				r.Post("/save", gameHandler.Save)
				r.Post("/load", gameHandler.Load)
				r.Delete("/", gameHandler.Reset)

				r.Group(func(r chi.Router) {
					if rateLimit != nil {
						r.Use(rateLimit.Limit)
					}
					r.Post("/reading", gameHandler.Reading)
				})
			})
		})

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", historyHandler.ListConversations)
			r.Post("/", chatHandler.Create)
			r.Post("/close", chatHandler.Close)

			r.Route("/{conversationID}", func(r chi.Router) {
				r.Post("/load", chatHandler.Load)
				r.Get("/messages", historyHandler.ConversationMessages)
				r.Delete("/", chatHandler.Delete)
			})

			r.Group(func(r chi.Router) {
				if rateLimit != nil {
					r.Use(rateLimit.Limit)
				}
				r.Post("/messages", chatHandler.Send)
			})
		})

		r.Delete("/messages/{messageID}", chatHandler.DeleteMessage)

		// History
		r.Route("/history", func(r chi.Router) {
			r.Get("/sessions", historyHandler.ListSessions)
			r.Get("/sessions/{sessionID}", historyHandler.GetSession)
			r.Get("/sessions/{sessionID}/conversations", historyHandler.SessionConversations)
			r.Delete("/sessions/{sessionID}", historyHandler.DeleteSession)
			r.Get("/conversations", historyHandler.ListConversations)
			r.Get("/search", historyHandler.Search)
			r.Get("/stats", historyHandler.Statistics)
			r.Get("/export", historyHandler.Export)
			r.Post("/import", historyHandler.Import)
			r.Delete("/", historyHandler.Clear)
		})
	})

	return r
}
