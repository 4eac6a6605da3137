package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/hearth/internal/ai"
	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/backup"
	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/handler"
	"github.com/hearthhq/hearth/internal/middleware"
	"github.com/hearthhq/hearth/internal/push"
	"github.com/hearthhq/hearth/internal/store"
	ws "github.com/hearthhq/hearth/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	issuer        *auth.TokenIssuer
	authH         *handler.AuthHandler
	todoH         *handler.TodoHandler
	userH         *handler.UserHandler
	prefsH        *handler.PreferencesHandler
	aiH           *handler.AIHandler
	pushH         *handler.PushHandler
	backupH       *handler.BackupHandler
	userStore     *store.UserStore
	todoStore     *store.TodoStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushService   *push.Service
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	householdStore := store.NewHouseholdStore(db)
	todoStore := store.NewTodoStore(db)
	prefsStore := store.NewPreferencesStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	aiService := ai.NewService(cfg.AI, logger)

	pushService := push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
	pushScheduler := push.NewScheduler(pushService, pushStore, todoStore, logger)

	// Backup status changes fan out to every connected client.
	backupManager := backup.NewManager(cfg.Backup, cfg.DBPath, db, backupStore, logger, func(status backup.Status) {
		hub.Broadcast(ws.NewEvent(ws.EventBackupStatus, status))
	})

	return &Server{
		db:            db,
		hub:           hub,
		issuer:        issuer,
		authH:         handler.NewAuthHandler(userStore, householdStore, issuer, logger.With("component", "auth")),
		todoH:         handler.NewTodoHandler(todoStore, hub, pushScheduler, logger.With("component", "todos")),
		userH:         handler.NewUserHandler(userStore, logger.With("component", "users")),
		prefsH:        handler.NewPreferencesHandler(prefsStore, logger.With("component", "preferences")),
		aiH:           handler.NewAIHandler(aiService, logger.With("component", "ai")),
		pushH:         handler.NewPushHandler(pushStore, pushService, logger.With("component", "push")),
		backupH:       handler.NewBackupHandler(backupManager, backupStore, logger.With("component", "backup")),
		userStore:     userStore,
		todoStore:     todoStore,
		pushStore:     pushStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupManager,
		pushService:   pushService,
		pushScheduler: pushScheduler,
		logger:        logger,
	}
}

// RateLimiter returns the server's rate limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// PushStore returns the push store for periodic cleanup of sent notifications.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// PushScheduler returns the scheduler that delivers due-todo reminders.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// BackupManager returns the manager that runs scheduled encrypted backups.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	// Public routes: auth, health, and the websocket endpoint, which
	// authenticates itself via a token query parameter.
	outerMux := http.NewServeMux()
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /api/health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.todoStore, s.issuer, s.logger.With("component", "websocket")))

	// Everything else under /api/ requires a valid bearer token.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.issuer, s.userStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Todos
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)

	// Household members and per-user preferences
	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("GET /api/user-preferences", s.prefsH.Get)
	mux.HandleFunc("POST /api/user-preferences", s.prefsH.Update)

	// AI prioritization and insights
	mux.HandleFunc("POST /api/ai/prioritize", s.aiH.Prioritize)
	mux.HandleFunc("POST /api/ai/insights", s.aiH.Insights)

	// Web push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// Backups, admin only
	mux.Handle("POST /api/backups/run", middleware.RequireAdmin(http.HandlerFunc(s.backupH.Run)))
	mux.Handle("GET /api/backups", middleware.RequireAdmin(http.HandlerFunc(s.backupH.List)))
	mux.Handle("GET /api/backups/{id}/download", middleware.RequireAdmin(http.HandlerFunc(s.backupH.Download)))
}

// rateLimitedHandler wraps a handler with per-IP rate limiting to slow
// down credential stuffing against the auth endpoints.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	limited := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)(h)
	return limited.ServeHTTP
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
