package main

import (
	"net/http"

	muxHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mvrilo/go-redoc"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harshaaa-5/aivy-1/config"
	"github.com/harshaaa-5/aivy-1/internal/auth"
	"github.com/harshaaa-5/aivy-1/internal/db"
	"github.com/harshaaa-5/aivy-1/internal/handlers"
	"github.com/harshaaa-5/aivy-1/internal/middlewares"
	"github.com/harshaaa-5/aivy-1/internal/realtime"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/internal/services"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

func main() {
	// Load config and init systems
	cfg := config.LoadConfig()
	log.InitLogger()

	// API Docs
	doc := &redoc.Redoc{
		Title:       "Aivy API",
		Description: "Learning platform: subjects, questions, study sessions, groups & realtime presence",
		SpecFile:    "./docs/openapi.json",
		SpecPath:    "/swagger/doc.json",
		DocsPath:    "/docs",
	}

	// DB init
	conn, err := db.InitDB(cfg)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("database init failed")
	}

	// Router & CORS
	r := mux.NewRouter()
	cors := muxHandlers.CORS(
		muxHandlers.AllowedOrigins(cfg.CORSOrigins),
		muxHandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		muxHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		muxHandlers.AllowCredentials(),
	)

	// Repos & services
	userRepo := repository.NewUserRepository(conn)
	subjectRepo := repository.NewSubjectRepository(conn)
	questionRepo := repository.NewQuestionRepository(conn)
	sessionRepo := repository.NewSessionRepository(conn)
	groupRepo := repository.NewGroupRepository(conn)
	aiSvc := services.NewAIService()

	// Realtime hub: presence/rooms owned by the hub, last-seen persisted
	// through the user repo, idle eviction only when configured.
	hubOpts := []realtime.Option{realtime.WithStatusStore(userRepo)}
	if cfg.IdleTimeout > 0 {
		hubOpts = append(hubOpts, realtime.WithIdleTimeout(cfg.IdleTimeout))
	}
	hub := realtime.NewHub(hubOpts...)
	defer hub.Close()

	groupSvc := services.NewGroupService(groupRepo, hub)
	verifier := auth.NewHMACVerifier([]byte(cfg.JWTSecret))

	// Health & docs
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc(doc.SpecPath, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, doc.SpecFile)
	}).Methods("GET")
	r.Handle(doc.DocsPath, doc.Handler()).Methods("GET")

	// Middlewares
	userAuth := middlewares.JWTAuthMiddleware([]byte(cfg.JWTSecret))
	limiter := middlewares.NewRateLimiter(240)
	r.Use(middlewares.PrometheusMetricsMiddleware)
	r.Use(limiter.Middleware)

	// ==== AUTH ====
	r.Handle("/api/v1/auth/signup", handlers.SignupHandler(userRepo, cfg)).Methods("POST")
	r.Handle("/api/v1/auth/login", handlers.LoginHandler(userRepo, cfg)).Methods("POST")
	r.Handle("/api/v1/auth/refresh", handlers.RefreshHandler(userRepo, cfg)).Methods("POST")
	r.Handle("/api/v1/auth/me", userAuth(handlers.MeHandler(userRepo))).Methods("GET")

	// ==== USERS ====
	r.Handle("/api/v1/users/leaderboard", userAuth(handlers.LeaderboardHandler(userRepo))).Methods("GET")
	r.Handle("/api/v1/users/profile", userAuth(handlers.UpdateProfileHandler(userRepo))).Methods("PUT")
	r.Handle("/api/v1/users/{id}", userAuth(handlers.GetUserHandler(userRepo))).Methods("GET")

	// ==== SUBJECTS ====
	r.Handle("/api/v1/subjects", userAuth(handlers.ListSubjectsHandler(subjectRepo))).Methods("GET")
	r.Handle("/api/v1/subjects", userAuth(handlers.CreateSubjectHandler(subjectRepo))).Methods("POST")
	r.Handle("/api/v1/subjects/{id}", userAuth(handlers.GetSubjectHandler(subjectRepo))).Methods("GET")
	r.Handle("/api/v1/subjects/{id}", userAuth(handlers.UpdateSubjectHandler(subjectRepo))).Methods("PUT")
	r.Handle("/api/v1/subjects/{id}", userAuth(handlers.DeleteSubjectHandler(subjectRepo))).Methods("DELETE")

	// ==== QUESTIONS ====
	r.Handle("/api/v1/questions", userAuth(handlers.ListQuestionsHandler(questionRepo))).Methods("GET")
	r.Handle("/api/v1/questions", userAuth(handlers.CreateQuestionHandler(questionRepo))).Methods("POST")
	r.Handle("/api/v1/questions/{id}", userAuth(handlers.GetQuestionHandler(questionRepo))).Methods("GET")

	// ==== STUDY SESSIONS ====
	r.Handle("/api/v1/sessions", userAuth(handlers.StartSessionHandler(sessionRepo))).Methods("POST")
	r.Handle("/api/v1/sessions", userAuth(handlers.ListSessionsHandler(sessionRepo))).Methods("GET")
	r.Handle("/api/v1/sessions/{id}/progress", userAuth(handlers.SessionProgressHandler(sessionRepo))).Methods("PUT")
	r.Handle("/api/v1/sessions/{id}/complete", userAuth(handlers.CompleteSessionHandler(sessionRepo))).Methods("POST")

	// ==== STUDY GROUPS ====
	r.Handle("/api/v1/groups", userAuth(handlers.ListGroupsHandler(groupRepo))).Methods("GET")
	r.Handle("/api/v1/groups", userAuth(handlers.CreateGroupHandler(groupSvc))).Methods("POST")
	r.Handle("/api/v1/groups/{id}", userAuth(handlers.GetGroupHandler(groupRepo))).Methods("GET")
	r.Handle("/api/v1/groups/{id}/join", userAuth(handlers.JoinGroupHandler(groupSvc))).Methods("POST")
	r.Handle("/api/v1/groups/{id}/leave", userAuth(handlers.LeaveGroupHandler(groupSvc))).Methods("POST")
	r.Handle("/api/v1/groups/{id}/messages", userAuth(handlers.ListGroupMessagesHandler(groupSvc))).Methods("GET")
	r.Handle("/api/v1/groups/{id}/messages", userAuth(handlers.PostGroupMessageHandler(groupSvc))).Methods("POST")

	// ==== AI (mocked) ====
	r.Handle("/api/v1/ai/questions", userAuth(handlers.AIGenerateQuestionsHandler(aiSvc, subjectRepo, questionRepo))).Methods("POST")
	r.Handle("/api/v1/ai/explain", userAuth(handlers.AIExplainHandler(aiSvc))).Methods("POST")
	r.Handle("/api/v1/ai/study-plan", userAuth(handlers.AIStudyPlanHandler(aiSvc))).Methods("POST")

	// ==== REALTIME ====
	// Gate + relay; the token travels in the handshake, not as an event.
	r.HandleFunc("/ws", realtime.Handler(hub, verifier))

	r.Handle("/metrics", promhttp.Handler())

	// ==== START SERVER ====
	handler := cors(r)
	log.Logger.Info().Msgf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Logger.Fatal().Err(err).Msg("server failed")
	}
}
