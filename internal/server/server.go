package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"flappy-game/internal/config"
	"flappy-game/internal/database"
	"flappy-game/internal/game"
	"flappy-game/internal/notification"
	"flappy-game/internal/security"
	"flappy-game/internal/session"
)

// GameServer wires the HTTP surface to the session manager, storage and the
// operator notification fan-out.
type GameServer struct {
	router        *gin.Engine
	db            *database.Database
	cfg           *config.Config
	sessions      *session.Manager
	notifications *notification.Manager
	log           *slog.Logger

	clients sync.Map // websocket leaderboard subscribers

	globalLimiter  *security.IPRateLimiter
	sessionLimiter *security.IPRateLimiter
	submitLimiter  *security.IPRateLimiter
}

func NewGameServer(db *database.Database, cfg *config.Config, notifications *notification.Manager, log *slog.Logger) *GameServer {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	policy := game.Policy{
		MinDuration:    cfg.Game.MinDuration,
		MaxEventGap:    cfg.Game.MaxEventGap,
		ScoreTolerance: cfg.Game.ScoreTolerance,
		ScoringEvents:  make(map[string]struct{}, len(cfg.Game.ScoringEvents)),
	}
	for _, t := range cfg.Game.ScoringEvents {
		policy.ScoringEvents[t] = struct{}{}
	}

	s := &GameServer{
		router:        gin.Default(),
		db:            db,
		cfg:           cfg,
		sessions:      session.NewManager(db, policy, cfg.Game.ClientVersion, log),
		notifications: notifications,
		log:           log,

		// 100 requests/15min globally, 5 session starts/min,
		// 10 submissions/5min, mirroring the public deployment.
		globalLimiter:  security.NewIPRateLimiter(rate.Every(15*time.Minute/100), 100),
		sessionLimiter: security.NewIPRateLimiter(rate.Every(time.Minute/5), 5),
		submitLimiter:  security.NewIPRateLimiter(rate.Every(5*time.Minute/10), 10),
	}

	s.setupRoutes()
	return s
}

func (s *GameServer) setupRoutes() {
	s.router.Use(s.securityMiddleware())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "message": "Server is running"})
	})

	s.router.GET("/ws/leaderboard", s.handleLeaderboardWS)

	api := s.router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.Register)
			auth.POST("/login", s.Login)

			authed := auth.Group("")
			authed.Use(s.AuthMiddleware())
			{
				authed.GET("/profile", s.GetProfile)
				authed.GET("/share-link", s.GetShareLink)
				authed.GET("/referrals", s.GetReferrals)
			}
		}

		scores := api.Group("/scores")
		{
			scores.GET("", s.GetLeaderboard)

			authed := scores.Group("")
			authed.Use(s.AuthMiddleware())
			{
				authed.POST("/start-session", s.rateLimit(s.sessionLimiter, "Too many game sessions created, please try again later"), s.StartSession)
				authed.POST("/record-event/:sessionId", s.RecordEvent)
				authed.POST("/submit", s.rateLimit(s.submitLimiter, "Too many score submissions, please try again later"), s.SubmitScore)
				authed.GET("/personal", s.GetPersonalScores)
			}
		}

		payment := api.Group("/payment")
		payment.Use(s.AuthMiddleware())
		{
			payment.POST("/initiate", s.InitiatePayment)
			payment.POST("/verify", s.VerifyPayment)
			payment.GET("/status", s.GetPaymentStatus)

			admin := payment.Group("/admin")
			admin.Use(s.AdminMiddleware())
			{
				admin.GET("/payments", s.AdminListPayments)
				admin.GET("/payments/:paymentId", s.AdminGetPayment)
				admin.PATCH("/payments/:paymentId", s.AdminUpdatePayment)
				admin.GET("/statistics", s.AdminPaymentStats)
				admin.GET("/expired-payments", s.AdminExpiredPayments)
				admin.GET("/notifications", s.AdminNotifications)
				admin.PATCH("/notifications/:id", s.AdminMarkNotificationRead)
			}
		}
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *GameServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
