package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-api/internal/application/otp"
	"github.com/go-otp-api/internal/config"
	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/infrastructure/delivery"
	"github.com/go-otp-api/internal/pkg/clock"
	"github.com/go-otp-api/internal/pkg/codegen"
	"github.com/go-otp-api/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Store   otp.PasscodeStore
	Senders map[domain.Channel]delivery.Sender
	Signer  otp.TokenSigner // nil disables verification tokens
	Clock   clock.Clocker
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Both OTP endpoints share one limiter: 5 req/s per client, burst of 10.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:           deps.Store,
		Senders:         deps.Senders,
		Generator:       codegen.New(cfg.OTPLength),
		Clock:           deps.Clock,
		Signer:          deps.Signer,
		TTL:             cfg.OTPTTL,
		MaxAttempts:     cfg.OTPMaxAttempts,
		ResendCooldown:  cfg.OTPResendCooldown,
		DeliveryTimeout: cfg.OTPDeliveryTimeout,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)

	r.Get("/health-check/{action}", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/otp", otpH.Issue)
	r.With(sensitiveRL.Limit).Put("/otp", otpH.Verify)

	return r
}
