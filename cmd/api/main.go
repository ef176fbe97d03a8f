package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-otp-api/internal/application/otp"
	"github.com/go-otp-api/internal/config"
	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/infrastructure/delivery"
	"github.com/go-otp-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-api/internal/infrastructure/jwt"
	"github.com/go-otp-api/internal/infrastructure/memstore"
	"github.com/go-otp-api/internal/infrastructure/redisstore"
	"github.com/go-otp-api/internal/infrastructure/smtp"
	"github.com/go-otp-api/internal/infrastructure/sns"
	"github.com/go-otp-api/internal/pkg/clock"
	transporthttp "github.com/go-otp-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	clk := clock.New()

	store := newStore(cfg, clk)

	// JWT provider is optional; keys missing means no verification tokens.
	var signer otp.TokenSigner
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		signer = p
	} else {
		log.Printf("WARN: verification-token provider not available: %v", err)
	}

	deps := &transporthttp.Deps{
		Store:   store,
		Senders: newSenders(cfg),
		Signer:  signer,
		Clock:   clk,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s store=%s mode=%s)", cfg.AppPort, cfg.AppEnv, cfg.OTPStore, cfg.OTPChannelMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// newStore selects the passcode store backend from OTP_STORE.
func newStore(cfg *config.Config, clk clock.Clocker) otp.PasscodeStore {
	switch cfg.OTPStore {
	case config.StoreRedis:
		store, err := redisstore.New(context.Background(), cfg, clk)
		if err != nil {
			log.Fatalf("redis store: %v", err)
		}
		return store
	case config.StoreDynamo:
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoTablePasscodes)
		return dynamo.NewPasscodeStore(client, cfg.DynamoTablePasscodes)
	default:
		store := memstore.New(clk)
		if cfg.OTPSweepInterval > 0 {
			store.StartSweeper(cfg.OTPSweepInterval)
		}
		return store
	}
}

// newSenders builds the per-channel delivery adapters from OTP_CHANNEL_MODE.
// console logs everything; smtp sends real email and logs phone codes;
// sns sends real email and real SMS.
func newSenders(cfg *config.Config) map[domain.Channel]delivery.Sender {
	senders := map[domain.Channel]delivery.Sender{
		domain.ChannelEmail: delivery.NewConsoleSender(string(domain.ChannelEmail)),
		domain.ChannelPhone: delivery.NewConsoleSender(string(domain.ChannelPhone)),
	}

	if cfg.OTPChannelMode == config.ChannelModeSMTP || cfg.OTPChannelMode == config.ChannelModeSNS {
		senders[domain.ChannelEmail] = delivery.NewEmailSender(smtp.NewMailer(cfg))
	}
	if cfg.OTPChannelMode == config.ChannelModeSNS {
		if smsSender, err := sns.NewSender(cfg); err == nil {
			senders[domain.ChannelPhone] = delivery.NewSMSSender(smsSender)
		} else {
			log.Printf("WARN: SNS sender not available, phone codes logged to console: %v", err)
		}
	}
	return senders
}
