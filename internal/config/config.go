package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backend names accepted in OTP_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreDynamo = "dynamo"
)

// Channel modes accepted in OTP_CHANNEL_MODE.
// console logs every code; smtp sends email for real and logs phone codes;
// sns sends email via SMTP and phone via AWS SNS.
const (
	ChannelModeConsole = "console"
	ChannelModeSMTP    = "smtp"
	ChannelModeSNS     = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	OTPLength          int
	OTPTTL             time.Duration
	OTPMaxAttempts     int
	OTPResendCooldown  time.Duration // 0 disables the cooldown
	OTPSweepInterval   time.Duration // 0 disables the background sweep
	OTPDeliveryTimeout time.Duration
	OTPChannelMode     string
	OTPStore           string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion            string
	AWSEndpointURL       string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID       string
	AWSSecretKey         string
	DynamoTablePasscodes string
	SNSRegion            string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		OTPLength:          getEnvInt("OTP_LENGTH", 6),
		OTPTTL:             getEnvSeconds("OTP_TTL_SECONDS", 300),
		OTPMaxAttempts:     getEnvInt("OTP_MAX_ATTEMPTS", 3),
		OTPResendCooldown:  getEnvSeconds("OTP_RESEND_COOLDOWN_SECONDS", 0),
		OTPSweepInterval:   getEnvSeconds("OTP_SWEEP_INTERVAL_SECONDS", 0),
		OTPDeliveryTimeout: getEnvSeconds("OTP_DELIVERY_TIMEOUT_SECONDS", 5),
		OTPChannelMode:     getEnv("OTP_CHANNEL_MODE", ChannelModeConsole),
		OTPStore:           getEnv("OTP_STORE", StoreMemory),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:       getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTablePasscodes: getEnv("DYNAMO_TABLE_PASSCODES", "passcodes"),
		SNSRegion:            getEnv("SNS_REGION", "us-east-1"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 10)) * time.Minute,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
