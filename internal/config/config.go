package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Prod            bool
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	AccessTTLMin    int
	OTPTTLMin       int
	RedisAddr       string
	RateLimitPerMin int
	AMQPURL         string

	SMTP  SMTPConfig
	AWS   AWSConfig
	OAuth OAuthConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether outbound mail is configured; otherwise OTPs are
// logged to the console instead of sent.
func (s SMTPConfig) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

type AWSConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Endpoint  string // optional, for MinIO-style deployments
}

func (a AWSConfig) Enabled() bool {
	return a.Bucket != ""
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	StateSecret        string
}

func (o OAuthConfig) Enabled() bool {
	return o.GoogleClientID != "" && o.GoogleClientSecret != ""
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		Prod:            getenv("APP_ENV", "dev") == "prod",
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB_NAME", "xplor"),
		JWTSecret:       getenv("SECRET_KEY", "your-secret-key-here"),
		AccessTTLMin:    atoi(getenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")),
		OTPTTLMin:       atoi(getenv("OTP_EXPIRE_MINUTES", "10")),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "5")),
		AMQPURL:         getenv("AMQP_URL", ""),
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_SERVER", "smtp.gmail.com"),
			Port:     atoi(getenv("SMTP_PORT", "587")),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM_EMAIL", "noreply@xplor.com"),
		},
		AWS: AWSConfig{
			AccessKey: getenv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getenv("AWS_SECRET_ACCESS_KEY", ""),
			Region:    getenv("AWS_REGION", "us-east-1"),
			Bucket:    getenv("S3_BUCKET_NAME", ""),
			Endpoint:  getenv("S3_ENDPOINT", ""),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURI:  getenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/google/callback"),
			StateSecret:        getenv("OAUTH_STATE_SECRET", "state-secret-change-me"),
		},
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
