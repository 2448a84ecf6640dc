package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string `mapstructure:"REFRESH_TOKEN_COOKIE_PATH"`
	RefreshTokenSecret         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Ledger arithmetic
	TaxRate           decimal.Decimal // VAT fraction applied to interest, e.g. 0.21
	SettleTolerance   decimal.Decimal // One minimal ledger unit by default
	ResidualThreshold decimal.Decimal // Residuals at or below this are sweepable
	DueDay            int             // Day of month the first due date defaults to

	// Portfolio trading
	HousePartnerID         string // Partner that owns originated installments
	OwnerResetOnRepurchase bool   // Buying back moves ownership to the house partner

	// Background jobs
	SweepCronSpec        string
	ReconcileCronSpec    string
	ReconcileConcurrency int

	// Event publication
	KafkaBrokers []string // Empty disables publishing
	KafkaTopic   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "credit-ledger")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("TAX_RATE", "0.21")
	viper.SetDefault("SETTLE_TOLERANCE", "0.000001")
	viper.SetDefault("RESIDUAL_THRESHOLD", "0.01")
	viper.SetDefault("DUE_DAY", 28)
	viper.SetDefault("HOUSE_PARTNER_ID", "")
	viper.SetDefault("OWNER_RESET_ON_REPURCHASE", true)
	viper.SetDefault("SWEEP_CRON", "0 3 * * *")
	viper.SetDefault("RECONCILE_CRON", "30 3 * * *")
	viper.SetDefault("RECONCILE_CONCURRENCY", 4)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "creditledger.events")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	refreshTokenExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshTokenExpiryDuration, err := time.ParseDuration(refreshTokenExpiryStr)
	if err != nil {
		refreshTokenExpiryDuration = time.Hour * 24 * 7
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshTokenExpiryStr, refreshTokenExpiryDuration.String())
	}
	cfg.RefreshTokenExpiryDuration = refreshTokenExpiryDuration
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")
	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "default_insecure_refresh_secret_please_change_this_!@#$" {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	cfg.TaxRate = parseDecimal("TAX_RATE", "0.21")
	cfg.SettleTolerance = parseDecimal("SETTLE_TOLERANCE", "0.000001")
	cfg.ResidualThreshold = parseDecimal("RESIDUAL_THRESHOLD", "0.01")

	cfg.DueDay = viper.GetInt("DUE_DAY")
	if cfg.DueDay < 1 || cfg.DueDay > 28 {
		log.Printf("Warning: DUE_DAY %d outside 1..28. Defaulting to 28.\n", cfg.DueDay)
		cfg.DueDay = 28
	}

	cfg.HousePartnerID = viper.GetString("HOUSE_PARTNER_ID")
	if cfg.HousePartnerID == "" {
		log.Println("Warning: HOUSE_PARTNER_ID not set. Origination will fail until a house partner is configured.")
	}
	cfg.OwnerResetOnRepurchase = viper.GetBool("OWNER_RESET_ON_REPURCHASE")

	cfg.SweepCronSpec = viper.GetString("SWEEP_CRON")
	cfg.ReconcileCronSpec = viper.GetString("RECONCILE_CRON")
	cfg.ReconcileConcurrency = viper.GetInt("RECONCILE_CONCURRENCY")
	if cfg.ReconcileConcurrency < 1 {
		cfg.ReconcileConcurrency = 1
	}

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	return cfg, nil
}

// parseDecimal reads a decimal config value, falling back to the given
// default when the value does not parse.
func parseDecimal(key, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}
