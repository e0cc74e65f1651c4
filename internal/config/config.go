package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the service.
type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"APP_PORT"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DSN      string `mapstructure:"DATABASE_DSN"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`
	RedisURL    string `mapstructure:"REDIS_URL"`

	CORSOrigins        string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	Shipping ShippingConfig `mapstructure:",squash"`
	Bank     BankConfig     `mapstructure:",squash"`
	VNPay    VNPayConfig    `mapstructure:",squash"`
	MoMo     MoMoConfig     `mapstructure:",squash"`

	SlotCapacity int `mapstructure:"SLOT_CAPACITY"`
}

// ShippingConfig holds the flat-rate shipping rule applied at checkout.
type ShippingConfig struct {
	Fee                   int64 `mapstructure:"SHIPPING_FEE"`
	FreeShippingThreshold int64 `mapstructure:"FREE_SHIPPING_THRESHOLD"`
}

// BankConfig is the receiving account for QR bank transfers.
type BankConfig struct {
	BankID         string `mapstructure:"BANK_ID"`
	BankName       string `mapstructure:"BANK_NAME"`
	AccountNo      string `mapstructure:"BANK_ACCOUNT_NO"`
	AccountName    string `mapstructure:"BANK_ACCOUNT_NAME"`
	QRTemplate     string `mapstructure:"QR_TEMPLATE"`
	TransferPrefix string `mapstructure:"TRANSFER_PREFIX"`
}

type VNPayConfig struct {
	TmnCode    string `mapstructure:"VNPAY_TMN_CODE"`
	HashSecret string `mapstructure:"VNPAY_HASH_SECRET"`
	PayURL     string `mapstructure:"VNPAY_PAY_URL"`
	ReturnURL  string `mapstructure:"VNPAY_RETURN_URL"`
}

type MoMoConfig struct {
	PartnerCode string `mapstructure:"MOMO_PARTNER_CODE"`
	AccessKey   string `mapstructure:"MOMO_ACCESS_KEY"`
	SecretKey   string `mapstructure:"MOMO_SECRET_KEY"`
	Endpoint    string `mapstructure:"MOMO_ENDPOINT"`
	RedirectURL string `mapstructure:"MOMO_REDIRECT_URL"`
	IPNURL      string `mapstructure:"MOMO_IPN_URL"`
}

var defaults = map[string]interface{}{
	"APP_ENV":                 "development",
	"APP_PORT":                ":8080",
	"DB_DRIVER":               "sqlite",
	"DATABASE_DSN":            "file:care4pets.db?cache=shared",
	"JWT_SECRET":              "change-me",
	"JWT_TTL":                 "24h",
	"RABBITMQ_URL":            "",
	"REDIS_URL":               "",
	"CORS_ORIGINS":            "*",
	"RATE_LIMIT_PER_MINUTE":   100,
	"SHIPPING_FEE":            30000,
	"FREE_SHIPPING_THRESHOLD": 500000,
	"BANK_ID":                 "970422",
	"BANK_NAME":               "MB Bank",
	"BANK_ACCOUNT_NO":         "0123456789",
	"BANK_ACCOUNT_NAME":       "CARE4PETS",
	"QR_TEMPLATE":             "compact2",
	"TRANSFER_PREFIX":         "C4P",
	"VNPAY_TMN_CODE":          "DEMOTMN1",
	"VNPAY_HASH_SECRET":       "DEMOSECRET",
	"VNPAY_PAY_URL":           "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
	"VNPAY_RETURN_URL":        "http://localhost:5173/payment/vnpay-return",
	"MOMO_PARTNER_CODE":       "MOMO",
	"MOMO_ACCESS_KEY":         "F8BBA842ECF85",
	"MOMO_SECRET_KEY":         "K951B6PE1waDMi640xX08PD3vg6EkVlz",
	"MOMO_ENDPOINT":           "https://test-payment.momo.vn/v2/gateway/api/create",
	"MOMO_REDIRECT_URL":       "http://localhost:5173/payment/momo-return",
	"MOMO_IPN_URL":            "http://localhost:8080/api/v1/payments/momo/ipn",
	"SLOT_CAPACITY":           3,
}

// Load reads an optional .env file, then environment variables, on top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.SlotCapacity <= 0 {
		return fmt.Errorf("SLOT_CAPACITY must be positive, got %d", c.SlotCapacity)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
