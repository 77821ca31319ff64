package configs

import (
	"strings"

	"github.com/shopspring/decimal"
)

/* ===== Payments ===== */

type PaymentConfig struct {
	Currency            string
	MidtransServerKey   string
	MidtransProduction  bool
	StripeSecretKey     string
	StripeWebhookSecret string
}

func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		Currency:            strings.ToUpper(GetEnv("PAYMENT_CURRENCY", "IDR")),
		MidtransServerKey:   GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransProduction:  GetEnvBool("MIDTRANS_USE_PROD", false),
		StripeSecretKey:     GetEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET"),
	}
}

/* ===== Late fees ===== */

type LateFeeConfig struct {
	PerDay decimal.Decimal
	Cron   string
}

func LoadLateFeeConfig() LateFeeConfig {
	return LateFeeConfig{
		PerDay: GetEnvDecimal("LATE_FEE_PER_DAY", decimal.NewFromInt(10)),
		Cron:   GetEnv("LATE_FEE_CRON", "0 1 * * *"),
	}
}

/* ===== SMTP (email receipts) ===== */

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Sender   string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Sender != ""
}

func LoadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     GetEnv("SMTP_HOST"),
		Port:     GetEnvInt("SMTP_PORT", 465),
		User:     GetEnv("SMTP_USER"),
		Password: GetEnv("SMTP_PASS"),
		Sender:   GetEnv("SMTP_SENDER"),
	}
}
