package config

import (
	"fmt"
	"os"
	"strconv"
)

// VNPay決済ゲートウェイの設定
type VNPayConfig struct {
	URL        string // リダイレクト先のゲートウェイURL
	TmnCode    string // 加盟店コード
	HashSecret string // HMAC-SHA512署名用シークレット
}

// 配送業者まわりの設定
type ShippingConfig struct {
	GHNAPIKey  string // 未設定ならGHNはモック料率にフォールバック
	GHNBaseURL string

	// 出品者に住所が無い場合の集荷元
	DefaultPickupProvince string
	DefaultPickupDistrict string
}

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート

	JWTSecret string // JWT署名シークレット

	VNPay    VNPayConfig
	Shipping ShippingConfig

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		VNPay: VNPayConfig{
			URL:        getenv("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			TmnCode:    getenv("VNPAY_TMN_CODE", "DEMOMERCHANT"),
			HashSecret: getenv("VNPAY_HASH_SECRET", "DEMOSECRETKEY"),
		},

		Shipping: ShippingConfig{
			GHNAPIKey:             os.Getenv("GHN_API_KEY"),
			GHNBaseURL:            getenv("GHN_BASE_URL", "https://online-gateway.ghn.vn/shiip/public-api/v2"),
			DefaultPickupProvince: getenv("DEFAULT_PICKUP_PROVINCE", "TP. Hồ Chí Minh"),
			DefaultPickupDistrict: getenv("DEFAULT_PICKUP_DISTRICT", "Quận 1"),
		},

		GoEnv: os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
