package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	JWT         JWTConfig
	Redis       RedisConfig
	Minio       MinioConfig
	Advisor     AdvisorConfig
	Report      ReportConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AdvisorConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type ReportConfig struct {
	ExpiryThresholdDays  int     // окно "скоро истекает", дней
	UnderutilizedPercent float64 // порог недоиспользования, %
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinioEndpoint = "MINIO_ENDPOINT"
	envMinioAccess   = "MINIO_ACCESS_KEY"
	envMinioSecret   = "MINIO_SECRET_KEY"
	envMinioBucket   = "MINIO_BUCKET"

	envAdvisorURL   = "OPENAI_BASE_URL"
	envAdvisorKey   = "OPENAI_API_KEY"
	envAdvisorModel = "OPENAI_MODEL"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.WatchConfig()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// инициализация JWT конфигурации
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "samurai-dev-secret"
	}
	cfg.JWT = JWTConfig{
		Token:         jwtSecret,
		ExpiresIn:     time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
	if err != nil {
		return nil, fmt.Errorf("redis port must be int value: %w", err)
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	// MinIO для выгрузки отчётов (необязателен)
	cfg.Minio.Endpoint = os.Getenv(envMinioEndpoint)
	cfg.Minio.AccessKey = os.Getenv(envMinioAccess)
	cfg.Minio.SecretKey = os.Getenv(envMinioSecret)
	cfg.Minio.Bucket = os.Getenv(envMinioBucket)
	if cfg.Minio.Bucket == "" {
		cfg.Minio.Bucket = "samurai-reports"
	}

	// Внешний AI сервис рекомендаций
	cfg.Advisor.BaseURL = os.Getenv(envAdvisorURL)
	if cfg.Advisor.BaseURL == "" {
		cfg.Advisor.BaseURL = "https://api.openai.com"
	}
	cfg.Advisor.APIKey = os.Getenv(envAdvisorKey)
	cfg.Advisor.Model = os.Getenv(envAdvisorModel)
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gpt-3.5-turbo"
	}
	cfg.Advisor.Timeout = 10 * time.Second

	// Параметры отчётов
	if cfg.Report.ExpiryThresholdDays <= 0 {
		cfg.Report.ExpiryThresholdDays = 30
	}
	if cfg.Report.UnderutilizedPercent <= 0 {
		cfg.Report.UnderutilizedPercent = 30
	}

	log.Info("config parsed")

	return cfg, nil
}
