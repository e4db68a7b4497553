package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"samurai/internal/app/config"
)

const jwtPrefix = "jwt_blacklist:"

type Client struct {
	client *redis.Client
}

// New создает клиент Redis и проверяет соединение
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{client: client}, nil
}

// NewFromClient оборачивает готовое соединение (для тестов)
func NewFromClient(client *redis.Client) *Client {
	return &Client{client: client}
}

// WriteJWTToBlacklist добавляет токен в blacklist до истечения его срока
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, ttl time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, true, ttl).Err()
}

// CheckJWTInBlacklist возвращает nil если токен найден в blacklist
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	return c.client.Get(ctx, jwtPrefix+jwtStr).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
