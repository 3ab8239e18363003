package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-api/pkg/config"
)

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// OTPStore guarda el hash del OTP de recuperación por email, con expiración.
type OTPStore struct {
	rdb redis.Cmdable
}

// NewOTPStore construye el store sobre un cliente Redis.
func NewOTPStore(rdb redis.Cmdable) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func otpKey(email string) string {
	return "otp:" + email
}

func attemptsKey(email string) string {
	return "otp:attempts:" + email
}

// Save reemplaza el hash vigente del email y reinicia sus intentos.
func (s *OTPStore) Save(ctx context.Context, email, hash string, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKey(email), hash, ttl)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// Fail incrementa los intentos fallidos; el primer intento fija la expiración del contador.
func (s *OTPStore) Fail(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptsKey(email))
		pipe.ExpireNX(ctx, attemptsKey(email), ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("otp attempts: %w", err)
	}
	return incr.Val(), nil
}

// Get devuelve "" si no hay OTP o ya expiró.
func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	hash, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get otp: %w", err)
	}
	return hash, nil
}

// Delete invalida el OTP del email.
func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, otpKey(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
