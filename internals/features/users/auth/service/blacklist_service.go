package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	authRepo "schoolhub_backend/internals/features/users/auth/repository"
	helper "schoolhub_backend/internals/helpers"
)

// BlacklistStore records tokens revoked by logout until their natural expiry.
type BlacklistStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Cleanup(ctx context.Context) (int64, error)
}

/* ============ Database store ============ */

type DBBlacklist struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDBBlacklist(db *gorm.DB) *DBBlacklist {
	return &DBBlacklist{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *DBBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	err := authRepo.BlacklistToken(ctx, s.DB, token, expiresAt)
	if helper.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (s *DBBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return authRepo.IsTokenBlacklisted(ctx, s.DB, token)
}

func (s *DBBlacklist) Cleanup(ctx context.Context) (int64, error) {
	return authRepo.CleanupExpiredBlacklist(ctx, s.DB, s.Now())
}

/* ============ Redis store ============ */

const redisKeyPrefix = "schoolhub:blacklist:"

type RedisBlacklist struct {
	Client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{Client: client}
}

func redisKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *RedisBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.Client.Set(ctx, redisKey(token), "1", ttl).Err()
}

func (s *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.Client.Exists(ctx, redisKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Cleanup is a no-op: keys expire on their own.
func (s *RedisBlacklist) Cleanup(ctx context.Context) (int64, error) { return 0, nil }

// NewBlacklistFromEnv uses Redis when REDIS_URL is set and reachable, the token_blacklist table otherwise.
func NewBlacklistFromEnv(ctx context.Context, db *gorm.DB) BlacklistStore {
	log := configs.Logger("auth")
	url := configs.GetEnv("REDIS_URL")
	if url == "" {
		return NewDBBlacklist(db)
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("[BLACKLIST] invalid REDIS_URL, falling back to database")
		return NewDBBlacklist(db)
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("[BLACKLIST] redis unreachable, falling back to database")
		_ = client.Close()
		return NewDBBlacklist(db)
	}
	log.Info().Msg("[BLACKLIST] using redis")
	return NewRedisBlacklist(client)
}
