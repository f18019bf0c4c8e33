package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"wastenot-api/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	// TokenPrefix marks session tokens issued by this service.
	TokenPrefix = "wnt_"

	// TokenTTL is the session lifetime.
	TokenTTL = 24 * time.Hour

	tokenKeyPrefix = "wastenot:token:"
)

// TokenService issues and validates opaque session tokens backed by Redis.
// A token carries no claims itself; everything lives in the Redis value, so
// revocation is a single key delete.
type TokenService struct {
	redis *redis.Client
}

// NewTokenService creates a new token service.
func NewTokenService(redisClient *redis.Client) *TokenService {
	return &TokenService{redis: redisClient}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

// GenerateToken mints a session token for the given identity and stores it
// with the session TTL.
func (s *TokenService) GenerateToken(ctx context.Context, data model.TokenData) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := TokenPrefix + hex.EncodeToString(raw)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(TokenTTL)

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := s.redis.Set(ctx, tokenKey(token), payload, TokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[TokenService] Issued session for user=%s, expires=%v",
		data.UserID, data.ExpiresAt)
	return token, nil
}

// ValidateToken resolves a token to its session data. Expired or unknown
// tokens fail; the Redis TTL does the usual cleanup, the explicit expiry
// check covers clock drift between instances.
func (s *TokenService) ValidateToken(ctx context.Context, token string) (*model.TokenData, error) {
	if !strings.HasPrefix(token, TokenPrefix) {
		return nil, fmt.Errorf("invalid token format")
	}

	payload, err := s.redis.Get(ctx, tokenKey(token)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("token not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.TokenData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if time.Now().After(data.ExpiresAt) {
		s.redis.Del(ctx, tokenKey(token))
		return nil, fmt.Errorf("token expired")
	}
	return &data, nil
}

// RevokeToken ends a session immediately.
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	return s.redis.Del(ctx, tokenKey(token)).Err()
}
