package draftstore

import (
	"context"
	"errors"
	"fmt"

	"estate_addendum/internal/domain/entity"
	"estate_addendum/internal/infrastructure/configloader"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrDraftNotFound is returned when no draft exists under the requested ID.
var ErrDraftNotFound = errors.New("draft not found")

const keyPrefix = "addendum:draft:"

// RedisStore persists document drafts as JSON blobs in Redis.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg configloader.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{
		client: client,
		logger: logger.Named("DraftStore"),
	}, nil
}

// SaveDraft stores the document under the draft ID, replacing any previous
// draft with the same ID.
func (s *RedisStore) SaveDraft(ctx context.Context, draftID string, doc *entity.EstateDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", draftID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+draftID, payload, 0).Err(); err != nil {
		s.logger.Error("Failed to save draft", zap.String("draftId", draftID), zap.Error(err))
		return fmt.Errorf("failed to save draft %s: %w", draftID, err)
	}
	s.logger.Debug("Draft saved", zap.String("draftId", draftID), zap.Int("bytes", len(payload)))
	return nil
}

// LoadDraft returns the stored document, or ErrDraftNotFound when the ID has
// never been saved.
func (s *RedisStore) LoadDraft(ctx context.Context, draftID string) (*entity.EstateDocument, error) {
	payload, err := s.client.Get(ctx, keyPrefix+draftID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		s.logger.Error("Failed to load draft", zap.String("draftId", draftID), zap.Error(err))
		return nil, fmt.Errorf("failed to load draft %s: %w", draftID, err)
	}
	var doc entity.EstateDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", draftID, err)
	}
	return &doc, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
