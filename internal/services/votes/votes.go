// Package votes реализует агрегатор голосов за промпты.
package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/notice/internal/lib/metrics"
	"github.com/magabrotheeeer/notice/internal/lib/prompthash"
	"github.com/magabrotheeeer/notice/internal/lib/sl"
	"github.com/magabrotheeeer/notice/internal/lib/textx"
	"github.com/magabrotheeeer/notice/internal/models"
)

const (
	// MaxPromptLen максимальная длина промпта в голосе.
	MaxPromptLen = 500
	// MaxFeedbackLen максимальная длина отзыва, лишнее обрезается.
	MaxFeedbackLen = 280
	// PreviewLen длина превью промпта в аналитике.
	PreviewLen = 80
	// SnapshotKey префикс ключей снимков списка голосов; снимок хранится под SnapshotKey:<поколение>.
	SnapshotKey = "snapshot:votes"
	// GenerationKey счетчик поколений снимка, растет с каждым учтенным голосом.
	GenerationKey = SnapshotKey + ":gen"
	// SnapshotTTL время жизни снимка.
	SnapshotTTL = 30 * time.Second
)

var (
	// ErrInvalidPrompt промпт пустой или длиннее MaxPromptLen.
	ErrInvalidPrompt = errors.New("invalid prompt")
	// ErrInvalidDirection направление не up и не down.
	ErrInvalidDirection = errors.New("invalid direction")
)

// Store хранилище счетчиков.
type Store interface {
	Increment(ctx context.Context, hash, field string) (int64, error)
	All(ctx context.Context) (map[string]models.VoteCount, error)
}

// SnapshotCache кэш снимка списка голосов.
type SnapshotCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

// Publisher ретранслятор аналитических событий.
type Publisher interface {
	Publish(ctx context.Context, event models.RelayEvent)
}

// Service агрегатор голосов. Любая из зависимостей может быть nil:
// без store голос не сохраняется, без cache список не кэшируется,
// без publisher аналитика не отправляется.
type Service struct {
	log       *slog.Logger
	store     Store
	cache     SnapshotCache
	publisher Publisher
	now       func() time.Time
}

// New создает Service.
func New(log *slog.Logger, store Store, cache SnapshotCache, publisher Publisher) *Service {
	return &Service{
		log:       log,
		store:     store,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Validate проверяет голос без побочных эффектов.
func Validate(req models.VoteRequest) error {
	if req.Prompt == "" || textx.Len(req.Prompt) > MaxPromptLen {
		return ErrInvalidPrompt
	}
	if req.Direction != models.DirectionUp && req.Direction != models.DirectionDown {
		return ErrInvalidDirection
	}
	return nil
}

// Cast учитывает голос. Недоступность хранилища не считается ошибкой:
// голос превращается в no-op и результат возвращается без счетчика.
func (s *Service) Cast(ctx context.Context, req models.VoteRequest) (models.VoteResult, error) {
	const op = "services.votes.Cast"
	log := s.log.With(sl.Op(op))

	if err := Validate(req); err != nil {
		return models.VoteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := models.VoteResult{
		Hash:      prompthash.Hash(req.Prompt),
		Direction: req.Direction,
	}

	if s.store != nil {
		n, err := s.store.Increment(ctx, res.Hash, req.Direction)
		if err != nil {
			log.Error("failed to store vote", slog.String("hash", res.Hash), sl.Err(err))
		} else {
			res.Count = &n
			s.bumpSnapshotGeneration(ctx, log)
		}
	}
	metrics.VotesCast.WithLabelValues(req.Direction, metrics.Result(res.Count != nil)).Inc()

	if s.publisher != nil {
		s.publisher.Publish(ctx, models.RelayEvent{
			Source:        models.SourceVote,
			Timestamp:     s.now().UTC(),
			VoteDirection: req.Direction,
			PromptHash:    res.Hash,
			PromptPreview: textx.Truncate(req.Prompt, PreviewLen),
			Feedback:      textx.Truncate(req.Feedback, MaxFeedbackLen),
		})
	}

	return res, nil
}

// List возвращает счетчики всех промптов. Никогда не возвращает ошибку:
// при сбое хранилища результат пустой.
func (s *Service) List(ctx context.Context) map[string]models.VoteCount {
	const op = "services.votes.List"
	log := s.log.With(sl.Op(op))

	if s.store == nil {
		return map[string]models.VoteCount{}
	}

	// Поколение читается до обращения к хранилищу: голос, учтенный во время
	// чтения, сдвигает поколение, и устаревший снимок ляжет под ключ, который уже не читают.
	key := ""
	if s.cache != nil {
		gen, err := s.cache.Generation(ctx, GenerationKey)
		if err != nil {
			log.Warn("failed to read votes snapshot generation", sl.Err(err))
		} else {
			key = snapshotKey(gen)
			var snapshot map[string]models.VoteCount
			found, err := s.cache.Get(ctx, key, &snapshot)
			if err != nil {
				log.Warn("failed to read votes snapshot", sl.Err(err))
			} else if found && snapshot != nil {
				return snapshot
			}
		}
	}

	all, err := s.store.All(ctx)
	if err != nil {
		log.Error("failed to fetch votes", sl.Err(err))
		return map[string]models.VoteCount{}
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, all, SnapshotTTL); err != nil {
			log.Warn("failed to save votes snapshot", sl.Err(err))
		}
	}
	return all
}

func (s *Service) bumpSnapshotGeneration(ctx context.Context, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Bump(ctx, GenerationKey); err != nil {
		log.Warn("failed to bump votes snapshot generation", sl.Err(err))
	}
}

func snapshotKey(gen int64) string {
	return SnapshotKey + ":" + strconv.FormatInt(gen, 10)
}
