// Package redisstore хранит счетчики голосов в redis.
//
// Каждый промпт это hash "votes:<hash>" с полями up и down. Инкремент
// делегирован атомарному HINCRBY, поэтому блокировок на нашей стороне нет.
package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/notice/internal/models"
)

// KeyPrefix префикс ключей счетчиков.
const KeyPrefix = "votes:"

const scanCount = 200

// VoteStore хранилище счетчиков голосов
type VoteStore struct {
	db *redis.Client
}

// NewVoteStore создает VoteStore поверх клиента redis.
func NewVoteStore(db *redis.Client) *VoteStore {
	return &VoteStore{db: db}
}

// Increment атомарно увеличивает поле field счетчика hash на 1 и возвращает новое значение.
func (s *VoteStore) Increment(ctx context.Context, hash, field string) (int64, error) {
	const op = "storage.redisstore.Increment"
	n, err := s.db.HIncrBy(ctx, KeyPrefix+hash, field, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// All обходит все счетчики курсором SCAN и читает их пачками через pipeline.
func (s *VoteStore) All(ctx context.Context) (map[string]models.VoteCount, error) {
	const op = "storage.redisstore.All"
	result := make(map[string]models.VoteCount)

	var cursor uint64
	for {
		keys, next, err := s.db.Scan(ctx, cursor, KeyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if len(keys) > 0 {
			pipe := s.db.Pipeline()
			cmds := make([]*redis.MapStringStringCmd, len(keys))
			for i, key := range keys {
				cmds[i] = pipe.HGetAll(ctx, key)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return nil, fmt.Errorf("%s: hgetall: %w", op, err)
			}
			for i, key := range keys {
				data := cmds[i].Val()
				if len(data) == 0 {
					continue
				}
				result[strings.TrimPrefix(key, KeyPrefix)] = models.VoteCount{
					Up:   parseCount(data[models.DirectionUp]),
					Down: parseCount(data[models.DirectionDown]),
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return result, nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
