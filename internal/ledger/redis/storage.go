package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/School-of-Solana/program-rishipunna/internal/game"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
)

// ErrContention is returned when a write keeps losing its optimistic lock.
var ErrContention = errors.New("redis: too much contention on key")

// Storage is a Redis-backed implementation of ledger.Store.
// Records are JSON values; read-modify-write paths use WATCH/MULTI.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ ledger.Store = (*Storage)(nil)

func decode(data []byte) (*ledger.Record, error) {
	var rec ledger.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) Get(ctx context.Context, key string) (*ledger.Record, error) {
	data, err := s.client.Get(ctx, recordKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, game.ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

func (s *Storage) Create(ctx context.Context, rec *ledger.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, recordKey(rec.Key), data, s.cfg.RecordTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return game.ErrGameAlreadyExists
	}
	return nil
}

// watch runs txf under WATCH on key, retrying when another client wins the race.
func (s *Storage) watch(ctx context.Context, key string, txf func(*redis.Tx) error) error {
	for i := 0; i < s.cfg.MaxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrContention, key)
}

func (s *Storage) Update(ctx context.Context, key string, fn func(*game.State) error) (*ledger.Record, error) {
	rk := recordKey(key)
	var out *ledger.Record

	err := s.watch(ctx, rk, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, rk).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return game.ErrNotFound
			}
			return err
		}
		rec, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(&rec.State); err != nil {
			return err
		}
		rec.UpdatedAt = time.Now().UTC()
		data, err = json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rk, data, redis.KeepTTL)
			return nil
		})
		if err == nil {
			out = rec
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) Delete(ctx context.Context, key string, check func(*game.State) error) (*ledger.Record, error) {
	rk := recordKey(key)
	var out *ledger.Record

	err := s.watch(ctx, rk, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, rk).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return game.ErrNotFound
			}
			return err
		}
		rec, err := decode(data)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(&rec.State); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, rk)
			return nil
		})
		if err == nil {
			out = rec
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
