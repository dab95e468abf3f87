package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/observability"
)

// DefaultRedisPrefix namespaces every key written by [RedisStore].
const DefaultRedisPrefix = "spancal:"

// RedisOptions configures [OpenRedis].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each run as a JSON string and indexes run IDs in a sorted
// set scored by creation time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStore(client, opts.Prefix), nil
}

// NewRedisStore wraps an existing client. An empty prefix uses
// [DefaultRedisPrefix].
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) runKey(id string) string { return s.prefix + "run:" + id }
func (s *RedisStore) indexKey() string        { return s.prefix + "runs" }

// Save writes r and its index entry in one transaction.
func (s *RedisStore) Save(ctx context.Context, r *Run) error {
	if err := checkRun(r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerialization, err, "encode run %s", r.ID)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.runKey(r.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: score(r), Member: r.ID})
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save run %s", r.ID)
	}
	observability.Store().OnStoreSave(ctx, BackendRedis, len(data))
	return nil
}

// Get returns the run with the given ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.runKey(id)).Bytes()
	if err == redis.Nil {
		observability.Store().OnStoreMiss(ctx, BackendRedis)
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get run %s", id)
	}
	r, err := decodeRun(data)
	if err != nil {
		return nil, err
	}
	observability.Store().OnStoreHit(ctx, BackendRedis)
	return r, nil
}

// Latest returns the run with the highest index score.
func (s *RedisStore) Latest(ctx context.Context) (*Run, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, 0).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read run index")
	}
	if len(ids) == 0 {
		observability.Store().OnStoreMiss(ctx, BackendRedis)
		return nil, notFound("")
	}
	return s.Get(ctx, ids[0])
}

// List returns summaries of all indexed runs, newest first. Index entries
// whose run key has gone are skipped.
func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read run index")
	}
	out := []Summary{}
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.runKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read runs")
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeRun([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, r.Summary())
	}
	return out, nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

// score orders the index by creation time in milliseconds, which float64
// represents exactly.
func score(r *Run) float64 { return float64(r.CreatedAt.UnixMilli()) }

func decodeRun(data []byte) (*Run, error) {
	var r Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode run")
	}
	return &r, nil
}

var _ Store = (*RedisStore)(nil)
