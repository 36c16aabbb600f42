package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a JSON document plus secondary indexes:
//
//	<prefix>:record:<id>   JSON document
//	<prefix>:records       sorted set of ids, scored by insertion sequence
//	<prefix>:seq           insertion counter
//	<prefix>:year:<year>   set of ids
//	<prefix>:name:<name>   set of ids
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// RedisOptions configures the connection used by OpenRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func OpenRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisStore(rdb, opts.Prefix), nil
}

// NewRedisStore wraps an existing client. The store owns the client and
// closes it on Close.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) Save(ctx context.Context, rec *Record) (*Record, error) {
	saved := rec.Clone()
	if saved.ID == "" {
		saved.ID = newID()
	}
	buf, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}

	docKey := s.recordKey(saved.ID)
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		old, err := s.decode(tx.Get(ctx, docKey).Bytes())
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		var seq int64
		if old == nil {
			if seq, err = tx.Incr(ctx, s.key("seq")).Result(); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, docKey, buf, 0)
			if old == nil {
				pipe.ZAddNX(ctx, s.key("records"), redis.Z{
					Score:  float64(seq),
					Member: saved.ID,
				})
			} else {
				pipe.SRem(ctx, s.yearKey(old.Year), saved.ID)
				pipe.SRem(ctx, s.nameKey(old.Name), saved.ID)
			}
			pipe.SAdd(ctx, s.yearKey(saved.Year), saved.ID)
			pipe.SAdd(ctx, s.nameKey(saved.Name), saved.ID)
			return nil
		})
		return err
	}, docKey)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", saved.ID, err)
	}
	return &saved, nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (*Record, error) {
	return s.decode(s.rdb.Get(ctx, s.recordKey(id)).Bytes())
}

func (s *RedisStore) FindAll(ctx context.Context) ([]Record, error) {
	ids, err := s.rdb.ZRange(ctx, s.key("records"), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) FindByYear(ctx context.Context, year int) ([]Record, error) {
	return s.findIndexed(ctx, s.yearKey(year))
}

func (s *RedisStore) FindByName(ctx context.Context, name string) (*Record, error) {
	matches, err := s.findIndexed(ctx, s.nameKey(name))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
	docKey := s.recordKey(id)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		rec, err := s.decode(tx.Get(ctx, docKey).Bytes())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, docKey)
			pipe.ZRem(ctx, s.key("records"), id)
			pipe.SRem(ctx, s.yearKey(rec.Year), id)
			pipe.SRem(ctx, s.nameKey(rec.Name), id)
			return nil
		})
		return err
	}, docKey)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	return nil
}

// findIndexed returns the records whose ids are in the index set, in
// insertion order.
func (s *RedisStore) findIndexed(ctx context.Context, indexKey string) ([]Record, error) {
	members, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []Record{}, nil
	}
	wanted := make(map[string]bool, len(members))
	for _, id := range members {
		wanted[id] = true
	}

	all, err := s.rdb.ZRange(ctx, s.key("records"), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, id := range all {
		if wanted[id] {
			ids = append(ids, id)
		}
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) load(ctx context.Context, ids []string) ([]Record, error) {
	out := make([]Record, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// deleted between the index read and MGET
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", keys[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) decode(raw []byte, err error) (*Record, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *RedisStore) recordKey(id string) string { return s.key("record", id) }
func (s *RedisStore) yearKey(year int) string    { return s.key("year", strconv.Itoa(year)) }
func (s *RedisStore) nameKey(name string) string { return s.key("name", name) }

var _ Store = (*RedisStore)(nil)
