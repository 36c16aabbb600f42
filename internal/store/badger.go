package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	badgerRecordPrefix = "rec:"
	badgerOrderPrefix  = "ord:"
	badgerPosPrefix    = "pos:"
	badgerSeqKey       = "meta:seq"
)

// BadgerStore keeps records as JSON documents in an embedded badger database.
//
//	rec:<id>     record JSON
//	ord:<seq>    id, seq zero-padded so key order is insertion order
//	pos:<id>     the ord key of the record
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadgerStore opens the database at path. An empty path runs badger in
// in-memory mode.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", path, err)
	}
	seq, err := db.GetSequence([]byte(badgerSeqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leasing badger sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

func (s *BadgerStore) Close() error {
	relErr := s.seq.Release()
	return errors.Join(relErr, s.db.Close())
}

func (s *BadgerStore) Save(ctx context.Context, rec *Record) (*Record, error) {
	saved := rec.Clone()
	if saved.ID == "" {
		saved.ID = newID()
	}
	buf, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(posKey(saved.ID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			n, err := s.seq.Next()
			if err != nil {
				return err
			}
			ord := orderKey(n)
			if err := txn.Set(ord, []byte(saved.ID)); err != nil {
				return err
			}
			if err := txn.Set(posKey(saved.ID), ord); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return txn.Set(recordKey(saved.ID), buf)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *BadgerStore) FindByID(ctx context.Context, id string) (*Record, error) {
	var out *Record
	err := s.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		out = rec
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) FindAll(ctx context.Context) ([]Record, error) {
	return s.scan(ctx, func(Record) bool { return true })
}

func (s *BadgerStore) FindByYear(ctx context.Context, year int) ([]Record, error) {
	return s.scan(ctx, func(r Record) bool { return r.Year == year })
}

func (s *BadgerStore) FindByName(ctx context.Context, name string) (*Record, error) {
	matches, err := s.scan(ctx, func(r Record) bool { return r.Name == name })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (s *BadgerStore) DeleteByID(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(posKey(id))
		if err != nil {
			return err
		}
		ord, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		for _, key := range [][]byte{ord, posKey(id), recordKey(id)} {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// scan walks the ord: index so results come back in insertion order.
func (s *BadgerStore) scan(ctx context.Context, keep func(Record) bool) ([]Record, error) {
	prefix := []byte(badgerOrderPrefix)
	out := make([]Record, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := getRecord(txn, string(id))
			if err != nil {
				return fmt.Errorf("loading %s: %w", it.Item().Key(), err)
			}
			if keep(*rec) {
				out = append(out, *rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getRecord(txn *badger.Txn, id string) (*Record, error) {
	item, err := txn.Get(recordKey(id))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return &rec, nil
}

func recordKey(id string) []byte {
	return []byte(badgerRecordPrefix + id)
}

func posKey(id string) []byte {
	return []byte(badgerPosPrefix + id)
}

func orderKey(n uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", badgerOrderPrefix, n)
}

var _ Store = (*BadgerStore)(nil)
