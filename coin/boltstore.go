package coin

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libspedn-go/tx"
)

var bucketCoins = []byte("coins")

// BoltStore persists coins in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// record is the gob form of a Coin.
type record struct {
	TxID          []byte
	Index         uint32
	Amount        uint64
	LockingScript []byte
	Kind          Kind
	Challenges    []Challenge
	HasMeta       bool
	Meta          Confirmation
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("coin: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("coin: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(bucketCoins)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("coin: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Put stores a coin.
func (s *BoltStore) Put(c *Coin) error {
	if c == nil {
		return fmt.Errorf("%w: coin", ErrNilParam)
	}
	data, err := encodeRecord(c)
	if err != nil {
		return fmt.Errorf("coin: encode %s: %w", c.outpoint, err)
	}
	key := c.outpoint.Bytes()
	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketCoins)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCoin, c.outpoint)
		}
		return b.Put(key, data)
	})
}

// Get retrieves a coin by outpoint.
func (s *BoltStore) Get(op tx.Outpoint) (*Coin, error) {
	var c *Coin
	err := s.db.View(func(btx *bbolt.Tx) error {
		data := btx.Bucket(bucketCoins).Get(op.Bytes())
		if data == nil {
			return fmt.Errorf("%w: %s", ErrCoinNotFound, op)
		}
		var err error
		c, err = decodeRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a coin.
func (s *BoltStore) Delete(op tx.Outpoint) error {
	key := op.Bytes()
	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketCoins)
		if b.Get(key) == nil {
			return fmt.Errorf("%w: %s", ErrCoinNotFound, op)
		}
		return b.Delete(key)
	})
}

// Apply removes spent and stores created in a single bbolt transaction.
func (s *BoltStore) Apply(spent []tx.Outpoint, created []*Coin) error {
	records := make([][]byte, len(created))
	for i, c := range created {
		if c == nil {
			return fmt.Errorf("%w: coin", ErrNilParam)
		}
		data, err := encodeRecord(c)
		if err != nil {
			return fmt.Errorf("coin: encode %s: %w", c.outpoint, err)
		}
		records[i] = data
	}
	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketCoins)
		for _, op := range spent {
			if err := b.Delete(op.Bytes()); err != nil {
				return fmt.Errorf("coin: delete %s: %w", op, err)
			}
		}
		for i, c := range created {
			key := c.outpoint.Bytes()
			if b.Get(key) != nil {
				return fmt.Errorf("%w: %s", ErrDuplicateCoin, c.outpoint)
			}
			if err := b.Put(key, records[i]); err != nil {
				return fmt.Errorf("coin: put %s: %w", c.outpoint, err)
			}
		}
		return nil
	})
}

// List returns all coins in key order.
func (s *BoltStore) List() ([]*Coin, error) {
	var out []*Coin
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketCoins).ForEach(func(_, v []byte) error {
			c, err := decodeRecord(v)
			if err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func encodeRecord(c *Coin) ([]byte, error) {
	r := record{
		TxID:          c.outpoint.TxID[:],
		Index:         c.outpoint.Index,
		Amount:        c.amount,
		LockingScript: c.lockingScript,
		Kind:          c.kind,
		Challenges:    c.challenges,
	}
	if c.meta != nil {
		r.HasMeta = true
		r.Meta = *c.meta
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRecord rebuilds a coin through its constructor so stored data is
// validated the same way as fresh input.
func decodeRecord(data []byte) (*Coin, error) {
	var r record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, fmt.Errorf("coin: decode record: %w", err)
	}
	if len(r.TxID) != tx.TxIDLen {
		return nil, fmt.Errorf("coin: decode record: txid length %d", len(r.TxID))
	}
	var op tx.Outpoint
	copy(op.TxID[:], r.TxID)
	op.Index = r.Index

	var meta *Confirmation
	if r.HasMeta {
		meta = &r.Meta
	}
	switch r.Kind {
	case KindKeyed:
		return NewKeyedCoin(op, r.Amount, r.LockingScript, meta)
	case KindContract:
		return NewContractCoin(op, r.Amount, r.Challenges, r.LockingScript, meta)
	default:
		return nil, fmt.Errorf("coin: decode record: unknown kind %d", r.Kind)
	}
}
