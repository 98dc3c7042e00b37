package coin

import (
	"bytes"
	"fmt"
	"math/bits"
	"sort"
	"sync"

	"github.com/bitfsorg/libspedn-go/tx"
)

// Store persists coins available for spending, keyed by outpoint.
type Store interface {
	// Put stores a coin. Storing an outpoint twice is ErrDuplicateCoin.
	Put(c *Coin) error

	// Get retrieves a coin by outpoint.
	Get(op tx.Outpoint) (*Coin, error)

	// Delete removes a coin, typically after it has been spent.
	Delete(op tx.Outpoint) error

	// List returns all stored coins ordered by outpoint bytes.
	List() ([]*Coin, error)

	// Apply removes spent and stores created as one atomic update: on error
	// the store is unchanged. Spent outpoints that are not stored are
	// ignored; a created coin already stored is ErrDuplicateCoin.
	Apply(spent []tx.Outpoint, created []*Coin) error
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu    sync.RWMutex
	coins map[tx.Outpoint]*Coin
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{coins: make(map[tx.Outpoint]*Coin)}
}

// Put stores a coin.
func (s *MemStore) Put(c *Coin) error {
	if c == nil {
		return fmt.Errorf("%w: coin", ErrNilParam)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coins[c.outpoint]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCoin, c.outpoint)
	}
	s.coins[c.outpoint] = c
	return nil
}

// Get retrieves a coin by outpoint.
func (s *MemStore) Get(op tx.Outpoint) (*Coin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coins[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCoinNotFound, op)
	}
	return c, nil
}

// Delete removes a coin.
func (s *MemStore) Delete(op tx.Outpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coins[op]; !ok {
		return fmt.Errorf("%w: %s", ErrCoinNotFound, op)
	}
	delete(s.coins, op)
	return nil
}

// Apply removes spent and stores created under one lock.
func (s *MemStore) Apply(spent []tx.Outpoint, created []*Coin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[tx.Outpoint]bool, len(spent))
	for _, op := range spent {
		removed[op] = true
	}
	added := make(map[tx.Outpoint]bool, len(created))
	for _, c := range created {
		if c == nil {
			return fmt.Errorf("%w: coin", ErrNilParam)
		}
		_, stored := s.coins[c.outpoint]
		if added[c.outpoint] || (stored && !removed[c.outpoint]) {
			return fmt.Errorf("%w: %s", ErrDuplicateCoin, c.outpoint)
		}
		added[c.outpoint] = true
	}

	for _, op := range spent {
		delete(s.coins, op)
	}
	for _, c := range created {
		s.coins[c.outpoint] = c
	}
	return nil
}

// List returns all coins ordered by outpoint bytes.
func (s *MemStore) List() ([]*Coin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Coin, 0, len(s.coins))
	for _, c := range s.coins {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].outpoint.Bytes(), out[j].outpoint.Bytes()) < 0
	})
	return out, nil
}

// Total sums the amounts of coins. It fails with ErrAmountOverflow if the
// sum does not fit a uint64.
func Total(coins []*Coin) (uint64, error) {
	var total, carry uint64
	for _, c := range coins {
		total, carry = bits.Add64(total, c.amount, 0)
		if carry != 0 {
			return 0, ErrAmountOverflow
		}
	}
	return total, nil
}
