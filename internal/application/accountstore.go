// Package application contains use-case orchestration services.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ericfisherdev/accountdesk/internal/domain/model"
	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

// AccountStore owns the account collection. Every mutation is written through
// to the storage slot as a full snapshot before the call returns, and
// subscribers are signalled afterwards.
type AccountStore struct {
	mu       sync.RWMutex
	kv       driven.KeyValueStore
	key      string
	accounts []model.Account
	logger   *slog.Logger

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewAccountStore creates an AccountStore backed by kv and loads the saved
// collection from the accounts slot.
func NewAccountStore(ctx context.Context, kv driven.KeyValueStore, logger *slog.Logger) *AccountStore {
	s := &AccountStore{
		kv:       kv,
		key:      model.AccountsStorageKey,
		accounts: []model.Account{},
		logger:   logger,
		subs:     make(map[int]chan struct{}),
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory collection with the saved snapshot. A missing,
// unreadable or unparsable slot leaves the collection empty; the decoded
// records are otherwise adopted as-is.
func (s *AccountStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.accounts = s.readSnapshot(ctx)
	s.mu.Unlock()

	s.notify()
}

func (s *AccountStore) readSnapshot(ctx context.Context) []model.Account {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read saved accounts, starting empty", "key", s.key, "error", err)
		return []model.Account{}
	}
	if !ok || raw == "" {
		return []model.Account{}
	}

	var accounts []model.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		s.logger.Warn("saved accounts are not valid JSON, starting empty", "key", s.key, "error", err)
		return []model.Account{}
	}
	if accounts == nil {
		accounts = []model.Account{}
	}

	s.logger.Info("accounts loaded", "count", len(accounts))
	return accounts
}

// Ping reads the accounts slot to confirm storage is reachable. It leaves the
// in-memory collection untouched.
func (s *AccountStore) Ping(ctx context.Context) error {
	if _, _, err := s.kv.Get(ctx, s.key); err != nil {
		return fmt.Errorf("read %s slot: %w", s.key, err)
	}
	return nil
}

// List returns a copy of all accounts in insertion order.
func (s *AccountStore) List() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	return out
}

// Get returns the account with the given id, or false if there is none.
func (s *AccountStore) Get(id string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Account{}, false
	}
	return s.accounts[i].Clone(), true
}

// Create appends a new Local account with a fresh id, no labels and empty
// credentials, persists the collection and returns the new record.
func (s *AccountStore) Create(ctx context.Context) (model.Account, error) {
	s.mu.Lock()

	account := model.Account{
		ID:       s.newID(),
		Labels:   []model.LabelItem{},
		Type:     model.DefaultAccountType,
		Login:    "",
		Password: model.StringPtr(""),
	}
	s.accounts = append(s.accounts, account)
	err := s.save(ctx)

	s.mu.Unlock()
	s.notify()

	if err != nil {
		return account.Clone(), fmt.Errorf("create account %s: %w", account.ID, err)
	}
	return account.Clone(), nil
}

// Update overwrites the stored account whose id matches account.ID with the
// given record. LDAP accounts always end up with a nil password. It reports
// false without touching storage when no such account exists.
func (s *AccountStore) Update(ctx context.Context, account model.Account) (bool, error) {
	s.mu.Lock()

	i := s.indexOf(account.ID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Warn("update ignored, account not found", "id", account.ID)
		return false, nil
	}

	updated := account.Clone()
	if updated.Type == model.AccountTypeLDAP {
		updated.Password = nil
	}
	s.accounts[i] = updated
	err := s.save(ctx)

	s.mu.Unlock()
	s.notify()

	if err != nil {
		return true, fmt.Errorf("update account %s: %w", account.ID, err)
	}
	return true, nil
}

// Delete removes the account with the given id if present and persists the
// collection.
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()

	s.accounts = slices.DeleteFunc(s.accounts, func(a model.Account) bool {
		return a.ID == id
	})
	err := s.save(ctx)

	s.mu.Unlock()
	s.notify()

	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// Subscribe returns a channel that receives a signal after every change to
// the collection, and a function that cancels the subscription. Signals are
// coalesced: a slow reader sees at least one pending signal, not one per change.
func (s *AccountStore) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *AccountStore) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// save writes the whole collection to the storage slot. Callers hold s.mu.
func (s *AccountStore) save(ctx context.Context) error {
	data, err := json.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// newID returns a random UUID not held by any current account. Callers hold s.mu.
func (s *AccountStore) newID() string {
	for {
		id := uuid.NewString()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *AccountStore) indexOf(id string) int {
	return slices.IndexFunc(s.accounts, func(a model.Account) bool {
		return a.ID == id
	})
}
