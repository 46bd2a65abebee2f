// Package history tracks what a user searched for. Two capped lists are
// kept per owner: the full search history (10 entries) feeding the search
// page, and the recent searches (5 entries) shown under the search box.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"nutristore/internal/kvstore"
)

const (
	historyKey = "searchHistory"
	recentKey  = "recentSearches"
	historyCap = 10
	recentCap  = 5
)

type Service struct {
	store kvstore.Store
}

func New(store kvstore.Store) *Service {
	return &Service{store: store}
}

// Record notes a search term for the owner. Terms are deduplicated
// case-insensitively and move to the front on repeat; blank terms are
// ignored.
func (s *Service) Record(ctx context.Context, owner, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if err := s.push(ctx, historyKey, owner, term, historyCap); err != nil {
		return err
	}
	return s.push(ctx, recentKey, owner, term, recentCap)
}

// History returns the owner's search history, newest first.
func (s *Service) History(ctx context.Context, owner string) ([]string, error) {
	return s.load(ctx, historyKey, owner)
}

// Recent returns the owner's recent searches, newest first.
func (s *Service) Recent(ctx context.Context, owner string) ([]string, error) {
	return s.load(ctx, recentKey, owner)
}

// Clear wipes both lists for the owner.
func (s *Service) Clear(ctx context.Context, owner string) error {
	if err := s.store.Delete(ctx, storageKey(historyKey, owner)); err != nil {
		return err
	}
	return s.store.Delete(ctx, storageKey(recentKey, owner))
}

func (s *Service) push(ctx context.Context, key, owner, term string, limit int) error {
	terms, err := s.load(ctx, key, owner)
	if err != nil {
		return err
	}
	out := make([]string, 0, limit)
	out = append(out, term)
	for _, t := range terms {
		if strings.EqualFold(t, term) {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storageKey(key, owner), raw)
}

func (s *Service) load(ctx context.Context, key, owner string) ([]string, error) {
	raw, err := s.store.Get(ctx, storageKey(key, owner))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, nil
	}
	return terms, nil
}

func storageKey(key, owner string) string {
	if owner == "" {
		owner = "anonymous"
	}
	return key + "_" + owner
}
