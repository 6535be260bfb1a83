// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package library is the in-memory store of papers the user has saved.
// Entries are keyed by arXiv identifier with last-write-wins overwrite
// semantics. Contents do not survive a restart.
package library

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/researchpal/researchpal/services/assistant/datatypes"
)

// ErrNotFound is returned when an identifier has no entry in the store.
var ErrNotFound = errors.New("paper not found in library")

// Store holds saved papers keyed by arXiv identifier. At most one entry
// per identifier; saving again replaces the previous entry. The handlers
// run on concurrent gin goroutines, so access is guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	papers map[string]datatypes.LibraryPaper
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		papers: make(map[string]datatypes.LibraryPaper),
		now:    time.Now,
	}
}

// Save stores a library entry and returns it with the date-added stamp
// filled in. An existing entry under the same identifier is replaced.
func (s *Store) Save(req datatypes.LibraryRequest) datatypes.LibraryPaper {
	s.mu.Lock()
	defer s.mu.Unlock()

	paper := datatypes.LibraryPaper{
		ID:        req.ArxivID,
		Title:     req.Title,
		Authors:   req.Authors,
		Abstract:  req.Abstract,
		ArxivID:   req.ArxivID,
		DateAdded: s.now().UTC().Format(time.RFC3339),
		Tags:      req.Tags,
		Notes:     req.Notes,
	}
	s.papers[req.ArxivID] = paper
	return paper
}

// Get returns the paper saved under the given identifier.
func (s *Store) Get(arxivID string) (datatypes.LibraryPaper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paper, ok := s.papers[arxivID]
	if !ok {
		return datatypes.LibraryPaper{}, ErrNotFound
	}
	return paper, nil
}

// List returns every saved paper, newest first. Ties fall back to title
// order so the listing is stable.
func (s *Store) List() []datatypes.LibraryPaper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]datatypes.LibraryPaper, 0, len(s.papers))
	for _, p := range s.papers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateAdded != out[j].DateAdded {
			return out[i].DateAdded > out[j].DateAdded
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Delete removes the paper saved under the given identifier.
func (s *Store) Delete(arxivID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.papers[arxivID]; !ok {
		return ErrNotFound
	}
	delete(s.papers, arxivID)
	return nil
}
