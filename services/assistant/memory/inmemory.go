// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package memory

import (
	"context"
	"sync"
)

// InMemoryTurnStore keeps session history in process memory. Used in
// lightweight mode when no Weaviate instance is configured, and in
// tests.
type InMemoryTurnStore struct {
	mu    sync.RWMutex
	turns map[string][]Turn
}

func NewInMemoryTurnStore() *InMemoryTurnStore {
	return &InMemoryTurnStore{turns: make(map[string][]Turn)}
}

func (s *InMemoryTurnStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.turns[sessionID]
	out := make([]Turn, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *InMemoryTurnStore) Append(_ context.Context, sessionID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *InMemoryTurnStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, sessionID)
	return nil
}
