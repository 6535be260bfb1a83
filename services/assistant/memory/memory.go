// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package memory stores per-session conversation history as an
// append-only turn log. Appends are synchronous: a turn written during a
// request is visible to the next read in the same process.
package memory

import (
	"context"
	"time"
)

// Roles recorded in the turn log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one recorded utterance in a session.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnStore is the session history backend. History returns turns in
// append order, oldest first; an unknown session yields an empty slice,
// not an error.
type TurnStore interface {
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turn Turn) error
	Clear(ctx context.Context, sessionID string) error
}
