// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package persistence implements the revocation store over the key-value
// port. Two disjoint namespaces share one keyspace prefix: "active:" holds
// TTL-bound issuance metadata for unrevoked tokens, "revoked:" holds
// long-TTL markers for revoked token ids. A token id absent from both is
// simply "not revoked" — expired-and-purged entries and tokens issued by
// another process look identical here, and the signature and expiry checks
// carry the correctness burden.
package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nextoken/core/token/domain"
	"nextoken/modules/db"
)

const (
	activePrefix  = "active:"
	revokedPrefix = "revoked:"

	revokedMarker = "revoked"
)

var _ domain.RevocationStore = (*RevocationStore)(nil)

// RevocationStore persists token lifecycle state in a TTL-capable
// key-value store. Backing-store errors never escape this layer: every
// read degrades to a boolean/absent result so the token-validity decision
// stays well-defined (see IsRevoked for the fail-open choice).
type RevocationStore struct {
	kv db.KV

	// revokedRetention is the fixed TTL for revoked markers, independent
	// of the token's original expiry.
	revokedRetention time.Duration
}

func NewRevocationStore(kv db.KV, revokedRetention time.Duration) *RevocationStore {
	return &RevocationStore{
		kv:               kv,
		revokedRetention: revokedRetention,
	}
}

// PutActive implements domain.RevocationStore. Failure is logged and
// reported as false; issuance treats it as non-fatal.
func (s *RevocationStore) PutActive(ctx context.Context, tokenID string, meta domain.Metadata, ttl time.Duration) bool {
	value, err := json.Marshal(meta)
	if err != nil {
		slog.ErrorContext(ctx, "encoding token metadata", slog.Any("error", err), slog.String("token_id", tokenID))
		return false
	}

	if err := s.kv.SetWithTTL(ctx, activePrefix+tokenID, value, ttl); err != nil {
		slog.WarnContext(ctx, "storing token metadata", slog.Any("error", err), slog.String("token_id", tokenID))
		return false
	}
	return true
}

// GetActive returns the issuance metadata for an unrevoked, unexpired
// token id, or (nil, false) when absent or unreadable.
func (s *RevocationStore) GetActive(ctx context.Context, tokenID string) (*domain.Metadata, bool) {
	value, err := s.kv.Get(ctx, activePrefix+tokenID)
	if err != nil {
		slog.WarnContext(ctx, "reading token metadata", slog.Any("error", err), slog.String("token_id", tokenID))
		return nil, false
	}
	if value == nil {
		return nil, false
	}

	var meta domain.Metadata
	if err := json.Unmarshal(value, &meta); err != nil {
		slog.WarnContext(ctx, "decoding token metadata", slog.Any("error", err), slog.String("token_id", tokenID))
		return nil, false
	}
	return &meta, true
}

// Revoke implements domain.RevocationStore. The marker write and the
// active-entry delete are one atomic store operation with the marker
// written first, so an interrupted revoke can leave a token in both
// namespaces but never in neither. Verification checks the revoked
// namespace before any active-metadata use, so "both" still rejects.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string) bool {
	err := s.kv.MoveWithTTL(ctx,
		revokedPrefix+tokenID, []byte(revokedMarker), s.revokedRetention,
		activePrefix+tokenID,
	)
	if err != nil {
		slog.ErrorContext(ctx, "revoking token", slog.Any("error", err), slog.String("token_id", tokenID))
		return false
	}
	return true
}

// IsRevoked implements domain.RevocationStore. A store error degrades to
// false (fail-open): treating an unreachable store as "revoked" would turn
// every store outage into a full authentication outage, and tokens remain
// bounded by their signature and expiry. The degradation is logged so
// outages are visible.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) bool {
	exists, err := s.kv.Exists(ctx, revokedPrefix+tokenID)
	if err != nil {
		slog.WarnContext(ctx, "revocation check degraded to not-revoked",
			slog.Any("error", err), slog.String("token_id", tokenID))
		return false
	}
	return exists
}

// Stats reports per-namespace key counts. Advisory only: enumeration is
// not atomic with concurrent mutation, so counts may be approximate.
type Stats struct {
	Active  int64
	Revoked int64
	Total   int64
}

func (s *RevocationStore) Stats(ctx context.Context) Stats {
	active, err := s.kv.CountPrefix(ctx, activePrefix)
	if err != nil {
		slog.WarnContext(ctx, "counting active tokens", slog.Any("error", err))
	}
	revoked, err := s.kv.CountPrefix(ctx, revokedPrefix)
	if err != nil {
		slog.WarnContext(ctx, "counting revoked tokens", slog.Any("error", err))
	}
	return Stats{Active: active, Revoked: revoked, Total: active + revoked}
}

// HealthCheck reports backing-store liveness.
func (s *RevocationStore) HealthCheck(ctx context.Context) bool {
	if err := s.kv.HealthCheck(ctx); err != nil {
		slog.WarnContext(ctx, "store health check failed", slog.Any("error", err))
		return false
	}
	return true
}
