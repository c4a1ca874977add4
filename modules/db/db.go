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

package db

import (
	"context"
	"time"
)

// KV is the key-value port backing the revocation store. Implementations
// scope keys under their own prefix; callers pass keys relative to that
// prefix. All operations are individually atomic at the backing store.
type KV interface {
	// SetWithTTL stores value under key. A ttl <= 0 stores without expiry.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	Exists(ctx context.Context, key string) (bool, error)

	Delete(ctx context.Context, key string) error

	// CountPrefix counts keys under the given sub-prefix. Enumeration is
	// advisory: counts may be approximate under concurrent mutation.
	CountPrefix(ctx context.Context, prefix string) (int64, error)

	// MoveWithTTL atomically writes value under dst with the given ttl, then
	// deletes src. The dst write is durable before src is removed, so a
	// crash between the two can leave both keys but never neither.
	MoveWithTTL(ctx context.Context, dst string, value []byte, ttl time.Duration, src string) error

	// HealthCheck is a liveness probe against the backing store.
	HealthCheck(ctx context.Context) error
}
