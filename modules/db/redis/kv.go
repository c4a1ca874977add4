// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package redis

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nextoken/modules/db"

	"github.com/redis/rueidis"
)

var (
	_ db.KV = (*RedisKV)(nil)

	//go:embed move_with_ttl.lua
	moveWithTTLLua string

	// Lua script for MoveWithTTL: SET dst (with EX if requested), DEL src,
	// in one atomic unit. Single round-trip.
	luaMoveWithTTL = rueidis.NewLuaScript(moveWithTTLLua)
)

// RedisKV is a Rueidis-backed implementation of db.KV with key prefixing
// (multi-tenant / env scoping).
type RedisKV struct {
	client rueidis.Client

	// prefix is optional and always ends with ":" if non-empty.
	prefix string
}

type RedisKVOption func(*RedisKV)

// WithKeyPrefix scopes all keys under a prefix (env, service, etc).
// Example: WithKeyPrefix("nextoken") → key "active:x" stored as "nextoken:active:x".
func WithKeyPrefix(prefix string) RedisKVOption {
	return func(k *RedisKV) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		k.prefix = prefix
	}
}

// NewRedisKV constructs a RedisKV on top of an existing rueidis.Client.
//
// The same client can be shared across multiple RedisKV instances
// (different prefixes).
func NewRedisKV(client rueidis.Client, opts ...RedisKVOption) *RedisKV {
	kv := &RedisKV{
		client: client,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(kv)
		}
	}
	return kv
}

func (k *RedisKV) key(raw string) string {
	if k.prefix == "" {
		return raw
	}
	return k.prefix + raw
}

// SetWithTTL implements db.KV.SetWithTTL.
func (k *RedisKV) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := k.key(key)

	var cmd rueidis.Completed
	if ttl > 0 {
		seconds := int64(ttl / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		cmd = k.client.B().Set().Key(fullKey).Value(rueidis.BinaryString(value)).ExSeconds(seconds).Build()
	} else {
		cmd = k.client.B().Set().Key(fullKey).Value(rueidis.BinaryString(value)).Build()
	}

	if err := k.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis kv: SetWithTTL %q failed: %w", key, err)
	}
	return nil
}

// Get implements db.KV.Get. A missing key yields (nil, nil).
func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := k.key(key)

	bs, err := k.client.Do(ctx, k.client.B().Get().Key(fullKey).Build()).AsBytes()
	if err != nil {
		if re, ok := rueidis.IsRedisErr(err); ok && re.IsNil() {
			return nil, nil
		}
		return nil, fmt.Errorf("redis kv: Get %q failed: %w", key, err)
	}
	return bs, nil
}

// Exists implements db.KV.Exists.
func (k *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := k.key(key)

	n, err := k.client.Do(ctx, k.client.B().Exists().Key(fullKey).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("redis kv: Exists %q failed: %w", key, err)
	}
	return n > 0, nil
}

// Delete implements db.KV.Delete.
func (k *RedisKV) Delete(ctx context.Context, key string) error {
	fullKey := k.key(key)

	if err := k.client.Do(ctx, k.client.B().Del().Key(fullKey).Build()).Error(); err != nil {
		return fmt.Errorf("redis kv: Delete %q failed: %w", key, err)
	}
	return nil
}

// CountPrefix implements db.KV.CountPrefix using cursor-based SCAN, so it
// never blocks the server the way KEYS would on a large keyspace.
func (k *RedisKV) CountPrefix(ctx context.Context, prefix string) (int64, error) {
	pattern := k.key(prefix) + "*"

	var total int64
	var cursor uint64
	for {
		entry, err := k.client.Do(ctx,
			k.client.B().Scan().Cursor(cursor).Match(pattern).Count(512).Build(),
		).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("redis kv: CountPrefix %q failed: %w", prefix, err)
		}
		total += int64(len(entry.Elements))
		cursor = entry.Cursor
		if cursor == 0 {
			return total, nil
		}
	}
}

// MoveWithTTL implements db.KV.MoveWithTTL via the embedded Lua script.
func (k *RedisKV) MoveWithTTL(ctx context.Context, dst string, value []byte, ttl time.Duration, src string) error {
	ttlArg := ""
	if ttl > 0 {
		seconds := int64(ttl / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		ttlArg = strconv.FormatInt(seconds, 10)
	}

	err := luaMoveWithTTL.Exec(ctx, k.client,
		[]string{k.key(dst), k.key(src)},
		[]string{rueidis.BinaryString(value), ttlArg},
	).Error()
	if err != nil {
		return fmt.Errorf("redis kv: MoveWithTTL %q -> %q failed: %w", src, dst, err)
	}
	return nil
}

// HealthCheck is a small helper to be used by readiness/liveness probes.
func (k *RedisKV) HealthCheck(ctx context.Context) error {
	return k.client.Do(ctx, k.client.B().Ping().Build()).Error()
}
