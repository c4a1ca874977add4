package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"nextoken/core/token/domain"
)

// fakeKV is an in-memory db.KV that records TTLs and can fail on demand.
type fakeKV struct {
	values map[string][]byte
	ttls   map[string]time.Duration

	failSet    bool
	failGet    bool
	failExists bool
	failMove   bool
	failScan   bool
	failPing   bool
}

var errStore = errors.New("store unavailable")

func newFakeKV() *fakeKV {
	return &fakeKV{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.failSet {
		return errStore
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errStore
	}
	return f.values[key], nil
}

func (f *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	if f.failExists {
		return false, errStore
	}
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	delete(f.ttls, key)
	return nil
}

func (f *fakeKV) CountPrefix(_ context.Context, prefix string) (int64, error) {
	if f.failScan {
		return 0, errStore
	}
	var n int64
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n, nil
}

func (f *fakeKV) MoveWithTTL(_ context.Context, dst string, value []byte, ttl time.Duration, src string) error {
	if f.failMove {
		return errStore
	}
	f.values[dst] = value
	f.ttls[dst] = ttl
	delete(f.values, src)
	delete(f.ttls, src)
	return nil
}

func (f *fakeKV) HealthCheck(_ context.Context) error {
	if f.failPing {
		return errStore
	}
	return nil
}

const retention = 30 * 24 * time.Hour

func TestPutActiveStoresMetadataWithTTL(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	meta := domain.Metadata{UserID: "user-1", Email: "a@b.c", IssuedAt: 100, ExpiresAt: 3700}
	if !store.PutActive(ctx, "tok-1", meta, time.Hour) {
		t.Fatal("PutActive failed")
	}

	raw, ok := kv.values["active:tok-1"]
	if !ok {
		t.Fatal("no active entry written")
	}
	var got domain.Metadata
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("metadata not JSON: %v", err)
	}
	if got.UserID != "user-1" || got.ExpiresAt != 3700 {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if kv.ttls["active:tok-1"] != time.Hour {
		t.Fatalf("active TTL = %v, want %v", kv.ttls["active:tok-1"], time.Hour)
	}
}

func TestPutActiveFailureIsNonFatal(t *testing.T) {
	kv := newFakeKV()
	kv.failSet = true
	store := NewRevocationStore(kv, retention)

	if store.PutActive(context.Background(), "tok-1", domain.Metadata{}, time.Hour) {
		t.Fatal("PutActive reported success despite store failure")
	}
}

func TestGetActive(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	if _, ok := store.GetActive(ctx, "missing"); ok {
		t.Fatal("GetActive found a missing id")
	}

	store.PutActive(ctx, "tok-1", domain.Metadata{UserID: "user-1"}, time.Hour)
	meta, ok := store.GetActive(ctx, "tok-1")
	if !ok || meta.UserID != "user-1" {
		t.Fatalf("GetActive = (%+v, %v)", meta, ok)
	}
}

func TestRevokeMovesBetweenNamespaces(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	store.PutActive(ctx, "tok-1", domain.Metadata{UserID: "user-1"}, time.Hour)
	if !store.Revoke(ctx, "tok-1") {
		t.Fatal("Revoke failed")
	}

	if _, ok := kv.values["active:tok-1"]; ok {
		t.Fatal("active entry still present after revoke")
	}
	if _, ok := kv.values["revoked:tok-1"]; !ok {
		t.Fatal("revoked marker missing")
	}
	if kv.ttls["revoked:tok-1"] != retention {
		t.Fatalf("revoked TTL = %v, want %v", kv.ttls["revoked:tok-1"], retention)
	}
	if !store.IsRevoked(ctx, "tok-1") {
		t.Fatal("IsRevoked false after revoke")
	}
}

func TestRevokeWithoutActiveEntryStillMarks(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	// Metadata may have expired out of the active namespace already; the
	// marker write must still succeed.
	if !store.Revoke(ctx, "tok-gone") {
		t.Fatal("Revoke failed for id without active entry")
	}
	if !store.IsRevoked(ctx, "tok-gone") {
		t.Fatal("marker not written")
	}
}

func TestIsRevokedFailsOpenOnStoreError(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	store.Revoke(ctx, "tok-1")
	kv.failExists = true

	if store.IsRevoked(ctx, "tok-1") {
		t.Fatal("IsRevoked did not degrade to false on store error")
	}
}

func TestStatsCountsNamespacesSeparately(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	store.PutActive(ctx, "a", domain.Metadata{}, time.Hour)
	store.PutActive(ctx, "b", domain.Metadata{}, time.Hour)
	store.PutActive(ctx, "c", domain.Metadata{}, time.Hour)
	store.Revoke(ctx, "c")

	stats := store.Stats(ctx)
	if stats.Active != 2 || stats.Revoked != 1 || stats.Total != 3 {
		t.Fatalf("Stats = %+v, want {2 1 3}", stats)
	}
}

func TestHealthCheck(t *testing.T) {
	kv := newFakeKV()
	store := NewRevocationStore(kv, retention)
	ctx := context.Background()

	if !store.HealthCheck(ctx) {
		t.Fatal("healthy store reported unhealthy")
	}
	kv.failPing = true
	if store.HealthCheck(ctx) {
		t.Fatal("unhealthy store reported healthy")
	}
}
