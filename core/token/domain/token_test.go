package domain

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"nextoken/modules/codec"
	"nextoken/modules/cryptoengine"
)

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// memStore is an in-memory RevocationStore.
type memStore struct {
	active  map[string]Metadata
	revoked map[string]bool

	failPut    bool
	failRevoke bool
}

func newMemStore() *memStore {
	return &memStore{
		active:  make(map[string]Metadata),
		revoked: make(map[string]bool),
	}
}

func (s *memStore) PutActive(_ context.Context, tokenID string, meta Metadata, _ time.Duration) bool {
	if s.failPut {
		return false
	}
	s.active[tokenID] = meta
	return true
}

func (s *memStore) Revoke(_ context.Context, tokenID string) bool {
	if s.failRevoke {
		return false
	}
	s.revoked[tokenID] = true
	delete(s.active, tokenID)
	return true
}

func (s *memStore) IsRevoked(_ context.Context, tokenID string) bool {
	return s.revoked[tokenID]
}

type fixture struct {
	app    *Application
	engine *cryptoengine.Engine
	store  *memStore
	clock  *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine, err := cryptoengine.New()
	if err != nil {
		t.Fatalf("cryptoengine.New: %v", err)
	}
	store := newMemStore()
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	app := NewApp(engine, engine, store, clk, Limits{
		DefaultExpiry: time.Hour,
		MaxExpiry:     24 * time.Hour,
	})
	return &fixture{app: app, engine: engine, store: store, clock: clk}
}

func TestCreateVerifyRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{
		UserID:       "demo_user_123",
		Email:        "demo@example.com",
		ExpiresIn:    time.Hour,
		CustomClaims: map[string]any{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Token == "" || created.TokenID == "" {
		t.Fatalf("incomplete result: %+v", created)
	}

	result := f.app.Verify(ctx, created.Token)
	if !result.Valid {
		t.Fatalf("valid token rejected: %v", result.Reason)
	}
	if result.UserID != "demo_user_123" {
		t.Fatalf("user id = %q", result.UserID)
	}
	if result.Email != "demo@example.com" {
		t.Fatalf("email = %q", result.Email)
	}
	if role, _ := result.CustomClaims["role"].(string); role != "admin" {
		t.Fatalf("custom claims = %v", result.CustomClaims)
	}
	if result.TokenID != created.TokenID {
		t.Fatalf("token id mismatch: %q vs %q", result.TokenID, created.TokenID)
	}
	if !result.ExpiresAt.Equal(f.clock.now.Add(time.Hour)) {
		t.Fatalf("expires at %v", result.ExpiresAt)
	}
	if !result.IssuedAt.Equal(f.clock.now) {
		t.Fatalf("issued at %v", result.IssuedAt)
	}
}

func TestCreateWithoutOptionalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The wire payload must omit email_enc and custom entirely.
	wire, err := base64.URLEncoding.DecodeString(created.Token)
	if err != nil {
		t.Fatalf("token not base64url: %v", err)
	}
	var envelope Envelope
	if err := codec.Unmarshal(wire, &envelope); err != nil {
		t.Fatalf("envelope decode: %v", err)
	}
	var raw map[string]any
	if err := codec.Unmarshal(envelope.Data, &raw); err != nil {
		t.Fatalf("body decode: %v", err)
	}
	payload := raw["payload"].(map[string]any)
	if _, ok := payload["email_enc"]; ok {
		t.Fatal("email_enc present without an email")
	}
	if _, ok := payload["custom"]; ok {
		t.Fatal("custom present without claims")
	}

	result := f.app.Verify(ctx, created.Token)
	if !result.Valid {
		t.Fatalf("rejected: %v", result.Reason)
	}
	if result.Email != "" || result.CustomClaims != nil {
		t.Fatalf("unexpected optional fields: %+v", result)
	}
}

func TestPayloadTimestamps(t *testing.T) {
	f := newFixture(t)
	created, err := f.app.Create(context.Background(), CreateParams{UserID: "u", ExpiresIn: 30 * time.Minute})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := decodeBody(t, created.Token)
	if body.Payload.NBF != body.Payload.IAT {
		t.Fatalf("nbf %d != iat %d", body.Payload.NBF, body.Payload.IAT)
	}
	if body.Payload.EXP != body.Payload.IAT+1800 {
		t.Fatalf("exp %d, want iat+1800", body.Payload.EXP)
	}
	if body.Header.Alg != AlgorithmEd25519 || body.Header.Typ != TokenType || body.Header.Ver != TokenVersion {
		t.Fatalf("header %+v", body.Header)
	}
}

func TestVerifyRejectsAnyTamperedByte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", Email: "a@b.c", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wire, err := base64.URLEncoding.DecodeString(created.Token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := range wire {
		mutated := make([]byte, len(wire))
		copy(mutated, wire)
		mutated[i] ^= 0x01

		result := f.app.Verify(ctx, base64.URLEncoding.EncodeToString(mutated))
		if result.Valid {
			t.Fatalf("token accepted with byte %d flipped", i)
		}
		if result.Reason != ErrDecode && result.Reason != ErrInvalidSignature {
			t.Fatalf("byte %d: unexpected reason %v", i, result.Reason)
		}
	}
}

func TestVerifyGarbageInputsAreSafe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, input := range []string{
		"",
		"not a real token",
		"AAAA",
		base64.URLEncoding.EncodeToString([]byte("random bytes, not CBOR at all")),
		strings.Repeat("_", 1000),
	} {
		result := f.app.Verify(ctx, input)
		if result.Valid {
			t.Fatalf("garbage input %q verified", input)
		}

		revoke := f.app.Revoke(ctx, input)
		if revoke.Success {
			t.Fatalf("garbage input %q revoked", input)
		}
		if !strings.Contains(revoke.Message, "cannot revoke invalid token") {
			t.Fatalf("revoke message %q", revoke.Message)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Second})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Still valid at exactly exp.
	f.clock.advance(time.Second)
	if result := f.app.Verify(ctx, created.Token); !result.Valid {
		t.Fatalf("rejected at exp boundary: %v", result.Reason)
	}

	f.clock.advance(time.Second)
	result := f.app.Verify(ctx, created.Token)
	if result.Valid {
		t.Fatal("expired token accepted")
	}
	if result.Reason != ErrExpired {
		t.Fatalf("reason = %v, want %v", result.Reason, ErrExpired)
	}
}

func TestVerifyNotYetValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.clock.advance(-time.Minute)
	result := f.app.Verify(ctx, created.Token)
	if result.Valid {
		t.Fatal("future token accepted")
	}
	if result.Reason != ErrNotYetValid {
		t.Fatalf("reason = %v, want %v", result.Reason, ErrNotYetValid)
	}
}

func TestRevocationIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	revoke := f.app.Revoke(ctx, created.Token)
	if !revoke.Success {
		t.Fatalf("Revoke failed: %s", revoke.Message)
	}

	// The signature and expiry are still fine; only revocation rejects.
	for i := 0; i < 3; i++ {
		result := f.app.Verify(ctx, created.Token)
		if result.Valid {
			t.Fatal("revoked token accepted")
		}
		if result.Reason != ErrRevoked {
			t.Fatalf("reason = %v, want %v", result.Reason, ErrRevoked)
		}
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := f.app.Revoke(ctx, created.Token)
	second := f.app.Revoke(ctx, created.Token)
	if !first.Success || !second.Success {
		t.Fatalf("revoke results: %+v, %+v", first, second)
	}
}

func TestRevocationIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tokenA, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	tokenB, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create B: %v", err)
	}

	if revoke := f.app.Revoke(ctx, tokenA.Token); !revoke.Success {
		t.Fatalf("Revoke A: %s", revoke.Message)
	}

	if result := f.app.Verify(ctx, tokenB.Token); !result.Valid {
		t.Fatalf("token B affected by revoking A: %v", result.Reason)
	}
}

func TestRevokeStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.store.failRevoke = true
	revoke := f.app.Revoke(ctx, created.Token)
	if revoke.Success {
		t.Fatal("revoke succeeded despite store failure")
	}
	if revoke.Message != "failed to revoke token" {
		t.Fatalf("message = %q", revoke.Message)
	}
}

func TestCreateSurvivesMetadataWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failPut = true
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("Create failed on metadata write: %v", err)
	}
	if result := f.app.Verify(ctx, created.Token); !result.Valid {
		t.Fatalf("token invalid without metadata record: %v", result.Reason)
	}
}

func TestCreateStoresActiveMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.app.Create(ctx, CreateParams{
		UserID:       "user-1",
		Email:        "a@b.c",
		ExpiresIn:    time.Hour,
		CustomClaims: map[string]any{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	meta, ok := f.store.active[created.TokenID]
	if !ok {
		t.Fatal("no active metadata stored")
	}
	if meta.UserID != "user-1" || meta.Email != "a@b.c" {
		t.Fatalf("metadata %+v", meta)
	}
	if meta.ExpiresAt != meta.IssuedAt+3600 {
		t.Fatalf("metadata expiry %d, issued %d", meta.ExpiresAt, meta.IssuedAt)
	}
}

func TestCreateClampsExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Zero expiry falls back to the default.
	created, err := f.app.Create(ctx, CreateParams{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if body := decodeBody(t, created.Token); body.Payload.EXP-body.Payload.IAT != 3600 {
		t.Fatalf("default expiry not applied: %d", body.Payload.EXP-body.Payload.IAT)
	}

	// Oversized expiry is capped at the maximum.
	created, err = f.app.Create(ctx, CreateParams{UserID: "user-1", ExpiresIn: 100 * 24 * time.Hour})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if body := decodeBody(t, created.Token); body.Payload.EXP-body.Payload.IAT != 24*3600 {
		t.Fatalf("max expiry not enforced: %d", body.Payload.EXP-body.Payload.IAT)
	}
}

func TestVerifyRejectsUnsupportedAlgorithm(t *testing.T) {
	f := newFixture(t)

	token := f.craftToken(t, Body{
		Header:  Header{Alg: "HS256", Typ: TokenType, Ver: TokenVersion},
		Payload: Payload{JTI: "some-id", Sub: "user-1", IAT: f.clock.now.Unix(), EXP: f.clock.now.Unix() + 3600, NBF: f.clock.now.Unix()},
	})

	result := f.app.Verify(context.Background(), token)
	if result.Valid {
		t.Fatal("foreign algorithm accepted")
	}
	if result.Reason != ErrUnsupportedAlgorithm {
		t.Fatalf("reason = %v, want %v", result.Reason, ErrUnsupportedAlgorithm)
	}
}

func TestVerifyRejectsMissingTokenID(t *testing.T) {
	f := newFixture(t)

	token := f.craftToken(t, Body{
		Header:  Header{Alg: AlgorithmEd25519, Typ: TokenType, Ver: TokenVersion},
		Payload: Payload{Sub: "user-1", IAT: f.clock.now.Unix(), EXP: f.clock.now.Unix() + 3600, NBF: f.clock.now.Unix()},
	})

	result := f.app.Verify(context.Background(), token)
	if result.Valid {
		t.Fatal("token without id accepted")
	}
	if result.Reason != ErrMissingTokenID {
		t.Fatalf("reason = %v, want %v", result.Reason, ErrMissingTokenID)
	}
}

func TestVerifyUndecryptableEmailDegradesToAbsence(t *testing.T) {
	f := newFixture(t)

	token := f.craftToken(t, Body{
		Header: Header{Alg: AlgorithmEd25519, Typ: TokenType, Ver: TokenVersion},
		Payload: Payload{
			JTI: "some-id", Sub: "user-1",
			IAT: f.clock.now.Unix(), EXP: f.clock.now.Unix() + 3600, NBF: f.clock.now.Unix(),
			EmailEnc: "!!! not even base64 !!!",
		},
	})

	result := f.app.Verify(context.Background(), token)
	if !result.Valid {
		t.Fatalf("token rejected over an unrecoverable field: %v", result.Reason)
	}
	if result.Email != "" {
		t.Fatalf("email = %q, want empty", result.Email)
	}
}

// craftToken signs and encodes an arbitrary body with the fixture's key.
func (f *fixture) craftToken(t *testing.T, body Body) string {
	t.Helper()
	data, err := codec.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	wire, err := codec.Marshal(Envelope{Data: data, Signature: f.engine.Sign(data)})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return base64.URLEncoding.EncodeToString(wire)
}

func decodeBody(t *testing.T, token string) Body {
	t.Helper()
	wire, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	var envelope Envelope
	if err := codec.Unmarshal(wire, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var body Body
	if err := codec.Unmarshal(envelope.Data, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
