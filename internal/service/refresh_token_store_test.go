package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisKV struct {
	setKey    string
	setVal    interface{}
	setTTL    time.Duration
	existsKey []string
	delKey    []string

	setErr    error
	existsErr error
	delErr    error
	existsN   int64
}

func (f *fakeRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.setKey = key
	f.setVal = value
	f.setTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedisKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	f.existsKey = keys
	cmd := redis.NewIntCmd(ctx)
	if f.existsErr != nil {
		cmd.SetErr(f.existsErr)
		return cmd
	}
	cmd.SetVal(f.existsN)
	return cmd
}

func (f *fakeRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.delKey = keys
	cmd := redis.NewIntCmd(ctx)
	if f.delErr != nil {
		cmd.SetErr(f.delErr)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestMemoryRefreshTokenStore_StoresAndExpires(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	ok, err := store.Exists("missing")
	if err != nil || ok {
		t.Fatalf("expected unknown jti to be absent, got %v,%v", ok, err)
	}

	if err := store.Store("jti-1", "user-1", 50*time.Millisecond); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	ok, err = store.Exists("jti-1")
	if err != nil || !ok {
		t.Fatalf("expected stored jti to exist, got %v,%v", ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expected expired jti to be absent, got %v,%v", ok, err)
	}
}

func TestMemoryRefreshTokenStore_Revoke(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("", "user-1", time.Minute); err != nil {
		t.Fatalf("empty jti should be a no-op, got %v", err)
	}
	if err := store.Store("jti-2", "user-1", time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Revoke("jti-2"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, err := store.Exists("jti-2")
	if err != nil || ok {
		t.Fatalf("expected revoked jti to be absent, got %v,%v", ok, err)
	}
}

func TestRedisRefreshTokenStore_KeysAndTTL(t *testing.T) {
	fake := &fakeRedisKV{existsN: 1}
	store := &redisRefreshTokenStore{
		client: fake,
		prefix: "wayfare:refresh:",
	}

	if err := store.Store(" j1 ", "user-1", 0); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if fake.setKey != "wayfare:refresh:j1" {
		t.Fatalf("unexpected key, got %q", fake.setKey)
	}
	if fake.setTTL <= 0 {
		t.Fatalf("expected positive fallback TTL, got %v", fake.setTTL)
	}

	ok, err := store.Exists(" j1 ")
	if err != nil || !ok {
		t.Fatalf("expected exists true,nil; got %v,%v", ok, err)
	}
	if len(fake.existsKey) != 1 || fake.existsKey[0] != "wayfare:refresh:j1" {
		t.Fatalf("unexpected exists key: %+v", fake.existsKey)
	}

	if err := store.Revoke(" j1 "); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(fake.delKey) != 1 || fake.delKey[0] != "wayfare:refresh:j1" {
		t.Fatalf("unexpected del key: %+v", fake.delKey)
	}
}

func TestRedisRefreshTokenStore_ErrorsSurface(t *testing.T) {
	fake := &fakeRedisKV{
		setErr:    errors.New("set failed"),
		existsErr: errors.New("exists failed"),
		delErr:    errors.New("del failed"),
	}
	store := &redisRefreshTokenStore{
		client: fake,
		prefix: "wayfare:refresh:",
	}

	// jti vacio es no-op y nunca llega a redis.
	if err := store.Store("", "user-1", time.Minute); err != nil {
		t.Fatalf("empty jti store should be a no-op, got %v", err)
	}
	if ok, err := store.Exists(""); err != nil || ok {
		t.Fatalf("empty jti exists should be false,nil; got %v,%v", ok, err)
	}
	if err := store.Revoke(""); err != nil {
		t.Fatalf("empty jti revoke should be a no-op, got %v", err)
	}

	if err := store.Store("j2", "user-1", time.Minute); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := store.Exists("j2"); err == nil {
		t.Fatalf("expected exists error")
	}
	if err := store.Revoke("j2"); err == nil {
		t.Fatalf("expected revoke error")
	}
}
