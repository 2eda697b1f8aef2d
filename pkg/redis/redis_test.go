package redis

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRedis(t *testing.T) (IRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestSetGetJSON(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	if err := r.SetJSON(ctx, "k", payload{Name: "mehter", Count: 12}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var got payload
	if err := r.GetJSON(ctx, "k", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Name != "mehter" || got.Count != 12 {
		t.Fatalf("GetJSON = %+v", got)
	}
}

func TestGetJSONMissing(t *testing.T) {
	r, _ := newTestRedis(t)

	var got payload
	if err := r.GetJSON(context.Background(), "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetJSON err = %v, want ErrNotFound", err)
	}
}

func TestExpiration(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	_ = r.SetJSON(ctx, "k", payload{Name: "x"}, time.Second)
	mr.FastForward(2 * time.Second)

	var got payload
	if err := r.GetJSON(ctx, "k", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetJSON after ttl err = %v, want ErrNotFound", err)
	}
}

func TestKeysAndDelete(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	_ = r.SetJSON(ctx, "session:a", payload{}, 0)
	_ = r.SetJSON(ctx, "session:b", payload{}, 0)
	_ = r.SetJSON(ctx, "handoff:a", payload{}, 0)

	keys, err := r.Keys(ctx, "session:*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "session:a" || keys[1] != "session:b" {
		t.Fatalf("Keys = %v", keys)
	}

	if err := r.Delete(ctx, "session:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, "session:a"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	keys, _ = r.Keys(ctx, "session:*")
	if len(keys) != 1 {
		t.Fatalf("Keys after delete = %v", keys)
	}
}
