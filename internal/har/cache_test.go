package har

import (
	"testing"
	"time"
)

func TestResultCacheMemoizes(t *testing.T) {
	var calls int
	p := NewParser()
	p.OnProgress = func(done, total int) { calls++ }
	c := NewResultCache(p, time.Minute)

	content := []byte(singleEntryCapture)
	first, err := c.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected memoized result on second parse")
	}
	if calls != 1 {
		t.Fatalf("expected a single underlying parse, got %d", calls)
	}
}

func TestResultCacheDoesNotCacheFailures(t *testing.T) {
	c := NewResultCache(nil, time.Minute)
	content := []byte(`{"log":{"entries":[]}}`)
	if _, err := c.Parse(content); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := c.Parse(content); err == nil {
		t.Fatalf("expected validation error on repeat")
	}
}

func TestContentHashDistinguishesContent(t *testing.T) {
	a := ContentHash([]byte("aaa"))
	b := ContentHash([]byte("aab"))
	if a == b {
		t.Fatalf("distinct content hashed identically")
	}
	if a != ContentHash([]byte("aaa")) {
		t.Fatalf("hash is not deterministic")
	}
}
