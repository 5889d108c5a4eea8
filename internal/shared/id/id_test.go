package id

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestPrefixedFormat(t *testing.T) {
	cases := []struct {
		id     string
		prefix string
	}{
		{Message(), "msg_"},
		{Connection(), "conn_"},
	}
	for _, tc := range cases {
		if !strings.HasPrefix(tc.id, tc.prefix) {
			t.Errorf("expected %s prefix, got %s", tc.prefix, tc.id)
		}
		raw := strings.TrimPrefix(tc.id, tc.prefix)
		if _, err := ulid.Parse(raw); err != nil {
			t.Errorf("suffix of %s is not a ULID: %v", tc.id, err)
		}
	}
}

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.Generate().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestSortableByCreation(t *testing.T) {
	g := NewGenerator()
	first := g.Generate().String()
	time.Sleep(2 * time.Millisecond)
	second := g.Generate().String()

	if !(first < second) {
		t.Errorf("later ID should sort after earlier one: %s >= %s", first, second)
	}
}
