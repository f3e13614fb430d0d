package pmap

import (
	"sort"
	"strconv"
	"testing"
)

func TestPutGet(t *testing.T) {
	m := NewString[int]()
	for i := 0; i < 1000; i++ {
		m = m.Put(strconv.Itoa(i), i)
	}
	if m.Len() != 1000 {
		t.Fatalf("expected 1000 entries, got %d", m.Len())
	}
	for i := 0; i < 1000; i++ {
		v, ok := m.Get(strconv.Itoa(i))
		if !ok || v != i {
			t.Fatalf("Get(%d) = %d, %v", i, v, ok)
		}
	}
	if m.Contains("missing") {
		t.Errorf("unexpected key")
	}
}

func TestPersistence(t *testing.T) {
	base := NewString[string]().Put("x", "zero")
	left := base.Put("x", "suc")
	right := base.Put("y", "zero")

	if v, _ := base.Get("x"); v != "zero" {
		t.Errorf("base was modified: x = %s", v)
	}
	if v, _ := left.Get("x"); v != "suc" {
		t.Errorf("left: x = %s", v)
	}
	if right.Contains("x") && left.Contains("y") {
		t.Errorf("siblings share updates")
	}
	if base.Len() != 1 || left.Len() != 1 || right.Len() != 2 {
		t.Errorf("lengths = %d %d %d", base.Len(), left.Len(), right.Len())
	}
}

// collide sends every key to the same bucket.
func collide(int) uint32 { return 7 }

func TestCollisions(t *testing.T) {
	m := New[int, int](collide)
	for i := 0; i < 10; i++ {
		m = m.Put(i, i*i)
	}
	for i := 0; i < 10; i++ {
		if v, ok := m.Get(i); !ok || v != i*i {
			t.Fatalf("Get(%d) = %d, %v", i, v, ok)
		}
	}
	m = m.Remove(3)
	if m.Contains(3) || m.Len() != 9 {
		t.Errorf("Remove(3) failed: len %d", m.Len())
	}
}

func TestRemoveKeysRange(t *testing.T) {
	m := NewString[int]()
	for _, k := range []string{"a", "b", "c", "d"} {
		m = m.Put(k, len(k))
	}
	m2 := m.Remove("b").Remove("zz")
	if m.Len() != 4 || m2.Len() != 3 {
		t.Fatalf("lengths = %d, %d", m.Len(), m2.Len())
	}

	keys := m2.Keys()
	sort.Strings(keys)
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "c" || keys[2] != "d" {
		t.Errorf("keys = %v", keys)
	}

	n := 0
	m2.Range(func(string, int) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("Range did not stop early: %d calls", n)
	}
}

func TestMerge(t *testing.T) {
	a := NewString[int]().Put("x", 1).Put("y", 2)
	b := NewString[int]().Put("y", 20).Put("z", 30)
	m := a.Merge(b)
	if m.Len() != 3 {
		t.Fatalf("len = %d", m.Len())
	}
	if v, _ := m.Get("y"); v != 20 {
		t.Errorf("y = %d, other should win", v)
	}
}

func TestNilMap(t *testing.T) {
	var m *Map[string, int]
	if m.Len() != 0 || m.Contains("x") || len(m.Keys()) != 0 {
		t.Errorf("nil map should be empty")
	}
}
