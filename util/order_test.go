package util

import (
	"errors"
	"testing"
)

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[string, int]()
	for key, value := range map[string]int{"newdirectory/file.txt": 4, "../tempdir/file.txt": 5, "file.txt": -4} {
		if err := m.TryInsert(key, value); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	expected := []OrderedMapEntry[string, int]{
		{Key: "../tempdir/file.txt", Value: 5},
		{Key: "file.txt", Value: -4},
		{Key: "newdirectory/file.txt", Value: 4},
	}

	entries := m.Entries()
	keys := m.Keys()
	values := m.Values()
	if len(entries) != len(expected) || m.Len() != len(expected) {
		t.Fatal("unexpected number of entries")
	}
	if len(keys) != len(expected) {
		t.Fatal("unexpected number of keys")
	}
	if len(values) != len(expected) {
		t.Fatal("unexpected number of values")
	}
	for i := range entries {
		if entries[i] != expected[i] {
			t.Fatalf("unexpected entry at index %d", i)
		}
		if keys[i] != expected[i].Key {
			t.Fatalf("unexpected key at index %d", i)
		}
		if values[i] != expected[i].Value {
			t.Fatalf("unexpected value at index %d", i)
		}
	}
}

func TestTryInsertDuplicate(t *testing.T) {
	m := NewOrderedMap[string, string]()
	if err := m.TryInsert("a.txt", "first"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	err := m.TryInsert("a.txt", "second")
	var dup *DuplicateKeyError[string, string]
	if !errors.As(err, &dup) {
		t.Fatalf("expected a duplicate key error, got %v", err)
	}
	if dup.Key != "a.txt" || dup.Existing != "first" || dup.New != "second" {
		t.Fatalf("unexpected error content %+v", dup)
	}
	if v, _ := m.Lookup("a.txt"); v != "first" {
		t.Fatal("value was overridden")
	}
}

func TestReplace(t *testing.T) {
	m := NewOrderedMap[int, string]()
	if _, replaced := m.Replace(1, "hello"); replaced {
		t.Fatal("nothing should have been replaced")
	}
	old, replaced := m.Replace(1, "world")
	if !replaced || old != "hello" {
		t.Fatalf("unexpected replace result %q %t", old, replaced)
	}
	if v, ok := m.Lookup(1); !ok || v != "world" {
		t.Fatal("unexpected value")
	}
	if _, ok := m.Lookup(2); ok {
		t.Fatal("lookup should have failed")
	}
}

func TestSliceOrderedBy(t *testing.T) {
	s := []int{10, 3, 523, 77, -95}
	o := SliceOrderedBy(s, func(v *int) int { return -*v })

	expected := []int{523, 77, 10, 3, -95}
	if len(o) != len(expected) {
		t.Fatal("wrong size")
	}
	for i := range o {
		if o[i] != expected[i] {
			t.Fatalf("wrong element %d", i)
		}
	}
	if s[0] != 10 {
		t.Fatal("input was modified")
	}
}
