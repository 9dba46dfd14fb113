package canonical

import (
	"testing"
)

func TestSliceBackedCursor_Restartable(t *testing.T) {
	seq := FromSlice([]Canonical{Int(1), Int(2), Int(3)})

	for pass := 0; pass < 2; pass++ {
		var got []int64
		it, err := seq.FirstSequenceItem()
		if err != nil {
			t.Fatalf("pass %d: %v", pass, err)
		}
		for ; it != nil; it = it.Next() {
			n, err := it.Value().IntValue()
			if err != nil {
				t.Fatalf("pass %d: %v", pass, err)
			}
			got = append(got, n)
		}
		if len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Errorf("pass %d: got %v", pass, got)
		}
	}
}

func TestCursor_IndependentCursors(t *testing.T) {
	seq := FromSlice([]Canonical{Int(1), Int(2)})

	a, _ := seq.FirstSequenceItem()
	b, _ := seq.FirstSequenceItem()

	a = a.Next()
	if n, _ := b.Value().IntValue(); n != 1 {
		t.Error("advancing one cursor must not affect another")
	}
	if n, _ := a.Value().IntValue(); n != 2 {
		t.Error("advanced cursor should be at the second element")
	}
}

func TestGeneratorSequence_SinglePass(t *testing.T) {
	pulls := 0
	gen := func() (Canonical, bool) {
		if pulls >= 3 {
			return nil, false
		}
		pulls++
		return Int(int64(pulls)), true
	}
	seq := FromSequenceFunc(gen, "stream")

	if _, known := seq.Size(); known {
		t.Error("generator-backed sequence must report unknown size")
	}
	if !seq.Is([]string{"stream"}) {
		t.Error("logical types should be carried by the generator sequence")
	}

	items, err := ToSlice(seq)
	if err != nil {
		t.Fatalf("ToSlice: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// The source is one-shot: a second cursor request fails.
	if _, err := seq.FirstSequenceItem(); err == nil {
		t.Error("second FirstSequenceItem on a consumed generator should fail")
	}
	if _, err := seq.SequenceItem(0); err == nil {
		t.Error("random access on a generator-backed sequence should fail")
	}
}

func TestGeneratorSequence_LazyPull(t *testing.T) {
	pulls := 0
	gen := func() (Canonical, bool) {
		if pulls >= 2 {
			return nil, false
		}
		pulls++
		return Int(int64(pulls)), true
	}
	seq := FromSequenceFunc(gen)

	it, err := seq.FirstSequenceItem()
	if err != nil {
		t.Fatal(err)
	}
	if pulls != 1 {
		t.Errorf("only the first element should have been pulled, got %d pulls", pulls)
	}
	it = it.Next()
	if pulls != 2 {
		t.Errorf("expected 2 pulls after advancing, got %d", pulls)
	}
	if it.Next() != nil {
		t.Error("cursor should terminate")
	}
}

func TestGeneratorMapping_SinglePass(t *testing.T) {
	entries := []Entry{{"a", Int(1)}, {"b", Int(2)}}
	pos := 0
	gen := func() (string, Canonical, bool) {
		if pos >= len(entries) {
			return "", nil, false
		}
		e := entries[pos]
		pos++
		return e.Key, e.Value, true
	}
	m := FromMappingFunc(gen)

	got, err := ToMap(m)
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if n, _ := got["b"].IntValue(); n != 2 {
		t.Errorf("b = %d, want 2", n)
	}

	if _, err := m.FirstMappingEntry(); err == nil {
		t.Error("second FirstMappingEntry on a consumed generator should fail")
	}
	if _, err := m.MappingValue("a"); err == nil {
		t.Error("keyed access on a generator-backed mapping should fail")
	}
}

func TestEmptyContainers(t *testing.T) {
	seq := FromSlice(nil)
	it, err := seq.FirstSequenceItem()
	if err != nil || it != nil {
		t.Errorf("empty sequence cursor: got (%v, %v), want (nil, nil)", it, err)
	}

	m := FromMap(nil)
	me, err := m.FirstMappingEntry()
	if err != nil || me != nil {
		t.Errorf("empty mapping cursor: got (%v, %v), want (nil, nil)", me, err)
	}

	empty := FromSequenceFunc(func() (Canonical, bool) { return nil, false })
	it, err = empty.FirstSequenceItem()
	if err != nil || it != nil {
		t.Errorf("empty generator cursor: got (%v, %v), want (nil, nil)", it, err)
	}
}

func TestToEntries_PreservesOrder(t *testing.T) {
	m := FromEntries([]Entry{{"z", Int(1)}, {"a", Int(2)}})
	entries, err := ToEntries(m)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Key != "z" || entries[1].Key != "a" {
		t.Errorf("entry order not preserved: %v", entries)
	}
}

func TestFromSource(t *testing.T) {
	c := Int(1)
	if got, ok := FromSource(c); !ok || got != c {
		t.Error("Canonical input should pass through")
	}
	src := stubSource{c: c}
	if got, ok := FromSource(src); !ok || got != c {
		t.Error("Source input should yield its canonical")
	}
	if _, ok := FromSource(42); ok {
		t.Error("plain values are not canonical sources")
	}
}

type stubSource struct{ c Canonical }

func (s stubSource) PeekCanonical() Canonical { return s.c }
