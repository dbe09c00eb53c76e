package vm

import (
	"sync"
	"testing"
)

func TestSymbolTableIntern(t *testing.T) {
	st := newSymbolTable()

	id1 := st.intern("x")
	if id1 != 0 {
		t.Errorf("first intern got ID %d, want 0", id1)
	}
	if id2 := st.intern("x"); id2 != id1 {
		t.Errorf("re-intern got ID %d, want %d", id2, id1)
	}
	if id3 := st.intern("y"); id3 != 1 {
		t.Errorf("second unique intern got ID %d, want 1", id3)
	}
	if st.name(1) != "y" {
		t.Errorf("name(1) = %q, want y", st.name(1))
	}
	if st.name(99) != "" {
		t.Errorf("name(99) = %q, want empty", st.name(99))
	}
	if _, ok := st.lookup("z"); ok {
		t.Error("lookup should not create symbols")
	}
}

func TestSymbolTableConcurrency(t *testing.T) {
	st := newSymbolTable()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.intern(string(rune('a' + (n+j)%26)))
			}
		}(i)
	}
	wg.Wait()

	if st.len() != 26 {
		t.Errorf("after concurrent interns, len() = %d, want 26", st.len())
	}
}

func TestInternProcessWide(t *testing.T) {
	a := Intern("image_speed")
	b := Intern("image_speed")
	if a != b {
		t.Fatalf("Intern returned %d then %d", a, b)
	}
	if a.String() != "image_speed" {
		t.Errorf("String() = %q", a.String())
	}
	if got, ok := LookupSymbol("image_speed"); !ok || got != a {
		t.Errorf("LookupSymbol = %d, %v", got, ok)
	}
	if _, ok := LookupSymbol("never_interned_anywhere"); ok {
		t.Error("LookupSymbol created a symbol")
	}
}

func TestSymbolStringUnknown(t *testing.T) {
	if got := Symbol(1 << 30).String(); got != "#1073741824" {
		t.Errorf("String() = %q", got)
	}
}
