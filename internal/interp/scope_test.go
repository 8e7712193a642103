package interp

import "testing"

func TestScopePushFindShadow(t *testing.T) {
	s := NewScope()
	s.Push("x", Int(1))
	s.Push("x", Int(2))

	idx, kind, ok := s.Find("x")
	if !ok {
		t.Fatalf("expected to find x")
	}
	if kind != Normal {
		t.Fatalf("expected Normal kind, got %v", kind)
	}
	v, _, _ := s.At(idx)
	if v.(Int) != 2 {
		t.Fatalf("expected shadowing entry (2), got %v", v)
	}
}

func TestScopeRewindKeepsPrefixUnchanged(t *testing.T) {
	s := NewScope()
	s.Push("a", Int(1))
	s.Push("b", Int(2))
	mark := s.Len()
	s.Push("c", Int(3))
	s.Push("d", Int(4))

	s.Rewind(mark)

	if s.Len() != mark {
		t.Fatalf("expected len %d after rewind, got %d", mark, s.Len())
	}
	va, _, _ := s.At(0)
	vb, _, _ := s.At(1)
	if va.(Int) != 1 || vb.(Int) != 2 {
		t.Fatalf("rewind mutated entries preceding the mark: %v %v", va, vb)
	}
}

func TestScopeRewindForAnyN(t *testing.T) {
	for n := 0; n <= 3; n++ {
		s := NewScope()
		s.Push("a", Int(1))
		s.Push("b", Int(2))
		s.Push("c", Int(3))
		s.Rewind(n)
		if s.Len() != n {
			t.Fatalf("rewind(%d): expected len %d, got %d", n, n, s.Len())
		}
	}
}

func TestScopeConstantBinding(t *testing.T) {
	s := NewScope()
	s.PushConstant("K", Int(3))
	idx, kind, ok := s.Find("K")
	if !ok || kind != Constant {
		t.Fatalf("expected constant binding for K")
	}
	if v, _, _ := s.At(idx); v.(Int) != 3 {
		t.Fatalf("expected K == 3, got %v", v)
	}
}

func TestScopeTopRelativeRoundTrip(t *testing.T) {
	s := NewScope()
	s.Push("a", Int(1))
	s.Push("b", Int(2))
	s.Push("c", Int(3))

	idx, _, ok := s.Find("b")
	if !ok {
		t.Fatalf("expected to find b")
	}
	rel := s.TopRelative(idx)
	if got := s.FromTopRelative(rel); got != idx {
		t.Fatalf("top-relative round trip mismatch: idx=%d rel=%d got=%d", idx, rel, got)
	}
}
