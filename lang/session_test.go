package lang

import (
	"context"
	"errors"
	"testing"
)

func TestSession_Eval(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	if v, err := s.Eval(ctx, `set a = 1.0`); err != nil || v != nil {
		t.Fatalf("Eval(set) = %v, %v", v, err)
	}

	v, err := s.Eval(ctx, `(list |a| 2.0)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	if !v.Equal(NewList(NewNumber(1), NewNumber(2))) {
		t.Errorf("got %#v", v.Native())
	}
}

func TestSession_FailureLeavesConstants(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	if _, err := s.Eval(ctx, `set a = 1.0`); err != nil {
		t.Fatal(err)
	}

	_, err := s.Eval(ctx, `set a = 5.0 set b = 2.0 |missing|`)
	if !errors.Is(err, ErrUnknownConstant) {
		t.Fatalf("expected ErrUnknownConstant, got %v", err)
	}

	if _, ok := s.Lookup("b"); ok {
		t.Error("constant from failed evaluation was committed")
	}

	if a, _ := s.Lookup("a"); a.Number != 1 {
		t.Errorf("a = %v, want 1", a.Number)
	}
}

func TestSession_Continuation(t *testing.T) {
	_, err := NewSession().Eval(context.Background(), `struct { a = 1.0`)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestSession_Constants(t *testing.T) {
	s := NewSession(WithConstants(map[string]*Value{"seed": NewText("s")}))

	if _, err := s.Eval(context.Background(), `set zeta = 1.0 set alpha = 2.0`); err != nil {
		t.Fatal(err)
	}

	var names []string
	for name := range s.Constants() {
		names = append(names, name)
	}

	want := []string{"alpha", "seed", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)

			break
		}
	}

	v, _ := s.Lookup("alpha")
	v.Number = 100

	if again, _ := s.Lookup("alpha"); again.Number != 2 {
		t.Error("Lookup returned a shared value")
	}

	s.Reset()

	if _, ok := s.Lookup("alpha"); ok {
		t.Error("Reset kept constants")
	}
}
