package mock

import (
	"context"
	"testing"
)

func TestGenerator_Cycles(t *testing.T) {
	g := New("first", "second")

	var got []string
	for i := 0; i < 3; i++ {
		out, err := g.Generate(context.Background(), "p", 60)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, out)
	}

	want := []string{"first", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if n := len(g.Prompts()); n != 3 {
		t.Errorf("expected 3 recorded prompts, got %d", n)
	}
}

func TestGenerator_Defaults(t *testing.T) {
	g := New()
	out, err := g.Generate(context.Background(), "p", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != DefaultContinuations[0] {
		t.Errorf("expected first default continuation, got %q", out)
	}
}

func TestGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, "p", 60); err == nil {
		t.Error("expected error for canceled context")
	}
}
