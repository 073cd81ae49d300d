package textproc

import "testing"

func TestDiffWords(t *testing.T) {
	deltas := DiffWords("so scared", "so very scared")

	want := []WordDelta{
		{Op: OpKeep, Text: "so"},
		{Op: OpInsert, Text: "very"},
		{Op: OpKeep, Text: "scared"},
	}
	if len(deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d: %v", len(want), len(deltas), deltas)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta %d: expected %v, got %v", i, want[i], deltas[i])
		}
	}
	if !Changed(deltas) {
		t.Error("expected Changed to be true")
	}
	if got := RenderDiff(deltas); got != "so {+very+} scared" {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestDiffWords_Unchanged(t *testing.T) {
	deltas := DiffWords("he is stable", "he  is stable")
	if Changed(deltas) {
		t.Errorf("expected no change, got %v", deltas)
	}
}

func TestRenderDiff_Delete(t *testing.T) {
	got := RenderDiff([]WordDelta{{Op: OpDelete, Text: "teh"}, {Op: OpInsert, Text: "the"}})
	if got != "[-teh-] {+the+}" {
		t.Errorf("unexpected render: %q", got)
	}
}
