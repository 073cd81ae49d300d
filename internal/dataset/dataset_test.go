package dataset

import (
	"bytes"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"medi-response-service/internal/service/classifier"
)

func TestDialogues(t *testing.T) {
	in := "Input (Doctor), Target (Relative)\n" +
		"\"Your father is stable.\", \"Thank you, doctor.\"\n" +
		"\"It is looking bad.\",\"What\n happened?\"\n"

	got, err := Dialogues(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Your father is stable. <|endoftext|> Thank you, doctor.",
		"It is looking bad. <|endoftext|> What happened?",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dialogues() = %q, want %q", got, want)
	}
}

func TestDialogues_MissingColumn(t *testing.T) {
	_, err := Dialogues(strings.NewReader("Input,Target\na,b\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}

	_, err = Dialogues(strings.NewReader(""))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for empty input, got %v", err)
	}
}

func TestRoleExamples(t *testing.T) {
	in := "Input,Target,Extra\n" +
		"He is stable.,Thank god.,x\n" +
		"We are doing our best.,,\n"

	got, err := RoleExamples(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []RoleExample{
		{Text: "He is stable.", Label: classifier.Doctor},
		{Text: "We are doing our best.", Label: classifier.Doctor},
		{Text: "Thank god.", Label: classifier.Relative},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RoleExamples() = %+v, want %+v", got, want)
	}
}

func TestSplit(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	train, test := Split(items, DialogueTestFraction, DialogueSeed)
	if len(train) != 7 || len(test) != 3 {
		t.Fatalf("expected 7/3 split, got %d/%d", len(train), len(test))
	}

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	if !reflect.DeepEqual(all, items) {
		t.Errorf("expected partitions to cover all items exactly once, got %v", all)
	}
	if !reflect.DeepEqual(items, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Error("expected input slice to be left untouched")
	}

	train2, test2 := Split(items, DialogueTestFraction, DialogueSeed)
	if !reflect.DeepEqual(train, train2) || !reflect.DeepEqual(test, test2) {
		t.Error("expected the same seed to give the same split")
	}
}

func TestSplit_RoundsTestUp(t *testing.T) {
	train, test := Split([]string{"a", "b", "c"}, RoleTestFraction, RoleSeed)
	if len(train) != 2 || len(test) != 1 {
		t.Errorf("expected 2/1 split, got %d/%d", len(train), len(test))
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSONL(&buf, []RoleExample{
		{Text: "He is stable.", Label: classifier.Doctor},
		{Text: "Thank god.", Label: classifier.Relative},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"text":"He is stable.","label":[1,0]}` + "\n" + `{"text":"Thank god.","label":[0,1]}` + "\n"
	if buf.String() != want {
		t.Errorf("WriteJSONL() = %q, want %q", buf.String(), want)
	}
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLines(&buf, []string{"a <|endoftext|> b", "c <|endoftext|> d"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "a <|endoftext|> b\nc <|endoftext|> d\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
