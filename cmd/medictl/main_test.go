package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("GENERATOR_PROVIDER", "mock")
	t.Setenv("CLASSIFIER_PROVIDER", "mock")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "history.db"))
	t.Setenv("DIALOGUE_SEED", "3")
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("medictl %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRespond_Raw(t *testing.T) {
	out := runCmd(t, "", "respond", "--raw", "The patient is resting. I am so scared. Please help him. We will call you.")

	if strings.TrimSpace(out) != "I am so scared. Please help him." {
		t.Errorf("unexpected response %q", out)
	}
}

func TestRespond_Trace(t *testing.T) {
	out := runCmd(t, "", "respond", "--raw", "--trace", "The patient is resting. I am so  scared.")

	for _, want := range []string{"raw:", "normalized:", "sentences:", "+ I am so scared.", "stopped in"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected trace to contain %q, got:\n%s", want, out)
		}
	}
}

func TestChat_Local(t *testing.T) {
	out := runCmd(t, "He is stable now.\n\nCan I get you anything?\n", "chat", "--turns", "2")

	if !strings.Contains(out, "Setting:") {
		t.Errorf("expected setting line, got:\n%s", out)
	}
	if n := strings.Count(out, "Relative:"); n != 3 {
		t.Errorf("expected opening plus 2 replies, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "session ") {
		t.Errorf("expected session id to be printed, got:\n%s", out)
	}
}

func TestDataset_Dialogues(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "mediresponse.csv")
	csv := "Input (Doctor),Target (Relative)\n" +
		"He is stable.,Thank god.\n" +
		"It is looking bad.,No!\n" +
		"We are doing our best.,Please save him.\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCmd(t, "", "dataset", "dialogues", "--out", dir, csvPath)
	if !strings.Contains(out, "3 dialogues: 2 train, 1 test") {
		t.Errorf("unexpected summary %q", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "preprocessed_conversation.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "He is stable. <|endoftext|> Thank god.\n") {
		t.Errorf("unexpected dialogue file %q", b)
	}
}

func TestDataset_Roles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "fear.csv")
	if err := os.WriteFile(csvPath, []byte("Input,Target\nHe is stable.,Thank god.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCmd(t, "", "dataset", "roles", "--out", dir, csvPath)
	if !strings.Contains(out, "2 sentences: 1 train, 1 test") {
		t.Errorf("unexpected summary %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "roles_train.jsonl")); err != nil {
		t.Errorf("expected train file: %v", err)
	}
}
