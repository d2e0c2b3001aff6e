package activity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLastPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"display":"first prompt","timestamp":1}
{"display":"second prompt","timestamp":2}

{"display":"last prompt","timestamp":3}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok := LastPrompt(path)
	if !ok {
		t.Fatal("expected a prompt")
	}
	if got != "last prompt" {
		t.Errorf("LastPrompt = %q, want %q", got, "last prompt")
	}
}

func TestLastPromptSkipsMalformedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"display":"good"}
{not json at all
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok := LastPrompt(path)
	if !ok || got != "good" {
		t.Errorf("LastPrompt = %q, %v; want \"good\", true", got, ok)
	}
}

func TestLastPromptMissingFile(t *testing.T) {
	if _, ok := LastPrompt(filepath.Join(t.TempDir(), "nope.jsonl")); ok {
		t.Error("missing file should yield no prompt")
	}
}

func TestLastPromptNoValidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte("\n\n{broken\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := LastPrompt(path); ok {
		t.Error("file with no valid entries should yield no prompt")
	}
}
