package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/jsontree/pkg/config"
)

func TestReadInput_FileArgument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, gotPath, docName, err := readInput([]string{path}, config.DefaultConfig())
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected data %q", data)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if docName != "data.json" {
		t.Errorf("docName = %q, want data.json", docName)
	}
}

func TestReadInput_RegisteredDocumentName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	if err := os.WriteFile(path, []byte(`[1,2]`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Documents = []config.Document{{Name: "metrics", Path: path}}

	data, gotPath, docName, err := readInput([]string{"metrics"}, cfg)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if string(data) != `[1,2]` {
		t.Errorf("unexpected data %q", data)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if docName != "metrics.json" {
		t.Errorf("docName = %q, want metrics.json", docName)
	}
}

func TestReadInput_MissingFile(t *testing.T) {
	_, _, _, err := readInput([]string{"/nonexistent/nope.json"}, config.DefaultConfig())
	if err == nil {
		t.Error("expected error for missing file")
	}
}
