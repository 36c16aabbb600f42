package staging

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

func testRecords() []store.Record {
	return []store.Record{
		{ID: "1", Name: "Heat", Year: 1995, Cast: []string{"Al Pacino", "Robert De Niro"}},
		{ID: "2", Name: "Fargo", Year: 1996, Cast: []string{}},
	}
}

func readExport(t *testing.T, path string) []store.Record {
	t.Helper()
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	var recs []store.Record
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		var rec store.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return recs
}

func TestStagingManager(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewManager(tmpDir)

	if mgr.FinalDir() != tmpDir {
		t.Errorf("expected FinalDir %s, got %s", tmpDir, mgr.FinalDir())
	}

	expectedStaging := filepath.Join(tmpDir, ".staging", "records.jsonl")
	if mgr.StagingPath("records.jsonl") != expectedStaging {
		t.Errorf("expected StagingPath %s, got %s", expectedStaging, mgr.StagingPath("records.jsonl"))
	}

	size, err := mgr.WriteToStaging(context.Background(), "records.jsonl", testRecords())
	if err != nil {
		t.Fatalf("WriteToStaging failed: %v", err)
	}

	info, err := os.Stat(expectedStaging)
	if err != nil {
		t.Fatalf("staged file missing: %v", err)
	}
	if info.Size() != size {
		t.Errorf("expected size %d, got %d", info.Size(), size)
	}

	// Verify no .tmp file exists
	if _, err := os.Stat(expectedStaging + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not exist after successful write")
	}

	// Not visible in the final directory until committed
	finalPath := filepath.Join(tmpDir, "records.jsonl")
	if _, err := os.Stat(finalPath); !os.IsNotExist(err) {
		t.Error("export should not be in final dir before commit")
	}

	if err := mgr.Commit("records.jsonl"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	recs := readExport(t, finalPath)
	if len(recs) != 2 || recs[0].Name != "Heat" || recs[1].Name != "Fargo" {
		t.Errorf("unexpected export contents: %+v", recs)
	}

	if err := mgr.CleanupStaging(); err != nil {
		t.Fatalf("CleanupStaging failed: %v", err)
	}
	if _, err := os.Stat(mgr.StagingRoot()); !os.IsNotExist(err) {
		t.Error("staging directory should be removed")
	}
}

func TestExport_Compressed(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewManager(tmpDir)

	if _, err := mgr.Export(context.Background(), "records.jsonl.zst", testRecords()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(tmpDir, "records.jsonl.zst")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Heat") {
		t.Error("expected compressed output")
	}

	recs := readExport(t, path)
	if len(recs) != 2 || recs[0].Cast[1] != "Robert De Niro" {
		t.Errorf("unexpected export contents: %+v", recs)
	}
}

func TestExport_CancelledLeavesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	mgr := NewManager(tmpDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mgr.Export(ctx, "records.jsonl", testRecords()); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestOpen_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.jsonl")
	if err := os.WriteFile(path, []byte("hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello\n" {
		t.Errorf("unexpected content %q", data)
	}
}
