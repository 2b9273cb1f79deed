package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "input_archive"),
		filepath.Join(root, "output_archive"),
	)
	if err := fm.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return fm
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)
	for _, name := range []string{"b.xlsx", "a.csv", "notes.txt", "~$b.xlsx"} {
		touch(t, filepath.Join(fm.InputDir, name))
	}
	if err := os.Mkdir(filepath.Join(fm.InputDir, "dir.xlsx"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := fm.DiscoverInputFiles([]string{"*.xlsx", "*.csv", "b.*"})
	if err != nil {
		t.Fatalf("DiscoverInputFiles: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if strings.Join(names, ",") != "a.csv,b.xlsx" {
		t.Fatalf("files = %v", names)
	}
}

func TestArchiveInputFileByMonth(t *testing.T) {
	fm := newTestManager(t)
	src := filepath.Join(fm.InputDir, "march.xlsx")
	touch(t, src)

	archived, err := fm.ArchiveInputFile(src, "2024-03")
	if err != nil {
		t.Fatalf("ArchiveInputFile: %v", err)
	}
	if archived != filepath.Join(fm.InputArchiveDir, "2024-03", "march.xlsx") {
		t.Errorf("archived to %s", archived)
	}
	if FileExists(src) {
		t.Error("input file was not moved")
	}

	// A second file of the same name must not overwrite the first.
	touch(t, src)
	second, err := fm.ArchiveInputFile(src, "2024-03")
	if err != nil {
		t.Fatalf("ArchiveInputFile: %v", err)
	}
	if second == archived || !FileExists(archived) || !FileExists(second) {
		t.Errorf("collision handling failed: %s vs %s", archived, second)
	}
}

func TestArchiveDisabled(t *testing.T) {
	fm := newTestManager(t)
	fm.ArchiveOnSuccess = false
	src := filepath.Join(fm.OutputDir, "out.json")
	touch(t, src)

	got, err := fm.ArchiveOutputFile(src, "2024-03")
	if err != nil || got != src {
		t.Fatalf("ArchiveOutputFile = %q, %v", got, err)
	}
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{original}_{month}_{uuid}", ".json", map[string]string{
		"original": "march",
		"month":    "2024-03",
	})
	if !strings.HasPrefix(name, "march_2024-03_") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("name = %q", name)
	}
	if len(name) != len("march_2024-03_")+36+len(".json") {
		t.Errorf("uuid placeholder not expanded: %q", name)
	}

	if got := GenerateOutputFileName("report.xml", ".xml", nil); got != "report.xml" {
		t.Errorf("extension duplicated: %q", got)
	}
}

func TestWriteLogs(t *testing.T) {
	fm := newTestManager(t)

	path, err := WriteErrorLog([]ErrorLogEntry{{
		Timestamp:     time.Now(),
		FileName:      "march.xlsx",
		ErrorType:     "validation",
		ErrorMessage:  `Missing required field "Status"`,
		RowNumber:     7,
		InvoiceNumber: "INV-2",
	}}, fm.OutputDir)
	if err != nil {
		t.Fatalf("WriteErrorLog: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Row Number:     7") || !strings.Contains(string(data), "INV-2") {
		t.Errorf("error log:\n%s", data)
	}

	if p, err := WriteErrorLog(nil, fm.OutputDir); p != "" || err != nil {
		t.Errorf("empty error log = %q, %v", p, err)
	}

	path, err = WriteSummaryLog(ProcessingSummary{
		InvoicingMonth:  "2024-03",
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		FailedFilesList: []FailedFileInfo{{InputFile: "bad.xlsx", ErrorType: "PeriodMismatch", ErrorMessage: "mismatch"}},
	}, fm.OutputDir)
	if err != nil {
		t.Fatalf("WriteSummaryLog: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "Invoicing Month: 2024-03") || !strings.Contains(string(data), "PeriodMismatch") {
		t.Errorf("summary:\n%s", data)
	}
}
