package ehr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clinscribe/platform/pkg/common/logger"
)

func writeSeed(t *testing.T, header, row string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ehr.csv")
	if err := os.WriteFile(path, []byte(header+"\n"+row+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	logger.Init()
	path := writeSeed(t,
		"PatientID,Age,Sex,Clinical_Description,Tumor_Type,ICD10_Code,WBC_10^9_per_L,Hemoglobin_g_per_dL,Imaging_Findings,Treatment,Outcome",
		"BT-0001,54,M,Progressive headaches over 3 months,Glioblastoma,C71.9,8.4,13.1,Left temporal mass,Resection,Stable")

	store := Load(path)
	record, err := store.Lookup("BT-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.PatientID != "BT-0001" || record.TumorType != "Glioblastoma" || record.ICD10Code != "C71.9" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Age == nil || *record.Age != 54 {
		t.Fatalf("age = %v", record.Age)
	}
	if wbc := record.LaboratoryFindings["WBC"]; wbc == nil || *wbc != 8.4 {
		t.Fatalf("WBC = %v", wbc)
	}
	if record.LaboratoryFindings["CRP"] != nil {
		t.Fatal("expected nil for absent lab column")
	}
}

func TestLookupIsPartialAndCaseInsensitive(t *testing.T) {
	logger.Init()
	path := writeSeed(t, "Patient_ID,Age,Sex", "BT-0042,61,F")

	store := Load(path)
	record, err := store.Lookup("bt-0042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.PatientID != "BT-0042" {
		t.Fatalf("record = %+v", record)
	}
	if _, err := store.Lookup("0042"); err != nil {
		t.Fatalf("partial id should match: %v", err)
	}
	if _, err := store.Lookup("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	logger.Init()
	store := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := store.Lookup("anything"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
