package summary

import (
	"strings"
	"testing"
)

func TestAnalyzeClinicalText(t *testing.T) {
	note := `Patient presenting with severe headache and nausea.
Diagnosed with hypertension. BP: 160/95, Temperature: 38.2.
MRI reveals abnormal signal in left temporal lobe.`

	analysis := analyzeClinicalText(note)

	if len(analysis.Symptoms) == 0 {
		t.Fatal("expected symptoms extracted")
	}
	hasHeadache := false
	for _, s := range analysis.Symptoms {
		if strings.Contains(s, "headache") {
			hasHeadache = true
		}
	}
	if !hasHeadache {
		t.Fatalf("expected headache in symptoms, got %v", analysis.Symptoms)
	}
	if len(analysis.Diagnoses) == 0 {
		t.Fatalf("expected diagnoses extracted, got %v", analysis.Diagnoses)
	}
	if analysis.LabValues["Blood Pressure"] != "160/95" {
		t.Fatalf("expected BP captured, got %v", analysis.LabValues)
	}
	if analysis.LabValues["Temperature"] != "38.2" {
		t.Fatalf("expected temperature captured, got %v", analysis.LabValues)
	}
	if len(analysis.Findings) == 0 {
		t.Fatal("expected findings sentence captured")
	}
}

func TestComposeFallbackNarrativeSections(t *testing.T) {
	out := composeFallbackNarrative("Patient complains of fever. WBC: 14.2.")

	for _, section := range []string{
		"CLINICAL SUMMARY:",
		"KEY FINDINGS:",
		"PRESENTING SYMPTOMS:",
		"POTENTIAL DIAGNOSES:",
		"LABORATORY VALUES:",
		"RECOMMENDATIONS:",
	} {
		if !strings.Contains(out, section) {
			t.Fatalf("narrative missing section %q", section)
		}
	}
	if !strings.Contains(out, "- WBC: 14.2") {
		t.Fatalf("expected WBC lab line, got:\n%s", out)
	}
	if !strings.Contains(out, "Follow-up as clinically indicated") {
		t.Fatal("expected fixed recommendation bullets")
	}
}

func TestComposeFallbackNarrativeTruncatesLongNotes(t *testing.T) {
	long := strings.Repeat("chronic cough documented. ", 100)
	out := composeFallbackNarrative(long)
	if !strings.Contains(out, "...") {
		t.Fatal("expected long note truncated in summary section")
	}
}
