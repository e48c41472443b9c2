package summary

import (
	"reflect"
	"testing"
)

func TestParseNarrative(t *testing.T) {
	output := `CHIEF COMPLAINT: headache

KEY FINDINGS:
- mass in left temporal lobe
* elevated WBC
1. fever on admission

IMPRESSION:
likely infectious process

Recommendations:
- neurosurgical referral
- repeat labs in 24h`

	findings, recommendations := ParseNarrative(output)

	wantFindings := []string{"mass in left temporal lobe", "elevated WBC", "fever on admission"}
	if !reflect.DeepEqual(findings, wantFindings) {
		t.Fatalf("findings = %v, want %v", findings, wantFindings)
	}
	wantRecs := []string{"neurosurgical referral", "repeat labs in 24h"}
	if !reflect.DeepEqual(recommendations, wantRecs) {
		t.Fatalf("recommendations = %v, want %v", recommendations, wantRecs)
	}
}

func TestParseNarrativeAlternateHeaders(t *testing.T) {
	output := "FINDINGS:\n- a\n\nNEXT STEPS:\n- b\n"
	findings, recommendations := ParseNarrative(output)
	if len(findings) != 1 || findings[0] != "a" {
		t.Fatalf("findings = %v", findings)
	}
	if len(recommendations) != 1 || recommendations[0] != "b" {
		t.Fatalf("recommendations = %v", recommendations)
	}
}

func TestParseNarrativeIgnoresUnknownSections(t *testing.T) {
	output := "DIFFERENTIAL:\n- not captured\n\nKEY FINDINGS:\n- captured\n"
	findings, recommendations := ParseNarrative(output)
	if len(findings) != 1 || findings[0] != "captured" {
		t.Fatalf("findings = %v", findings)
	}
	if len(recommendations) != 0 {
		t.Fatalf("recommendations = %v", recommendations)
	}
}
