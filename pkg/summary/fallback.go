package summary

import (
	"fmt"
	"regexp"
	"strings"
)

// textAnalysis holds the structured fragments the local heuristic pulls out
// of free-text clinical notes.
type textAnalysis struct {
	Symptoms  []string
	Diagnoses []string
	LabValues map[string]string
	Findings  []string
}

var (
	symptomPhrasePattern = regexp.MustCompile(`(?i)(?:presenting with|complains of|symptoms include|symptom:)\s+([^.\n]+)`)
	symptomWordPattern   = regexp.MustCompile(`(?i)\b(headache|chest pain|fever|nausea|vomiting|dizziness|fatigue|shortness of breath|seizure|weakness)\b`)

	diagnosisPhrasePattern = regexp.MustCompile(`(?i)(?:diagnosis|diagnosed with|condition:)\s+([^.\n]+)`)
	diagnosisWordPattern   = regexp.MustCompile(`(?i)\b(hypertension|diabetes|pneumonia|infection|sepsis|tumor|cancer|glioma|stroke|myocardial infarction|asthma|copd|anemia|epilepsy|migraine)\b`)

	labPatterns = map[string]*regexp.Regexp{
		"WBC":            regexp.MustCompile(`(?i)(?:WBC|white blood cell)[:\s]+([0-9.]+)`),
		"Hemoglobin":     regexp.MustCompile(`(?i)(?:hemoglobin|Hb)[:\s]+([0-9.]+)`),
		"Blood Pressure": regexp.MustCompile(`(?i)(?:blood pressure|BP)[:\s]+([0-9]+/[0-9]+)`),
		"Temperature":    regexp.MustCompile(`(?i)(?:temperature|temp)[:\s]+([0-9.]+)`),
	}

	findingTerms = []string{
		"abnormal", "elevated", "decreased", "finding", "shows", "demonstrates",
		"reveals", "consistent with", "suggestive of", "indicates",
	}
)

func analyzeClinicalText(text string) textAnalysis {
	analysis := textAnalysis{LabValues: map[string]string{}}

	seen := map[string]bool{}
	collect := func(dst *[]string, values []string, cap int) {
		for _, v := range values {
			v = strings.TrimSpace(strings.ToLower(v))
			if v == "" || seen[v] || len(*dst) >= cap {
				continue
			}
			seen[v] = true
			*dst = append(*dst, v)
		}
	}

	for _, m := range symptomPhrasePattern.FindAllStringSubmatch(text, -1) {
		collect(&analysis.Symptoms, []string{m[1]}, 5)
	}
	for _, m := range symptomWordPattern.FindAllStringSubmatch(text, -1) {
		collect(&analysis.Symptoms, []string{m[1]}, 5)
	}
	for _, m := range diagnosisPhrasePattern.FindAllStringSubmatch(text, -1) {
		collect(&analysis.Diagnoses, []string{m[1]}, 3)
	}
	for _, m := range diagnosisWordPattern.FindAllStringSubmatch(text, -1) {
		collect(&analysis.Diagnoses, []string{m[1]}, 3)
	}

	for name, pattern := range labPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			analysis.LabValues[name] = m[1]
		}
	}

	for _, sentence := range regexp.MustCompile(`[.!?]+`).Split(text, -1) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" || len(analysis.Findings) >= 5 {
			continue
		}
		lowered := strings.ToLower(trimmed)
		for _, term := range findingTerms {
			if strings.Contains(lowered, term) {
				analysis.Findings = append(analysis.Findings, trimmed)
				break
			}
		}
	}

	return analysis
}

// composeFallbackNarrative builds the fixed-section clinical narrative used
// when the hosted collaborator is unavailable or disabled.
func composeFallbackNarrative(clinicalText string) string {
	analysis := analyzeClinicalText(clinicalText)

	var b strings.Builder
	b.WriteString("CLINICAL SUMMARY:\n\n")
	b.WriteString(truncate(clinicalText, 400))
	b.WriteString("\n\nKEY FINDINGS:\n")
	writeBullets(&b, analysis.Findings, "Clinical data reviewed")
	b.WriteString("\nPRESENTING SYMPTOMS:\n")
	writeBullets(&b, analysis.Symptoms, "Symptoms documented in clinical notes")
	b.WriteString("\nPOTENTIAL DIAGNOSES:\n")
	writeBullets(&b, analysis.Diagnoses, "Requires clinical correlation")
	b.WriteString("\nLABORATORY VALUES:\n")
	if len(analysis.LabValues) == 0 {
		b.WriteString("- Lab values documented in notes\n")
	} else {
		for _, name := range []string{"WBC", "Hemoglobin", "Blood Pressure", "Temperature"} {
			if v, ok := analysis.LabValues[name]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", name, v)
			}
		}
	}
	b.WriteString("\nRECOMMENDATIONS:\n")
	b.WriteString("- Clinical correlation with patient history required\n")
	b.WriteString("- Review all diagnostic parameters\n")
	b.WriteString("- Follow-up as clinically indicated\n")

	return b.String()
}

func writeBullets(b *strings.Builder, values []string, placeholder string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "- %s\n", placeholder)
		return
	}
	for _, v := range values {
		fmt.Fprintf(b, "- %s\n", v)
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
