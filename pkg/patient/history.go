package patient

import (
	"strings"

	"github.com/clinscribe/platform/pkg/common/models"
)

const DefaultHistoryCap = 50

// MergeSummaryEntry appends entry to the summary_history slice inside the
// extra bag (newest last, trimmed to the most recent historyCap entries) and
// appends a timestamped line to the flat clinical-notes log. The inputs are
// not mutated.
func MergeSummaryEntry(extra map[string]interface{}, notes string, entry models.SummaryEntry, historyCap int) (map[string]interface{}, string) {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}

	merged := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		merged[k] = v
	}

	history := asEntrySlice(merged["summary_history"])
	history = append(history, entry)
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	merged["summary_history"] = history

	formatted := "[" + entry.CreatedAt + "] " + strings.TrimSpace(entry.ClinicalSummary)
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		return merged, trimmed + "\n\n" + formatted
	}
	return merged, formatted
}

// asEntrySlice tolerates both freshly-built []SummaryEntry values and the
// []interface{} shape a JSON round trip produces.
func asEntrySlice(raw interface{}) []models.SummaryEntry {
	switch v := raw.(type) {
	case nil:
		return nil
	case []models.SummaryEntry:
		out := make([]models.SummaryEntry, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]models.SummaryEntry, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			out = append(out, models.SummaryEntry{
				ReportUID:        asString(m["report_uid"]),
				ICD10Code:        asString(m["icd10_code"]),
				ICD10Description: asString(m["icd10_description"]),
				ClinicalSummary:  asString(m["clinical_summary"]),
				CreatedAt:        asString(m["created_at"]),
			})
		}
		return out
	default:
		return nil
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
