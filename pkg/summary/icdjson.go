package summary

import (
	"encoding/json"
	"strings"
)

type icdItem struct {
	Code        string `json:"code"`
	Description string `json:"desc"`
}

// extractICDItems pulls the first JSON object out of a model response and
// reads its icd10 list. Models wrap the JSON in prose often enough that a
// plain Unmarshal of the whole output is not reliable.
func extractICDItems(output string) []icdItem {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end <= start {
		return nil
	}

	var parsed struct {
		ICD10 []icdItem `json:"icd10"`
	}
	if err := json.Unmarshal([]byte(output[start:end+1]), &parsed); err != nil {
		return nil
	}
	return parsed.ICD10
}
