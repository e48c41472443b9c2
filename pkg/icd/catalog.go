package icd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/clinscribe/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Sentinel values shown when the inference collaborator returns no
// usable ICD-10 suggestion.
const (
	SentinelCode        = "N/A"
	SentinelDescription = "No ICD-10 suggestion available"
)

var codePattern = regexp.MustCompile(`^[A-TV-Z][0-9][0-9A-Z](?:\.[0-9A-Z]{1,4})?$`)

// IsValidCode reports whether s matches the ICD-10 code shape.
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

type Entry struct {
	Code        string   `yaml:"code" json:"code"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
}

type Catalog struct {
	Entries []Entry `yaml:"entries" json:"entries"`

	byCode map[string]Entry
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Entries) == 0 {
		return Catalog{}, fmt.Errorf("icd catalog empty")
	}
	cat.index()
	return cat, nil
}

func (c *Catalog) index() {
	c.byCode = make(map[string]Entry, len(c.Entries))
	for _, e := range c.Entries {
		c.byCode[strings.ToUpper(e.Code)] = e
	}
}

func (c Catalog) Lookup(code string) (Entry, bool) {
	entry, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return entry, ok
}

// Suggest scores catalog entries against the clinical text by keyword
// occurrence and returns the topn best matches. An empty result is valid;
// callers apply the N/A sentinel at display time.
func (c Catalog) Suggest(text string, topn int) []models.ICDSuggestion {
	if topn <= 0 {
		topn = 5
	}
	lowered := strings.ToLower(text)

	var suggestions []models.ICDSuggestion
	for _, entry := range c.Entries {
		hits := 0
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := 40 + 15*hits
		if score > 95 {
			score = 95
		}
		suggestions = append(suggestions, models.ICDSuggestion{
			Code:        entry.Code,
			Description: entry.Description,
			Score:       score,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > topn {
		suggestions = suggestions[:topn]
	}
	return suggestions
}

func DefaultCatalog() Catalog {
	cat := Catalog{Entries: []Entry{
		{Code: "I10", Description: "Essential (primary) hypertension", Category: "Circulatory", Keywords: []string{"hypertension", "high blood pressure", "htn"}},
		{Code: "E11.9", Description: "Type 2 diabetes mellitus without complications", Category: "Endocrine", Keywords: []string{"diabetes", "diabetic", "hyperglycemia"}},
		{Code: "J18.9", Description: "Pneumonia, unspecified organism", Category: "Respiratory", Keywords: []string{"pneumonia", "pneumonitis", "lung infiltrate"}},
		{Code: "A41.9", Description: "Sepsis, unspecified organism", Category: "Infectious", Keywords: []string{"sepsis", "septic", "bacteremia"}},
		{Code: "C71.9", Description: "Malignant neoplasm of brain, unspecified", Category: "Neoplasms", Keywords: []string{"brain tumor", "glioma", "glioblastoma", "intracranial mass"}},
		{Code: "D49.6", Description: "Neoplasm of unspecified behavior of brain", Category: "Neoplasms", Keywords: []string{"tumor", "neoplasm", "mass lesion", "malignancy"}},
		{Code: "I63.9", Description: "Cerebral infarction, unspecified", Category: "Circulatory", Keywords: []string{"stroke", "cerebral infarction", "cva", "cerebrovascular"}},
		{Code: "I21.9", Description: "Acute myocardial infarction, unspecified", Category: "Circulatory", Keywords: []string{"myocardial infarction", "heart attack", "stemi"}},
		{Code: "J45.909", Description: "Unspecified asthma, uncomplicated", Category: "Respiratory", Keywords: []string{"asthma", "wheezing", "bronchospasm"}},
		{Code: "J44.9", Description: "Chronic obstructive pulmonary disease, unspecified", Category: "Respiratory", Keywords: []string{"copd", "chronic obstructive"}},
		{Code: "D64.9", Description: "Anemia, unspecified", Category: "Blood", Keywords: []string{"anemia", "low hemoglobin"}},
		{Code: "G93.40", Description: "Encephalopathy, unspecified", Category: "Nervous", Keywords: []string{"encephalopathy", "encephalitis", "altered mental status"}},
		{Code: "G40.909", Description: "Epilepsy, unspecified, not intractable", Category: "Nervous", Keywords: []string{"seizure", "epilepsy", "convulsion"}},
		{Code: "G43.909", Description: "Migraine, unspecified, not intractable", Category: "Nervous", Keywords: []string{"migraine", "headache"}},
		{Code: "R50.9", Description: "Fever, unspecified", Category: "Symptoms", Keywords: []string{"fever", "pyrexia", "febrile"}},
	}}
	cat.index()
	return cat
}
