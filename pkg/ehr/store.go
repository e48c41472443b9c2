package ehr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/clinscribe/platform/pkg/common/logger"
)

var (
	// ErrNotFound means no EHR row matched the requested patient id.
	ErrNotFound = errors.New("patient not found in EHR data")
	// ErrUnavailable means the seed file is absent or has no usable id column.
	ErrUnavailable = errors.New("EHR data unavailable")
)

// Record is one row of the seeded EHR extract, shaped for the API response.
type Record struct {
	PatientID           string              `json:"patient_id"`
	Age                 *int                `json:"age"`
	Sex                 string              `json:"sex"`
	ClinicalDescription string              `json:"clinical_description"`
	DateOfDiagnosis     string              `json:"date_of_diagnosis"`
	TumorType           string              `json:"tumor_type"`
	ICD10Code           string              `json:"icd10_code"`
	LaboratoryFindings  map[string]*float64 `json:"laboratory_findings"`
	ImagingFindings     string              `json:"imaging_findings"`
	Treatment           string              `json:"treatment"`
	Outcome             string              `json:"outcome"`
}

// idHeaders are the column names accepted for the patient identifier,
// checked in order.
var idHeaders = []string{"PatientID", "Patient_ID", "patient_id", "MRN"}

// labColumns maps response lab names to their CSV headers.
var labColumns = map[string]string{
	"WBC":        "WBC_10^9_per_L",
	"Hemoglobin": "Hemoglobin_g_per_dL",
	"Platelets":  "Platelets_10^9_per_L",
	"CRP":        "CRP_mg_per_L",
	"ESR":        "ESR_mm_per_hr",
	"Creatinine": "Creatinine_mg_per_dL",
	"ALT":        "ALT_U_per_L",
	"AST":        "AST_U_per_L",
}

// Store holds the EHR extract in memory. Rows are loaded once at startup;
// the seed file is read-only reference data.
type Store struct {
	records []Record
}

// Load reads the CSV extract at path. A missing file yields an empty store
// rather than an error so the API can report unavailability per request.
func Load(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		logger.Log.WithError(err).WithField("path", path).Warn("EHR seed file not loaded")
		return &Store{}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		logger.Log.WithError(err).WithField("path", path).Warn("EHR seed file unreadable")
		return &Store{}
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	idCol := -1
	for _, candidate := range idHeaders {
		if i, ok := header[candidate]; ok {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		logger.Log.WithField("path", path).Warn("EHR seed file has no patient id column")
		return &Store{}
	}

	store := &Store{records: make([]Record, 0, len(rows)-1)}
	cell := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for _, row := range rows[1:] {
		if idCol >= len(row) || strings.TrimSpace(row[idCol]) == "" {
			continue
		}
		record := Record{
			PatientID:           strings.TrimSpace(row[idCol]),
			Sex:                 defaultString(cell(row, "Sex"), "N/A"),
			ClinicalDescription: cell(row, "Clinical_Description"),
			DateOfDiagnosis:     cell(row, "Date_of_Diagnosis"),
			TumorType:           cell(row, "Tumor_Type"),
			ICD10Code:           cell(row, "ICD10_Code"),
			ImagingFindings:     cell(row, "Imaging_Findings"),
			Treatment:           cell(row, "Treatment"),
			Outcome:             cell(row, "Outcome"),
			LaboratoryFindings:  map[string]*float64{},
		}
		if age, err := strconv.Atoi(cell(row, "Age")); err == nil {
			record.Age = &age
		}
		for name, column := range labColumns {
			record.LaboratoryFindings[name] = parseFloat(cell(row, column))
		}
		store.records = append(store.records, record)
	}

	logger.Log.WithField("records", len(store.records)).Info("EHR seed data loaded")
	return store
}

// Lookup finds the first record whose id contains patientID,
// case-insensitive, mirroring how clinicians search partial MRNs.
func (s *Store) Lookup(patientID string) (Record, error) {
	if len(s.records) == 0 {
		return Record{}, ErrUnavailable
	}
	needle := strings.ToLower(strings.TrimSpace(patientID))
	if needle == "" {
		return Record{}, fmt.Errorf("%w: empty patient id", ErrNotFound)
	}
	for _, record := range s.records {
		if strings.Contains(strings.ToLower(record.PatientID), needle) {
			return record, nil
		}
	}
	return Record{}, ErrNotFound
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
