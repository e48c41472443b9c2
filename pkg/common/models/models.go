package models

import (
	"time"
)

// Patient API models
type Patient struct {
	PatientUID       string                 `json:"patient_uid"`
	Name             string                 `json:"name,omitempty"`
	Age              *int                   `json:"age,omitempty"`
	Gender           string                 `json:"gender,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
	ClinicalNotes    string                 `json:"clinical_notes,omitempty"`
	ICD10Code        string                 `json:"icd10_code,omitempty"`
	ICD10Description string                 `json:"icd10_description,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

type CreatePatientRequest struct {
	PatientUID       string                 `json:"patient_uid,omitempty"`
	Name             string                 `json:"name,omitempty"`
	Age              *int                   `json:"age,omitempty"`
	Gender           string                 `json:"gender,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
	ClinicalNotes    string                 `json:"clinical_notes,omitempty"`
	ICD10Code        string                 `json:"icd10_code,omitempty"`
	ICD10Description string                 `json:"icd10_description,omitempty"`
}

// UpdatePatientRequest carries partial updates; nil fields are left untouched.
type UpdatePatientRequest struct {
	Name             *string                `json:"name,omitempty"`
	Age              *int                   `json:"age,omitempty"`
	Gender           *string                `json:"gender,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
	ClinicalNotes    *string                `json:"clinical_notes,omitempty"`
	ICD10Code        *string                `json:"icd10_code,omitempty"`
	ICD10Description *string                `json:"icd10_description,omitempty"`
}

// SummaryEntry is one element of a patient's rolling summary history,
// stored inside the extra bag under "summary_history".
type SummaryEntry struct {
	ReportUID        string `json:"report_uid"`
	ICD10Code        string `json:"icd10_code,omitempty"`
	ICD10Description string `json:"icd10_description,omitempty"`
	ClinicalSummary  string `json:"clinical_summary"`
	CreatedAt        string `json:"created_at"`
}

// Report API models
type Report struct {
	ReportUID        string                 `json:"report_uid"`
	PatientUID       string                 `json:"patient_uid"`
	PatientName      string                 `json:"patient_name,omitempty"`
	DoctorName       string                 `json:"doctor_name,omitempty"`
	ClinicalSummary  string                 `json:"clinical_summary,omitempty"`
	ICD10Code        string                 `json:"icd10_code,omitempty"`
	ICD10Description string                 `json:"icd10_description,omitempty"`
	ICD10Category    string                 `json:"icd10_category,omitempty"`
	ConfidenceScore  *float64               `json:"confidence_score,omitempty"`
	Findings         []string               `json:"findings"`
	Recommendations  []string               `json:"recommendations"`
	ImageCaption     string                 `json:"image_caption,omitempty"`
	AIModelUsed      string                 `json:"ai_model_used,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	ReportData       map[string]interface{} `json:"report_data,omitempty"`
}

type CreateReportRequest struct {
	ReportUID        string                 `json:"report_uid,omitempty"`
	PatientUID       string                 `json:"patient_uid"`
	PatientName      string                 `json:"patient_name,omitempty"`
	PatientAge       *int                   `json:"patient_age,omitempty"`
	PatientGender    string                 `json:"patient_gender,omitempty"`
	DoctorName       string                 `json:"doctor_name,omitempty"`
	ClinicalSummary  string                 `json:"clinical_summary"`
	ICD10Code        string                 `json:"icd10_code,omitempty"`
	ICD10Description string                 `json:"icd10_description,omitempty"`
	ICD10Category    string                 `json:"icd10_category,omitempty"`
	ConfidenceScore  *float64               `json:"confidence_score,omitempty"`
	Findings         []string               `json:"findings,omitempty"`
	Recommendations  []string               `json:"recommendations,omitempty"`
	ImageCaption     string                 `json:"image_caption,omitempty"`
	AIModelUsed      string                 `json:"ai_model_used,omitempty"`
	ReportData       map[string]interface{} `json:"report_data,omitempty"`
}

type ReportFilter struct {
	PatientUID string
	DoctorName string
	Skip       int
	Limit      int
}

// Summary generation models
type SummaryRequest struct {
	PatientUID   string   `json:"patient_uid,omitempty"`
	ClinicalText string   `json:"clinical_text"`
	Images       []string `json:"images,omitempty"` // base64 encoded
	UseHF        *bool    `json:"use_hf,omitempty"`
}

type ICDSuggestion struct {
	Code        string `json:"code"`
	Description string `json:"desc"`
	Score       int    `json:"score"`
}

type ImageInfo struct {
	Index        int    `json:"index"`
	EnhancedSize int    `json:"enhanced_size,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Error        string `json:"error,omitempty"`
}

type SummaryResponse struct {
	ModelOutput     string          `json:"model_output"`
	Findings        []string        `json:"findings"`
	Recommendations []string        `json:"recommendations"`
	ICDSuggestions  []ICDSuggestion `json:"icd_suggestions"`
	ImagesInfo      []ImageInfo     `json:"images_info"`
	Patient         *Patient        `json:"patient,omitempty"`
	AIModelUsed     string          `json:"ai_model_used"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // report_saved, report_deleted
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
