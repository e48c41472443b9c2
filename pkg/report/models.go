package report

import (
	"context"
	"errors"
	"time"

	"github.com/clinscribe/platform/pkg/common/models"
	"gorm.io/datatypes"
)

var (
	ErrNotFound  = errors.New("report not found")
	ErrDuplicate = errors.New("report UID already exists")
)

type reportModel struct {
	ReportUID        string         `gorm:"primaryKey;column:report_uid"`
	PatientUID       string         `gorm:"column:patient_uid;index"`
	PatientName      string         `gorm:"column:patient_name"`
	DoctorName       string         `gorm:"column:doctor_name;index"`
	ClinicalSummary  string         `gorm:"column:clinical_summary;type:text"`
	ICD10Code        string         `gorm:"column:icd10_code;index"`
	ICD10Description string         `gorm:"column:icd10_description"`
	ICD10Category    string         `gorm:"column:icd10_category"`
	ConfidenceScore  *float64       `gorm:"column:confidence_score"`
	ImageCaption     string         `gorm:"column:image_caption;type:text"`
	Findings         datatypes.JSON `gorm:"column:findings_json"`
	Recommendations  datatypes.JSON `gorm:"column:recommendations_json"`
	ReportData       datatypes.JSON `gorm:"column:report_json"`
	AIModelUsed      string         `gorm:"column:ai_model_used"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
}

func (reportModel) TableName() string { return "reports" }

// Store is the persistence surface the service needs; satisfied by
// Repository and by in-memory fakes in tests.
type Store interface {
	Create(ctx context.Context, rep models.Report) error
	Get(ctx context.Context, uid string) (models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Delete(ctx context.Context, uid string) error
}

// PatientStore covers the patient-side effects of a report save;
// satisfied by patient.Repository.
type PatientStore interface {
	Ensure(ctx context.Context, uid, name string, age *int, gender string) (models.Patient, error)
	AppendSummary(ctx context.Context, uid string, entry models.SummaryEntry, historyCap int) error
}

// Publisher emits report lifecycle events; satisfied by kafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}
