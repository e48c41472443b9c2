package patient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("patient not found")
	ErrDuplicate = errors.New("patient UID already exists")
)

type patientModel struct {
	PatientUID       string         `gorm:"primaryKey;column:patient_uid"`
	Name             string         `gorm:"column:name"`
	Age              *int           `gorm:"column:age"`
	Gender           string         `gorm:"column:gender"`
	Extra            datatypes.JSON `gorm:"column:extra"`
	ClinicalNotes    string         `gorm:"column:clinical_notes;type:text"`
	ICD10Code        string         `gorm:"column:icd10_code"`
	ICD10Description string         `gorm:"column:icd10_description"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (patientModel) TableName() string { return "patients" }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&patientModel{})
}

func (r *Repository) Create(ctx context.Context, req models.CreatePatientRequest) (models.Patient, error) {
	uid := req.PatientUID
	if uid == "" {
		uid = uuid.New().String()
	}

	var existing patientModel
	err := r.db.WithContext(ctx).First(&existing, "patient_uid = ?", uid).Error
	if err == nil {
		return models.Patient{}, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Patient{}, err
	}

	now := time.Now().UTC()
	row := &patientModel{
		PatientUID:       uid,
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		ClinicalNotes:    req.ClinicalNotes,
		ICD10Code:        req.ICD10Code,
		ICD10Description: req.ICD10Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Extra != nil {
		if data, err := json.Marshal(req.Extra); err == nil {
			row.Extra = datatypes.JSON(data)
		}
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Patient{}, err
	}
	return toPatient(row), nil
}

func (r *Repository) Get(ctx context.Context, uid string) (models.Patient, error) {
	var row patientModel
	if err := r.db.WithContext(ctx).First(&row, "patient_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, ErrNotFound
		}
		return models.Patient{}, err
	}
	return toPatient(&row), nil
}

func (r *Repository) Update(ctx context.Context, uid string, req models.UpdatePatientRequest) (models.Patient, error) {
	var row patientModel
	if err := r.db.WithContext(ctx).First(&row, "patient_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, ErrNotFound
		}
		return models.Patient{}, err
	}

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.ClinicalNotes != nil {
		updates["clinical_notes"] = *req.ClinicalNotes
	}
	if req.ICD10Code != nil {
		updates["icd10_code"] = *req.ICD10Code
	}
	if req.ICD10Description != nil {
		updates["icd10_description"] = *req.ICD10Description
	}
	if req.Extra != nil {
		if data, err := json.Marshal(req.Extra); err == nil {
			updates["extra"] = datatypes.JSON(data)
		}
	}

	if err := r.db.WithContext(ctx).Model(&patientModel{}).Where("patient_uid = ?", uid).Updates(updates).Error; err != nil {
		return models.Patient{}, err
	}
	return r.Get(ctx, uid)
}

func (r *Repository) List(ctx context.Context, skip, limit int) ([]models.Patient, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	var rows []patientModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(skip).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	patients := make([]models.Patient, 0, len(rows))
	for i := range rows {
		patients = append(patients, toPatient(&rows[i]))
	}
	return patients, nil
}

// Delete removes the patient and every report referencing it.
func (r *Repository) Delete(ctx context.Context, uid string) error {
	var row patientModel
	if err := r.db.WithContext(ctx).First(&row, "patient_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := r.db.WithContext(ctx).Exec("DELETE FROM reports WHERE patient_uid = ?", uid).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&patientModel{}, "patient_uid = ?", uid).Error
}

// Ensure returns the patient for uid, creating it when unseen and refreshing
// the demographics supplied with a report save. Best-effort upsert: no
// locking, last write wins.
func (r *Repository) Ensure(ctx context.Context, uid, name string, age *int, gender string) (models.Patient, error) {
	var row patientModel
	err := r.db.WithContext(ctx).First(&row, "patient_uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now().UTC()
		row = patientModel{
			PatientUID: uid,
			Name:       name,
			Age:        age,
			Gender:     gender,
			Extra:      datatypes.JSON([]byte(`{}`)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return models.Patient{}, err
		}
		return toPatient(&row), nil
	}
	if err != nil {
		return models.Patient{}, err
	}

	updates := map[string]interface{}{}
	if name != "" && row.Name != name {
		updates["name"] = name
	}
	if age != nil && (row.Age == nil || *row.Age != *age) {
		updates["age"] = *age
	}
	if gender != "" && row.Gender != gender {
		updates["gender"] = gender
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(&patientModel{}).Where("patient_uid = ?", uid).Updates(updates).Error; err != nil {
			return models.Patient{}, err
		}
	}
	return r.Get(ctx, uid)
}

// AppendSummary folds a report's summary into the patient's rolling history
// and the flat clinical-notes log.
func (r *Repository) AppendSummary(ctx context.Context, uid string, entry models.SummaryEntry, historyCap int) error {
	var row patientModel
	if err := r.db.WithContext(ctx).First(&row, "patient_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	extra := jsonMap(row.Extra)
	merged, notes := MergeSummaryEntry(extra, row.ClinicalNotes, entry, historyCap)

	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&patientModel{}).Where("patient_uid = ?", uid).Updates(map[string]interface{}{
		"extra":          datatypes.JSON(data),
		"clinical_notes": notes,
		"updated_at":     time.Now().UTC(),
	}).Error
}

func toPatient(row *patientModel) models.Patient {
	return models.Patient{
		PatientUID:       row.PatientUID,
		Name:             row.Name,
		Age:              row.Age,
		Gender:           row.Gender,
		Extra:            jsonMap(row.Extra),
		ClinicalNotes:    row.ClinicalNotes,
		ICD10Code:        row.ICD10Code,
		ICD10Description: row.ICD10Description,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func jsonMap(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var result map[string]interface{}
	_ = json.Unmarshal(data, &result)
	return result
}
