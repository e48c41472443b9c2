package report

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/clinscribe/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&reportModel{})
}

func (r *Repository) Create(ctx context.Context, rep models.Report) error {
	var existing reportModel
	err := r.db.WithContext(ctx).First(&existing, "report_uid = ?", rep.ReportUID).Error
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row := &reportModel{
		ReportUID:        rep.ReportUID,
		PatientUID:       rep.PatientUID,
		PatientName:      rep.PatientName,
		DoctorName:       rep.DoctorName,
		ClinicalSummary:  rep.ClinicalSummary,
		ICD10Code:        rep.ICD10Code,
		ICD10Description: rep.ICD10Description,
		ICD10Category:    rep.ICD10Category,
		ConfidenceScore:  rep.ConfidenceScore,
		ImageCaption:     rep.ImageCaption,
		AIModelUsed:      rep.AIModelUsed,
		CreatedAt:        rep.CreatedAt,
	}
	if data, err := json.Marshal(emptyIfNil(rep.Findings)); err == nil {
		row.Findings = datatypes.JSON(data)
	}
	if data, err := json.Marshal(emptyIfNil(rep.Recommendations)); err == nil {
		row.Recommendations = datatypes.JSON(data)
	}
	if rep.ReportData != nil {
		if data, err := json.Marshal(rep.ReportData); err == nil {
			row.ReportData = datatypes.JSON(data)
		}
	}

	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Get(ctx context.Context, uid string) (models.Report, error) {
	var row reportModel
	if err := r.db.WithContext(ctx).First(&row, "report_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Report{}, ErrNotFound
		}
		return models.Report{}, err
	}
	return toReport(&row), nil
}

func (r *Repository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}

	query := r.db.WithContext(ctx).Model(&reportModel{})
	if filter.PatientUID != "" {
		query = query.Where("patient_uid = ?", filter.PatientUID)
	}
	if filter.DoctorName != "" {
		query = query.Where("doctor_name = ?", filter.DoctorName)
	}

	var rows []reportModel
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0, len(rows))
	for i := range rows {
		reports = append(reports, toReport(&rows[i]))
	}
	return reports, nil
}

func (r *Repository) Delete(ctx context.Context, uid string) error {
	var row reportModel
	if err := r.db.WithContext(ctx).First(&row, "report_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return r.db.WithContext(ctx).Delete(&reportModel{}, "report_uid = ?", uid).Error
}

func toReport(row *reportModel) models.Report {
	rep := models.Report{
		ReportUID:        row.ReportUID,
		PatientUID:       row.PatientUID,
		PatientName:      row.PatientName,
		DoctorName:       row.DoctorName,
		ClinicalSummary:  row.ClinicalSummary,
		ICD10Code:        row.ICD10Code,
		ICD10Description: row.ICD10Description,
		ICD10Category:    row.ICD10Category,
		ConfidenceScore:  row.ConfidenceScore,
		ImageCaption:     row.ImageCaption,
		AIModelUsed:      row.AIModelUsed,
		CreatedAt:        row.CreatedAt,
		Findings:         []string{},
		Recommendations:  []string{},
	}
	if len(row.Findings) > 0 {
		_ = json.Unmarshal(row.Findings, &rep.Findings)
	}
	if len(row.Recommendations) > 0 {
		_ = json.Unmarshal(row.Recommendations, &rep.Recommendations)
	}
	if len(row.ReportData) > 0 {
		_ = json.Unmarshal(row.ReportData, &rep.ReportData)
	}
	return rep
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
