package report

import (
	"context"
	"time"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/icd"
	"github.com/clinscribe/platform/pkg/observability/metrics"
	"github.com/google/uuid"
)

type Service struct {
	store      Store
	patients   PatientStore
	publisher  Publisher
	cache      Cache
	historyCap int
}

func NewService(store Store, patients PatientStore, publisher Publisher, cache Cache, historyCap int) *Service {
	return &Service{
		store:      store,
		patients:   patients,
		publisher:  publisher,
		cache:      cache,
		historyCap: historyCap,
	}
}

// Save persists the report and applies the patient-side effects: best-effort
// patient upsert, rolling summary history, and the flat clinical-notes log.
// Reports are immutable after creation except for deletion.
func (s *Service) Save(ctx context.Context, req models.CreateReportRequest) (models.Report, error) {
	if _, err := s.patients.Ensure(ctx, req.PatientUID, req.PatientName, req.PatientAge, req.PatientGender); err != nil {
		return models.Report{}, err
	}

	reportUID := req.ReportUID
	if reportUID == "" {
		reportUID = uuid.New().String()
	}

	code := req.ICD10Code
	description := req.ICD10Description
	if code == "" {
		code = icd.SentinelCode
		description = icd.SentinelDescription
	}

	now := time.Now().UTC()
	rep := models.Report{
		ReportUID:        reportUID,
		PatientUID:       req.PatientUID,
		PatientName:      req.PatientName,
		DoctorName:       req.DoctorName,
		ClinicalSummary:  req.ClinicalSummary,
		ICD10Code:        code,
		ICD10Description: description,
		ICD10Category:    req.ICD10Category,
		ConfidenceScore:  req.ConfidenceScore,
		Findings:         req.Findings,
		Recommendations:  req.Recommendations,
		ImageCaption:     req.ImageCaption,
		AIModelUsed:      req.AIModelUsed,
		CreatedAt:        now,
		ReportData:       req.ReportData,
	}

	if err := s.store.Create(ctx, rep); err != nil {
		return models.Report{}, err
	}

	entry := models.SummaryEntry{
		ReportUID:        reportUID,
		ICD10Code:        code,
		ICD10Description: description,
		ClinicalSummary:  req.ClinicalSummary,
		CreatedAt:        now.Format(time.RFC3339),
	}
	if err := s.patients.AppendSummary(ctx, req.PatientUID, entry, s.historyCap); err != nil {
		logger.Log.WithError(err).WithField("patient_uid", req.PatientUID).Error("failed to append summary history")
	}

	if s.cache != nil {
		s.cache.SetReport(ctx, rep)
	}
	s.publish(ctx, "report_saved", rep.PatientUID, map[string]interface{}{
		"report_uid":  rep.ReportUID,
		"patient_uid": rep.PatientUID,
		"icd10_code":  rep.ICD10Code,
	})
	metrics.IncReportsSaved()

	return rep, nil
}

// Get serves from the cache when the report is hot, falling back to the
// store and re-warming on a miss.
func (s *Service) Get(ctx context.Context, uid string) (models.Report, error) {
	if s.cache != nil {
		if rep, ok := s.cache.GetReport(ctx, uid); ok {
			return rep, nil
		}
	}
	rep, err := s.store.Get(ctx, uid)
	if err != nil {
		return models.Report{}, err
	}
	if s.cache != nil {
		s.cache.SetReport(ctx, rep)
	}
	return rep, nil
}

func (s *Service) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	return s.store.List(ctx, filter)
}

// Delete removes the report. The owning patient row is left untouched.
func (s *Service) Delete(ctx context.Context, uid string) error {
	rep, err := s.store.Get(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, uid); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.DeleteReport(ctx, uid)
	}
	s.publish(ctx, "report_deleted", rep.PatientUID, map[string]interface{}{
		"report_uid":  rep.ReportUID,
		"patient_uid": rep.PatientUID,
	})
	metrics.IncReportsDeleted()
	return nil
}

// Event publishing is advisory; a broker outage never fails the request.
func (s *Service) publish(ctx context.Context, eventType, source string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, eventType, source, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish report event")
	}
}
