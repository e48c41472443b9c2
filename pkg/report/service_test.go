package report

import (
	"context"
	"testing"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/icd"
	"github.com/clinscribe/platform/pkg/patient"
)

type memStore struct {
	reports map[string]models.Report
}

func newMemStore() *memStore {
	return &memStore{reports: make(map[string]models.Report)}
}

func (m *memStore) Create(_ context.Context, rep models.Report) error {
	if _, ok := m.reports[rep.ReportUID]; ok {
		return ErrDuplicate
	}
	m.reports[rep.ReportUID] = rep
	return nil
}

func (m *memStore) Get(_ context.Context, uid string) (models.Report, error) {
	rep, ok := m.reports[uid]
	if !ok {
		return models.Report{}, ErrNotFound
	}
	return rep, nil
}

func (m *memStore) List(_ context.Context, filter models.ReportFilter) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range m.reports {
		if filter.PatientUID != "" && rep.PatientUID != filter.PatientUID {
			continue
		}
		if filter.DoctorName != "" && rep.DoctorName != filter.DoctorName {
			continue
		}
		out = append(out, rep)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, uid string) error {
	if _, ok := m.reports[uid]; !ok {
		return ErrNotFound
	}
	delete(m.reports, uid)
	return nil
}

// memPatients mirrors the patient repository's upsert + history semantics
// in memory, reusing the real merge logic.
type memPatients struct {
	patients map[string]models.Patient
	notes    map[string]string
}

func newMemPatients() *memPatients {
	return &memPatients{
		patients: make(map[string]models.Patient),
		notes:    make(map[string]string),
	}
}

func (m *memPatients) Ensure(_ context.Context, uid, name string, age *int, gender string) (models.Patient, error) {
	p, ok := m.patients[uid]
	if !ok {
		p = models.Patient{PatientUID: uid, Extra: map[string]interface{}{}}
	}
	if name != "" {
		p.Name = name
	}
	if age != nil {
		p.Age = age
	}
	if gender != "" {
		p.Gender = gender
	}
	m.patients[uid] = p
	return p, nil
}

func (m *memPatients) AppendSummary(_ context.Context, uid string, entry models.SummaryEntry, historyCap int) error {
	p, ok := m.patients[uid]
	if !ok {
		return patient.ErrNotFound
	}
	merged, notes := patient.MergeSummaryEntry(p.Extra, m.notes[uid], entry, historyCap)
	p.Extra = merged
	m.patients[uid] = p
	m.notes[uid] = notes
	return nil
}

func (m *memPatients) history(uid string) []models.SummaryEntry {
	entries, _ := m.patients[uid].Extra["summary_history"].([]models.SummaryEntry)
	return entries
}

// memCache records cache traffic so tests can assert which reads were
// served hot.
type memCache struct {
	entries map[string]models.Report
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]models.Report)}
}

func (m *memCache) GetReport(_ context.Context, uid string) (models.Report, bool) {
	rep, ok := m.entries[uid]
	if ok {
		m.hits++
	}
	return rep, ok
}

func (m *memCache) SetReport(_ context.Context, rep models.Report) {
	m.entries[rep.ReportUID] = rep
}

func (m *memCache) DeleteReport(_ context.Context, uid string) {
	delete(m.entries, uid)
}

func newTestService() (*Service, *memStore, *memPatients) {
	logger.Init()
	store := newMemStore()
	patients := newMemPatients()
	return NewService(store, patients, nil, nil, 50), store, patients
}

func TestSaveCreatesPatientAndReport(t *testing.T) {
	svc, store, patients := newTestService()

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		PatientUID:      "P-100",
		PatientName:     "Jane Roe",
		ClinicalSummary: "Patient presents with persistent headaches.",
		ICD10Code:       "G43.909",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ReportUID == "" {
		t.Fatal("expected a generated report UID")
	}
	if len(store.reports) != 1 {
		t.Fatalf("expected exactly one report row, got %d", len(store.reports))
	}
	if len(patients.patients) != 1 {
		t.Fatalf("expected exactly one patient row, got %d", len(patients.patients))
	}
	if patients.patients["P-100"].Name != "Jane Roe" {
		t.Fatal("expected patient name from report save")
	}
}

func TestSaveAppendsHistoryNewestLast(t *testing.T) {
	svc, _, patients := newTestService()

	for _, summary := range []string{"first visit", "second visit"} {
		_, err := svc.Save(context.Background(), models.CreateReportRequest{
			PatientUID:      "P-200",
			ClinicalSummary: summary,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history := patients.history("P-200")
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].ClinicalSummary != "first visit" || history[1].ClinicalSummary != "second visit" {
		t.Fatalf("expected newest last, got %v", history)
	}
	if patients.notes["P-200"] == "" {
		t.Fatal("expected clinical-notes log to accumulate")
	}
}

func TestSaveAppliesICDSentinel(t *testing.T) {
	svc, _, _ := newTestService()

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		PatientUID:      "P-300",
		ClinicalSummary: "No coding suggestion came back.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ICD10Code != icd.SentinelCode {
		t.Fatalf("expected sentinel code %q, got %q", icd.SentinelCode, saved.ICD10Code)
	}
	if saved.ICD10Description != icd.SentinelDescription {
		t.Fatalf("expected placeholder description, got %q", saved.ICD10Description)
	}
}

func TestSavePreservesClientReportUID(t *testing.T) {
	svc, _, _ := newTestService()

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		ReportUID:       "client-uid-1",
		PatientUID:      "P-310",
		ClinicalSummary: "summary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ReportUID != "client-uid-1" {
		t.Fatalf("expected preserved UID, got %q", saved.ReportUID)
	}

	_, err = svc.Save(context.Background(), models.CreateReportRequest{
		ReportUID:       "client-uid-1",
		PatientUID:      "P-310",
		ClinicalSummary: "summary again",
	})
	if err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteKeepsPatient(t *testing.T) {
	svc, store, patients := newTestService()

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		PatientUID:      "P-400",
		ClinicalSummary: "to be deleted",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), saved.ReportUID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := svc.List(context.Background(), models.ReportFilter{PatientUID: "P-400"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected deleted report gone from listings, got %d", len(listed))
	}
	if len(store.reports) != 0 {
		t.Fatal("expected report row removed")
	}
	if _, ok := patients.patients["P-400"]; !ok {
		t.Fatal("expected owning patient to survive report deletion")
	}
}

func TestGetServedFromCache(t *testing.T) {
	logger.Init()
	store := newMemStore()
	cache := newMemCache()
	svc := NewService(store, newMemPatients(), nil, cache, 50)

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		PatientUID:      "P-600",
		ClinicalSummary: "cached summary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.entries[saved.ReportUID]; !ok {
		t.Fatal("expected save to warm the cache")
	}

	// Drop the row from the store: a cached read must still succeed.
	delete(store.reports, saved.ReportUID)
	fetched, err := svc.Get(context.Background(), saved.ReportUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.ClinicalSummary != "cached summary" || cache.hits != 1 {
		t.Fatalf("expected hot read from cache, hits = %d", cache.hits)
	}
}

func TestGetMissRewarmsCache(t *testing.T) {
	logger.Init()
	store := newMemStore()
	cache := newMemCache()
	svc := NewService(store, newMemPatients(), nil, cache, 50)

	store.reports["cold-1"] = models.Report{ReportUID: "cold-1", PatientUID: "P-610"}

	if _, err := svc.Get(context.Background(), "cold-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.entries["cold-1"]; !ok {
		t.Fatal("expected miss to re-warm the cache")
	}
}

func TestDeleteEvictsCache(t *testing.T) {
	logger.Init()
	store := newMemStore()
	cache := newMemCache()
	svc := NewService(store, newMemPatients(), nil, cache, 50)

	saved, err := svc.Save(context.Background(), models.CreateReportRequest{
		PatientUID:      "P-620",
		ClinicalSummary: "short-lived",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), saved.ReportUID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.entries[saved.ReportUID]; ok {
		t.Fatal("expected delete to evict the cached report")
	}
	if _, err := svc.Get(context.Background(), saved.ReportUID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSaveThenGetRoundTripsDisplayFields(t *testing.T) {
	svc, _, _ := newTestService()

	conf := 87.5
	req := models.CreateReportRequest{
		PatientUID:       "P-500",
		PatientName:      "John Doe",
		DoctorName:       "Dr. Gupta",
		ClinicalSummary:  "MRI consistent with glioma.",
		ICD10Code:        "C71.9",
		ICD10Description: "Malignant neoplasm of brain, unspecified",
		ICD10Category:    "Neoplasms",
		ConfidenceScore:  &conf,
		Findings:         []string{"mass in left temporal lobe", "midline shift"},
		Recommendations:  []string{"neurosurgical referral", "repeat imaging in 4 weeks"},
		ReportData:       map[string]interface{}{"source": "generate-summary"},
	}

	saved, err := svc.Save(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetched, err := svc.Get(context.Background(), saved.ReportUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.ClinicalSummary != req.ClinicalSummary {
		t.Fatal("summary did not round-trip")
	}
	if fetched.ICD10Code != req.ICD10Code || fetched.ICD10Description != req.ICD10Description {
		t.Fatal("ICD fields did not round-trip")
	}
	if len(fetched.Findings) != 2 || fetched.Findings[0] != req.Findings[0] {
		t.Fatalf("findings did not round-trip: %v", fetched.Findings)
	}
	if len(fetched.Recommendations) != 2 || fetched.Recommendations[1] != req.Recommendations[1] {
		t.Fatalf("recommendations did not round-trip: %v", fetched.Recommendations)
	}
	if fetched.ConfidenceScore == nil || *fetched.ConfidenceScore != conf {
		t.Fatal("confidence score did not round-trip")
	}
}
