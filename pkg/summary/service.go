package summary

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/clinscribe/platform/pkg/common/logger"
	"github.com/clinscribe/platform/pkg/common/models"
	"github.com/clinscribe/platform/pkg/icd"
	"github.com/clinscribe/platform/pkg/observability/metrics"
)

const (
	fallbackModelName = "local-heuristic"

	// Shown as per-image caption metadata; actual image analysis is
	// performed by the inference collaborator, never locally.
	imageReceiptCaption = "Medical imaging study received. Visual review by a qualified radiologist and correlation with clinical findings is recommended."
)

// Inference is the text-generation collaborator; satisfied by HFClient.
type Inference interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// PatientGetter echoes the stored patient record into the response;
// satisfied by the patient service. Reads only.
type PatientGetter interface {
	Get(ctx context.Context, uid string) (models.Patient, error)
}

type Service struct {
	inference     Inference
	patients      PatientGetter
	catalog       icd.Catalog
	model         string
	icdModel      string
	hostedEnabled bool
}

func NewService(inference Inference, patients PatientGetter, catalog icd.Catalog, model, icdModel string, hostedEnabled bool) *Service {
	if icdModel == "" {
		icdModel = model
	}
	return &Service{
		inference:     inference,
		patients:      patients,
		catalog:       catalog,
		model:         model,
		icdModel:      icdModel,
		hostedEnabled: hostedEnabled,
	}
}

// Generate produces the clinical narrative and ICD suggestions for a
// summary request. It has no side effects; persisting the result is a
// separate explicit report save.
func (s *Service) Generate(ctx context.Context, req models.SummaryRequest) (models.SummaryResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.SummaryResponse{}, err
	}

	var patientRecord *models.Patient
	enriched := req.ClinicalText
	if req.PatientUID != "" && s.patients != nil {
		if p, err := s.patients.Get(ctx, req.PatientUID); err == nil {
			patientRecord = &p
			enriched = enrichWithPatient(enriched, p)
		}
	}

	useHosted := s.hostedEnabled && s.inference != nil
	if req.UseHF != nil && !*req.UseHF {
		useHosted = false
	}

	modelOutput, modelUsed := s.narrative(ctx, enriched, useHosted)
	findings, recommendations := ParseNarrative(modelOutput)
	suggestions := s.suggestICD(ctx, enriched, useHosted, 5)
	imagesInfo := describeImages(req.Images)

	return models.SummaryResponse{
		ModelOutput:     modelOutput,
		Findings:        emptyIfNil(findings),
		Recommendations: emptyIfNil(recommendations),
		ICDSuggestions:  suggestions,
		ImagesInfo:      imagesInfo,
		Patient:         patientRecord,
		AIModelUsed:     modelUsed,
	}, nil
}

// JSON lists stay lists: absent sections serialize as [] rather than null.
func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (s *Service) narrative(ctx context.Context, clinicalText string, useHosted bool) (string, string) {
	if useHosted {
		out, err := s.inference.Generate(ctx, buildSummaryPrompt(clinicalText), s.model)
		if err == nil && strings.TrimSpace(out) != "" {
			metrics.IncSummariesHosted()
			return out, s.model
		}
		if err != nil {
			logger.Log.WithError(err).Warn("hosted inference failed, using local fallback")
		}
	}
	metrics.IncSummariesFallback()
	return composeFallbackNarrative(clinicalText), fallbackModelName
}

func (s *Service) suggestICD(ctx context.Context, clinicalText string, useHosted bool, topn int) []models.ICDSuggestion {
	if useHosted {
		if hosted := s.suggestICDHosted(ctx, clinicalText, topn); len(hosted) > 0 {
			return hosted
		}
	}
	suggestions := s.catalog.Suggest(clinicalText, topn)
	if suggestions == nil {
		suggestions = []models.ICDSuggestion{}
	}
	return suggestions
}

func (s *Service) suggestICDHosted(ctx context.Context, clinicalText string, topn int) []models.ICDSuggestion {
	out, err := s.inference.Generate(ctx, buildICDPrompt(clinicalText, topn), s.icdModel)
	if err != nil {
		logger.Log.WithError(err).Warn("hosted ICD suggestion failed")
		return nil
	}

	items := extractICDItems(out)
	suggestions := make([]models.ICDSuggestion, 0, len(items))
	for _, item := range items {
		code := strings.TrimSpace(item.Code)
		if !icd.IsValidCode(code) {
			continue
		}
		description := strings.TrimSpace(item.Description)
		if description == "" {
			if entry, ok := s.catalog.Lookup(code); ok {
				description = entry.Description
			}
		}
		suggestions = append(suggestions, models.ICDSuggestion{
			Code:        code,
			Description: description,
			Score:       90,
		})
		if len(suggestions) >= topn {
			break
		}
	}
	return suggestions
}

func enrichWithPatient(clinicalText string, p models.Patient) string {
	var b strings.Builder
	b.WriteString(clinicalText)
	b.WriteString("\n\nPATIENT HISTORY: ")
	if p.Age != nil {
		fmt.Fprintf(&b, "Age %d", *p.Age)
	} else {
		b.WriteString("Age N/A")
	}
	if p.Gender != "" {
		b.WriteString(", " + p.Gender)
	}
	if p.ICD10Code != "" {
		b.WriteString("\nPrevious ICD-10: " + p.ICD10Code)
	}
	return b.String()
}

// describeImages decodes each base64 image and records receipt metadata.
// Decode failures are captured per image and never fail the request.
func describeImages(images []string) []models.ImageInfo {
	infos := make([]models.ImageInfo, 0, len(images))
	for i, encoded := range images {
		payload := encoded
		if idx := strings.Index(payload, ";base64,"); idx >= 0 {
			payload = payload[idx+len(";base64,"):]
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			infos = append(infos, models.ImageInfo{Index: i, Error: err.Error()})
			continue
		}
		infos = append(infos, models.ImageInfo{
			Index:        i,
			EnhancedSize: len(decoded),
			Caption:      imageReceiptCaption,
		})
	}
	return infos
}

func buildSummaryPrompt(clinicalText string) string {
	return fmt.Sprintf(`Analyze the following clinical note and provide a structured medical summary. Consider the patient history if provided.

CLINICAL NOTE:
%s

Please provide:
1. Reason for visit/Chief complaint
2. Key clinical findings (extract actual findings from the text)
3. Clinical impression
4. Recommended next steps

IMPORTANT: Base your analysis ONLY on the actual content provided. Do not use generic responses.`, clinicalText)
}

func buildICDPrompt(clinicalText string, topn int) string {
	return fmt.Sprintf(`You are a medical coding assistant. Read the clinical summary and suggest up to %d most relevant ICD-10 codes. Respond ONLY in the following strict JSON format:

{ "icd10": [ { "code": "ICD_CODE", "desc": "Short description" } ] }

Do not add extra commentary.

Clinical summary:
%s
`, topn, clinicalText)
}
