// Package draft turns drafting-model responses into report fields a
// clinician can review. Every outbound text field is redacted first, and
// every inbound field is validated or normalized before anyone sees it.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shiricson7/gpt-us-report/internal/ktirads"
	"github.com/shiricson7/gpt-us-report/internal/llm"
	"github.com/shiricson7/gpt-us-report/internal/reporttext"
)

var tracer = otel.Tracer("gpt-us-report/draft")

// CollaboratorError wraps a failed drafting call. The drafting path never
// fabricates a report; the collaborator's message travels up verbatim so
// the clinician-facing layer can show it.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: drafting collaborator: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

var ErrNonJSONResponse = errors.New("drafting collaborator returned non-JSON output")

// Drafter runs the three drafting operations. It holds no state across
// requests; concurrent use is safe.
type Drafter struct {
	caller llm.Caller
}

func NewDrafter(caller llm.Caller) *Drafter {
	return &Drafter{caller: caller}
}

// Analyze drafts a full report from images plus clinical context. One
// request, one response; a failed call is the caller's problem to surface.
func (d *Drafter) Analyze(ctx context.Context, req AnalyzeRequest) (ReportDraft, error) {
	ctx, span := tracer.Start(ctx, "draft.Analyze")
	defer span.End()

	examType := strings.TrimSpace(req.ExamType)
	if examType == "" {
		return ReportDraft{}, errors.New("examType is required")
	}
	if err := checkImages(req.Images); err != nil {
		return ReportDraft{}, err
	}
	span.SetAttributes(attribute.String("exam_type", examType), attribute.Int("images", len(req.Images)))

	history := reporttext.Redact(strings.TrimSpace(req.ClinicalHistory))
	imageContext := reporttext.Redact(strings.TrimSpace(req.ImageContext))

	sections := []string{"Ultrasound type:\n" + examType}
	if history != "" {
		sections = append(sections, "Clinical history:\n"+history)
	}
	if imageContext != "" {
		sections = append(sections, "Image context:\n"+imageContext)
	}
	sections = append(sections, "Task:\n- Review the images.\n- Draft Findings, Impression, and Recommendations.\n")

	raw, err := d.caller.GenerateJSON(ctx, analyzeSystemPrompt, strings.Join(sections, "\n\n"), req.Images)
	if err != nil {
		return ReportDraft{}, &CollaboratorError{Op: "analyze", Err: err}
	}

	var parsed struct {
		Findings        any `json:"findings"`
		Impression      any `json:"impression"`
		Recommendations any `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed); err != nil {
		return ReportDraft{}, &CollaboratorError{Op: "analyze", Err: ErrNonJSONResponse}
	}

	findings := reporttext.Reflow(asString(parsed.Findings))
	impression := reporttext.DiagnosisLine(reporttext.CleanImpression(asString(parsed.Impression), findings))
	return ReportDraft{
		Findings:        findings,
		Impression:      impression,
		Recommendations: reporttext.Reflow(asString(parsed.Recommendations)),
	}, nil
}

// AnalyzeThyroid drafts the staged thyroid variant. Nodule records come
// back untyped and are validated field by field.
func (d *Drafter) AnalyzeThyroid(ctx context.Context, req ThyroidRequest) (ThyroidDraft, error) {
	ctx, span := tracer.Start(ctx, "draft.AnalyzeThyroid")
	defer span.End()

	if err := checkImages(req.Images); err != nil {
		return ThyroidDraft{}, err
	}
	span.SetAttributes(attribute.Int("images", len(req.Images)))

	clinicalInfo := reporttext.Redact(strings.TrimSpace(req.ClinicalInfo))
	imageContext := reporttext.Redact(strings.TrimSpace(req.ImageContext))

	var sections []string
	if clinicalInfo != "" {
		sections = append(sections, "Clinical information:\n"+clinicalInfo)
	}
	if imageContext != "" {
		sections = append(sections, "Image context:\n"+imageContext)
	}
	sections = append(sections, "Task:\n- Detect thyroid nodules if present.\n- Classify with K-TIRADS.\n- Provide structured output.\n")

	raw, err := d.caller.GenerateJSON(ctx, thyroidSystemPrompt, strings.Join(sections, "\n\n"), req.Images)
	if err != nil {
		return ThyroidDraft{}, &CollaboratorError{Op: "thyroid", Err: err}
	}

	var parsed struct {
		ImageAssignments any `json:"imageAssignments"`
		Nodules          any `json:"nodules"`
		Findings         any `json:"findings"`
		Impression       any `json:"impression"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed); err != nil {
		return ThyroidDraft{}, &CollaboratorError{Op: "thyroid", Err: ErrNonJSONResponse}
	}

	findings := reporttext.Reflow(asString(parsed.Findings))
	return ThyroidDraft{
		ImageAssignments: coerceAssignments(parsed.ImageAssignments),
		Nodules:          ktirads.CoerceNodules(parsed.Nodules),
		Findings:         findings,
		Impression:       reporttext.DiagnosisLine(reporttext.CleanImpression(asString(parsed.Impression), findings)),
	}, nil
}

// Polish rewrites clinician findings and derives a cleaned impression. An
// impression that cleaning reduces to nothing keeps the caller's prior one.
func (d *Drafter) Polish(ctx context.Context, req PolishRequest) (PolishDraft, error) {
	ctx, span := tracer.Start(ctx, "draft.Polish")
	defer span.End()

	findings := reporttext.Redact(strings.TrimSpace(req.Findings))
	if findings == "" {
		return PolishDraft{}, errors.New("findings is required")
	}
	priorImpression := strings.TrimSpace(req.Impression)

	var sections []string
	if examType := strings.TrimSpace(req.ExamType); examType != "" {
		sections = append(sections, "Ultrasound type\n"+examType)
	}
	if history := reporttext.Redact(strings.TrimSpace(req.ClinicalHistory)); history != "" {
		sections = append(sections, "Clinical history\n"+history)
	}
	sections = append(sections, "Findings draft\n"+findings)

	raw, err := d.caller.GenerateJSON(ctx, polishSystemPrompt, strings.Join(sections, "\n"), nil)
	if err != nil {
		return PolishDraft{}, &CollaboratorError{Op: "polish", Err: err}
	}

	var parsed struct {
		Findings   any `json:"findings"`
		Impression any `json:"impression"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed); err != nil {
		return PolishDraft{}, &CollaboratorError{Op: "polish", Err: ErrNonJSONResponse}
	}

	nextFindings := strings.TrimSpace(asString(parsed.Findings))
	if nextFindings == "" {
		nextFindings = findings
	}
	nextImpression := reporttext.CleanImpression(asString(parsed.Impression), nextFindings)
	if nextImpression == "" {
		nextImpression = priorImpression
	}
	return PolishDraft{Findings: nextFindings, Impression: nextImpression}, nil
}

func checkImages(images []llm.Image) error {
	if len(images) == 0 {
		return errors.New("at least one image is required")
	}
	if len(images) > maxImages {
		return fmt.Errorf("too many images (max %d)", maxImages)
	}
	return nil
}

// asString keeps whatever string the collaborator sent and coerces every
// other JSON shape to empty, mirroring the untrusted-field policy.
func asString(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

func coerceAssignments(raw any) []ImageAssignment {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []ImageAssignment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, ImageAssignment{
			Filename: asString(m["filename"]),
			Side:     asString(m["side"]),
		})
	}
	return out
}
