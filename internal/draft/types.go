package draft

import (
	"github.com/shiricson7/gpt-us-report/internal/ktirads"
	"github.com/shiricson7/gpt-us-report/internal/llm"
)

const maxImages = 12

// AnalyzeRequest asks the collaborator for a full draft of a general
// ultrasound report. Free-text fields are redacted before they leave the
// process.
type AnalyzeRequest struct {
	ExamType        string      `json:"examType"`
	ClinicalHistory string      `json:"clinicalHistory"`
	ImageContext    string      `json:"imageContext"`
	Images          []llm.Image `json:"images"`
}

// ReportDraft is the post-pipeline draft: findings and recommendations
// reflowed, impression deduplicated and compressed to a diagnosis line.
type ReportDraft struct {
	Findings        string `json:"findings"`
	Impression      string `json:"impression"`
	Recommendations string `json:"recommendations"`
}

// ThyroidRequest asks for the staged thyroid variant with per-nodule
// K-TIRADS classification.
type ThyroidRequest struct {
	ClinicalInfo string      `json:"clinicalInfo"`
	ImageContext string      `json:"imageContext"`
	Images       []llm.Image `json:"images"`
}

// ImageAssignment maps one uploaded image to the thyroid side the model
// judged it to show.
type ImageAssignment struct {
	Filename string `json:"filename"`
	Side     string `json:"side"`
}

// ThyroidDraft carries the validated structured output of the thyroid
// drafting call.
type ThyroidDraft struct {
	ImageAssignments []ImageAssignment `json:"imageAssignments"`
	Nodules          []ktirads.Nodule  `json:"nodules"`
	Findings         string            `json:"findings"`
	Impression       string            `json:"impression"`
}

// PolishRequest rewrites clinician-drafted findings into report style and
// derives a consistent impression.
type PolishRequest struct {
	ExamType        string `json:"examType"`
	ClinicalHistory string `json:"clinicalHistory"`
	Findings        string `json:"findings"`
	Impression      string `json:"impression"`
}

// PolishDraft is the polished findings plus the cleaned impression. When
// cleaning empties the model's impression, the caller's prior impression is
// kept instead.
type PolishDraft struct {
	Findings   string `json:"findings"`
	Impression string `json:"impression"`
}
