package ktirads

import "strings"

// Side is the laterality of an imaged nodule.
type Side string

const (
	SideLeft    Side = "left"
	SideRight   Side = "right"
	SideIsthmus Side = "isthmus"
	SideUnknown Side = "unknown"
)

// Confidence is the drafting model's self-reported certainty for a nodule.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Nodule is one validated nodule record from the drafting collaborator.
// Category is 0 when the model gave nothing coercible; SizeMm is nil when
// no usable measurement was reported.
type Nodule struct {
	Side          Side       `json:"side"`
	Location      string     `json:"location,omitempty"`
	SizeMm        *float64   `json:"sizeMm"`
	Composition   string     `json:"composition,omitempty"`
	Echogenicity  string     `json:"echogenicity,omitempty"`
	Shape         string     `json:"shape,omitempty"`
	Margin        string     `json:"margin,omitempty"`
	EchogenicFoci string     `json:"echogenicFoci,omitempty"`
	Category      Category   `json:"kTirads,omitempty"`
	Rationale     string     `json:"rationale,omitempty"`
	Confidence    Confidence `json:"confidence,omitempty"`
}

// Recommendation returns the management recommendation for this nodule.
func (n Nodule) Recommendation() string {
	if n.Category == 0 {
		return recommendFallback
	}
	return Recommend(n.Category, n.SizeMm)
}

func coerceSide(value any) Side {
	s, _ := value.(string)
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideLeft:
		return SideLeft
	case SideRight:
		return SideRight
	case SideIsthmus:
		return SideIsthmus
	default:
		return SideUnknown
	}
}

func coerceConfidence(value any) Confidence {
	s, _ := value.(string)
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceLow:
		return ConfidenceLow
	case ConfidenceMedium:
		return ConfidenceMedium
	case ConfidenceHigh:
		return ConfidenceHigh
	default:
		return ""
	}
}

func coerceString(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

// CoerceNodule validates one untyped nodule record field by field. Unknown
// and missing fields become their neutral values; nothing panics on
// arbitrary collaborator JSON.
func CoerceNodule(raw map[string]any) Nodule {
	n := Nodule{
		Side:          coerceSide(raw["side"]),
		Location:      coerceString(raw["location"]),
		SizeMm:        CoerceSizeMm(raw["sizeMm"]),
		Composition:   coerceString(raw["composition"]),
		Echogenicity:  coerceString(raw["echogenicity"]),
		Shape:         coerceString(raw["shape"]),
		Margin:        coerceString(raw["margin"]),
		EchogenicFoci: coerceString(raw["echogenicFoci"]),
		Rationale:     coerceString(raw["rationale"]),
		Confidence:    coerceConfidence(raw["confidence"]),
	}
	if cat, ok := CoerceCategory(raw["kTirads"]); ok {
		n.Category = cat
	}
	return n
}

// CoerceNodules filters an untyped list down to validated records,
// dropping entries that are not objects at all.
func CoerceNodules(raw any) []Nodule {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []Nodule
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, CoerceNodule(m))
	}
	return out
}
