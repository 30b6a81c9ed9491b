// Package ktirads implements the K-TIRADS (Korean Thyroid Imaging
// Reporting and Data System) category handling and the management
// recommendation table used for drafted thyroid reports.
package ktirads

import (
	"math"
	"strconv"
	"strings"
)

// Category is a K-TIRADS severity tier, 1 (no nodule) through 5 (high
// suspicion).
type Category int

const (
	CategoryNoNodule     Category = 1
	CategoryBenign       Category = 2
	CategoryLow          Category = 3
	CategoryIntermediate Category = 4
	CategoryHigh         Category = 5
)

// CoerceCategory accepts the loosely typed category values a drafting model
// returns — JSON numbers, numeric strings — and maps them onto a valid
// Category. Anything else, including out-of-range numbers, reports ok=false.
func CoerceCategory(value any) (Category, bool) {
	var n float64
	switch v := value.(type) {
	case Category:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	case float32:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	switch n {
	case 1, 2, 3, 4, 5:
		return Category(n), true
	}
	return 0, false
}

// CoerceSizeMm keeps finite, non-negative sizes and drops everything else.
// A missing size is a valid state (nil), distinct from zero.
func CoerceSizeMm(value any) *float64 {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return nil
	}
	return &n
}

// The recommendation strings are the clinical policy surface of the system
// and are carried verbatim; thresholds are inclusive on the lower bound.
const recommendFallback = "임상적으로 적절한 추적/추가 평가(FNA, follow-up US 등)를 고려."

// Recommend maps a category and measured size to the management
// recommendation. Categories 1 and 2 never branch on size; nil sizeMm for
// categories 3–5 yields the size-information-insufficient advisory.
func Recommend(category Category, sizeMm *float64) string {
	switch category {
	case CategoryNoNodule:
		return "결절 없음. 임상적으로 필요 시 추적 초음파 고려."
	case CategoryBenign:
		return "K-TIRADS 2(benign). FNA 불필요. 임상/추적 필요 시 follow-up US 고려."
	case CategoryLow:
		if sizeMm == nil {
			return "K-TIRADS 3(low suspicion). 크기 정보 부족: 임상/영상 소견에 따라 FNA 또는 follow-up US 고려."
		}
		switch {
		case *sizeMm >= 20:
			return "K-TIRADS 3(low suspicion). ≥20 mm: FNA 권고."
		case *sizeMm >= 15:
			return "K-TIRADS 3(low suspicion). 15–19 mm: follow-up US 권고."
		default:
			return "K-TIRADS 3(low suspicion). <15 mm: 임상적으로 필요 시 follow-up US 고려."
		}
	case CategoryIntermediate:
		if sizeMm == nil {
			return "K-TIRADS 4(intermediate suspicion). 크기 정보 부족: 임상/영상 소견에 따라 FNA 또는 follow-up US 고려."
		}
		switch {
		case *sizeMm >= 15:
			return "K-TIRADS 4(intermediate suspicion). ≥15 mm: FNA 권고."
		case *sizeMm >= 10:
			return "K-TIRADS 4(intermediate suspicion). 10–14 mm: follow-up US 권고."
		default:
			return "K-TIRADS 4(intermediate suspicion). <10 mm: 임상적으로 필요 시 follow-up US 고려."
		}
	case CategoryHigh:
		if sizeMm == nil {
			return "K-TIRADS 5(high suspicion). 크기 정보 부족: 임상/영상 소견에 따라 FNA 또는 follow-up US 고려."
		}
		switch {
		case *sizeMm >= 10:
			return "K-TIRADS 5(high suspicion). ≥10 mm: FNA 권고."
		case *sizeMm >= 5:
			return "K-TIRADS 5(high suspicion). 5–9 mm: 임상적으로 FNA 고려 또는 close follow-up US 권고."
		default:
			return "K-TIRADS 5(high suspicion). <5 mm: close follow-up US 권고."
		}
	}
	return recommendFallback
}

// RecommendValue runs CoerceCategory first and degrades to the generic
// advisory when the category is unusable. It never fails.
func RecommendValue(category any, sizeMm *float64) string {
	cat, ok := CoerceCategory(category)
	if !ok {
		return recommendFallback
	}
	return Recommend(cat, sizeMm)
}
