package ktirads

import (
	"strings"
	"testing"
)

func mm(v float64) *float64 { return &v }

func TestCoerceCategory(t *testing.T) {
	cases := []struct {
		in   any
		want Category
		ok   bool
	}{
		{"3", CategoryLow, true},
		{3, CategoryLow, true},
		{float64(5), CategoryHigh, true},
		{" 1 ", CategoryNoNodule, true},
		{6, 0, false},
		{0, 0, false},
		{-1, 0, false},
		{3.5, 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{[]any{3}, 0, false},
	}
	for _, c := range cases {
		got, ok := CoerceCategory(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("CoerceCategory(%v) = (%v,%v), want (%v,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCoerceSizeMm(t *testing.T) {
	if got := CoerceSizeMm(12.5); got == nil || *got != 12.5 {
		t.Fatalf("CoerceSizeMm(12.5) = %v", got)
	}
	if got := CoerceSizeMm("8"); got == nil || *got != 8 {
		t.Fatalf("CoerceSizeMm(\"8\") = %v", got)
	}
	for _, in := range []any{nil, -1.0, "x", true, map[string]any{}} {
		if got := CoerceSizeMm(in); got != nil {
			t.Errorf("CoerceSizeMm(%v) = %v, want nil", in, *got)
		}
	}
}

func TestRecommendIgnoresSizeForBenignTiers(t *testing.T) {
	if Recommend(CategoryNoNodule, mm(40)) != Recommend(CategoryNoNodule, nil) {
		t.Fatal("category 1 must not branch on size")
	}
	if Recommend(CategoryBenign, mm(40)) != Recommend(CategoryBenign, nil) {
		t.Fatal("category 2 must not branch on size")
	}
	if !strings.Contains(Recommend(CategoryNoNodule, mm(40)), "결절 없음") {
		t.Fatal("category 1 text missing")
	}
}

func TestRecommendSizeBands(t *testing.T) {
	cases := []struct {
		cat  Category
		size *float64
		frag string
	}{
		{CategoryLow, nil, "크기 정보 부족"},
		{CategoryLow, mm(20), "≥20 mm: FNA"},
		{CategoryLow, mm(17), "15–19 mm: follow-up"},
		{CategoryLow, mm(14.9), "<15 mm"},
		{CategoryIntermediate, mm(15), "≥15 mm: FNA"},
		{CategoryIntermediate, mm(10), "10–14 mm: follow-up"},
		{CategoryIntermediate, mm(9.9), "<10 mm"},
		{CategoryHigh, mm(12), "≥10 mm: FNA"},
		{CategoryHigh, mm(5), "5–9 mm"},
		{CategoryHigh, mm(3), "<5 mm: close follow-up"},
	}
	for _, c := range cases {
		got := Recommend(c.cat, c.size)
		if !strings.Contains(got, c.frag) {
			t.Errorf("Recommend(%d, %v) = %q, want fragment %q", c.cat, c.size, got, c.frag)
		}
	}
}

func TestRecommendValueDegradesOnBadCategory(t *testing.T) {
	got := RecommendValue("not-a-category", mm(10))
	if got != recommendFallback {
		t.Fatalf("RecommendValue = %q", got)
	}
}

func TestCoerceNodule(t *testing.T) {
	n := CoerceNodule(map[string]any{
		"side":         "Right",
		"location":     " mid pole ",
		"sizeMm":       float64(12),
		"kTirads":      "4",
		"confidence":   "HIGH",
		"composition":  "solid",
		"echogenicity": "hypoechoic",
	})
	if n.Side != SideRight || n.Location != "mid pole" {
		t.Fatalf("side/location = %v %q", n.Side, n.Location)
	}
	if n.SizeMm == nil || *n.SizeMm != 12 {
		t.Fatalf("sizeMm = %v", n.SizeMm)
	}
	if n.Category != CategoryIntermediate || n.Confidence != ConfidenceHigh {
		t.Fatalf("category/confidence = %v %v", n.Category, n.Confidence)
	}
	if !strings.Contains(n.Recommendation(), "10–14 mm") {
		t.Fatalf("recommendation = %q", n.Recommendation())
	}
}

func TestCoerceNoduleGarbage(t *testing.T) {
	n := CoerceNodule(map[string]any{
		"side":       42,
		"sizeMm":     "large",
		"kTirads":    9,
		"confidence": []any{"low"},
	})
	if n.Side != SideUnknown || n.SizeMm != nil || n.Category != 0 || n.Confidence != "" {
		t.Fatalf("garbage fields should coerce to neutral values: %+v", n)
	}
	if n.Recommendation() != recommendFallback {
		t.Fatalf("recommendation = %q", n.Recommendation())
	}
}

func TestCoerceNodules(t *testing.T) {
	out := CoerceNodules([]any{
		map[string]any{"side": "left", "kTirads": float64(2)},
		"not an object",
		map[string]any{"side": "isthmus"},
	})
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Side != SideLeft || out[1].Side != SideIsthmus {
		t.Fatalf("sides = %v %v", out[0].Side, out[1].Side)
	}
	if CoerceNodules("nope") != nil {
		t.Fatal("non-list input should yield nil")
	}
}
