package reporttext

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeComparableIdempotent(t *testing.T) {
	in := "  Liver\tNormal.\r\n\r\n\r\nNo  focal   lesion. \n"
	once := NormalizeComparable(in)
	if NormalizeComparable(once) != once {
		t.Fatalf("normalize not idempotent: %q", once)
	}
	if once != "liver normal.\nno focal lesion." {
		t.Fatalf("unexpected comparable form: %q", once)
	}
}

func TestCleanImpressionEmpty(t *testing.T) {
	if got := CleanImpression("   \r\n ", "findings"); got != "" {
		t.Fatalf("want empty, got %q", got)
	}
}

func TestCleanImpressionTakesLastHeader(t *testing.T) {
	in := "The impression should reflect only conclusions. Impression: Hepatomegaly."
	got := CleanImpression(in, "")
	if got != "Hepatomegaly." {
		t.Fatalf("CleanImpression = %q", got)
	}
}

func TestCleanImpressionHeaderVariants(t *testing.T) {
	cases := []string{
		"Impression: Normal study",
		"IMPRESSION - Normal study",
		"impression – Normal study",
		"Impression — Normal study",
		"Impression\nNormal study",
	}
	for _, in := range cases {
		if got := CleanImpression(in, ""); got != "Normal study" {
			t.Errorf("CleanImpression(%q) = %q", in, got)
		}
	}
}

func TestCleanImpressionStripsFindingsHeader(t *testing.T) {
	got := CleanImpression("Findings: Normal thyroid gland", "")
	if got != "Normal thyroid gland" {
		t.Fatalf("CleanImpression = %q", got)
	}
}

func TestCleanImpressionDropsExactFindingsEcho(t *testing.T) {
	findings := "Liver normal in size and echogenicity.\nNo focal lesion."
	echo := "liver normal in size and echogenicity.\nno focal lesion."
	if got := CleanImpression(echo, findings); got != "" {
		t.Fatalf("echoed findings should be dropped, got %q", got)
	}
}

func TestCleanImpressionDropsFindingsPrefixEcho(t *testing.T) {
	findings := strings.Repeat("liver normal in size and echogenicity. ", 8)
	impression := findings + " also the model kept going with extra text"
	if len(NormalizeComparable(findings)) < findingsPrefixLen {
		t.Fatal("test findings too short for prefix rule")
	}
	if got := CleanImpression(impression, findings); got != "" {
		t.Fatalf("findings-prefixed impression should be dropped, got %q", got)
	}
}

func TestCleanImpressionShortFindingsNoPrefixRule(t *testing.T) {
	// Findings shorter than the prefix threshold never trigger the
	// prefix suppression, only exact equality.
	findings := "short findings"
	impression := "short findings plus a real conclusion"
	if got := CleanImpression(impression, findings); got == "" {
		t.Fatal("short findings must not trigger prefix suppression")
	}
}

func TestCleanImpressionPrefixThresholdCountsCharacters(t *testing.T) {
	// Multi-byte findings below the character threshold but above it in
	// bytes. The appended diagnosis must survive.
	findings := strings.Repeat("간 실질 에코 증가. ", 7)
	nf := NormalizeComparable(findings)
	if utf8.RuneCountInString(nf) >= findingsPrefixLen {
		t.Fatal("test findings exceed the character threshold")
	}
	if len(nf) < findingsPrefixLen {
		t.Fatal("test findings should exceed the threshold in bytes")
	}
	got := CleanImpression(findings+" 만성 간질환 의심", findings)
	if got == "" {
		t.Fatal("impression below the character threshold was suppressed")
	}
	if !strings.Contains(got, "만성 간질환 의심") {
		t.Fatalf("diagnosis lost: %q", got)
	}
}

func TestCleanImpressionPrefixEchoMultiByte(t *testing.T) {
	findings := strings.Repeat("간 실질 에코 증가. ", 14)
	if utf8.RuneCountInString(NormalizeComparable(findings)) < findingsPrefixLen {
		t.Fatal("test findings too short for prefix rule")
	}
	impression := findings + " 추가 서술"
	if got := CleanImpression(impression, findings); got != "" {
		t.Fatalf("findings-prefixed impression should be dropped, got %q", got)
	}
}

func TestCleanImpressionPreservesFormatting(t *testing.T) {
	in := "Impression: Mild Hepatomegaly,\nGB sludge"
	got := CleanImpression(in, "unrelated findings")
	if got != "Mild Hepatomegaly,\nGB sludge" {
		t.Fatalf("case/format should be preserved: %q", got)
	}
}

func TestDiagnosisLine(t *testing.T) {
	got := DiagnosisLine("Normal study.\n\nNo focal lesion.")
	if got != "Normal study, No focal lesion" {
		t.Fatalf("DiagnosisLine = %q", got)
	}
}

func TestDiagnosisLineIdeographicStop(t *testing.T) {
	if got := DiagnosisLine("정상 소견。"); got != "정상 소견" {
		t.Fatalf("DiagnosisLine = %q", got)
	}
}

func TestDiagnosisLineEmpty(t *testing.T) {
	if got := DiagnosisLine(" \n \r\n"); got != "" {
		t.Fatalf("DiagnosisLine = %q", got)
	}
}
