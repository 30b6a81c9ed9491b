package printout

import (
	"strings"
	"testing"

	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/ktirads"
	"github.com/shiricson7/gpt-us-report/internal/store"
)

func TestBuildReportMarkdown(t *testing.T) {
	size := 22.0
	md := BuildReportMarkdown(store.Report{
		ExamType:    "thyroid",
		ExamDate:    "2026-03-02",
		PatientName: "홍길동",
		ChartNo:     "C-42",
		PatientRRN:  "990101-1******",
		PatientSex:  "M",
		PatientAge:  "27y",
		Findings:    "A hypoechoic nodule in the right lobe.",
		Impression:  "K-TIRADS 5 nodule",
		Nodules: []ktirads.Nodule{
			{Side: ktirads.SideRight, SizeMm: &size, Category: ktirads.CategoryHigh},
		},
		SignedBy:  "김의사",
		LicenseNo: "12345",
	}, "연합소아청소년과의원")

	for _, want := range []string{
		"# Ultrasound Report",
		"연합소아청소년과의원",
		"갑상선 초음파",
		"| **RRN** | 990101-1****** |",
		"27y / M",
		"## Findings",
		"## Nodules",
		"| right |",
		"22.0",
		"Signed: 김의사 / 12345",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	// The high tier at 22 mm recommends FNA.
	if !strings.Contains(md, "FNA") {
		t.Error("nodule recommendation missing")
	}
}

func TestBuildReportMarkdownSkipsEmptySections(t *testing.T) {
	md := BuildReportMarkdown(store.Report{ExamType: "liver", Findings: "Normal."}, "")
	if strings.Contains(md, "## Clinical history") {
		t.Error("empty clinical history section emitted")
	}
	if strings.Contains(md, "## Nodules") {
		t.Error("empty nodule table emitted")
	}
	if strings.Contains(md, "Signed:") {
		t.Error("unsigned report got a signature line")
	}
}

func TestBuildReportMarkdownEscapesCells(t *testing.T) {
	md := BuildReportMarkdown(store.Report{
		ExamType:    "liver",
		PatientName: "a|b\nc",
	}, "")
	if !strings.Contains(md, `a\|b c`) {
		t.Errorf("cell not escaped:\n%s", md)
	}
}

func TestBuildGuardianMarkdown(t *testing.T) {
	guide := guardian.BuildGuide("A small cyst is seen.", "Hepatic cyst")
	md := BuildGuardianMarkdown(guide, &guardian.Summary{
		Summary:   "간에 작은 물혹이 보여요.",
		KeyPoints: []string{"크기가 작아요."},
		NextSteps: []string{"외래에서 경과를 확인해요."},
	})

	for _, want := range []string{
		"# 보호자 안내서",
		"## 요약",
		"## 핵심 내용",
		"## 다음 단계",
		"## 용어 풀이",
		"## 안심하셔도 되는 점",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestBuildGuardianMarkdownWithoutSummary(t *testing.T) {
	guide := guardian.BuildGuide("", "")
	md := BuildGuardianMarkdown(guide, nil)
	if strings.Contains(md, "## 요약") {
		t.Error("summary section emitted without a summary")
	}
	if !strings.Contains(md, "## 안심하셔도 되는 점") {
		t.Error("reassurance section missing")
	}
}

func TestBuildHTML(t *testing.T) {
	html, err := BuildHTML("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", "Report")
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<table>") {
		t.Errorf("GFM not rendered:\n%s", html)
	}
	if !strings.Contains(html, "<title>Report</title>") {
		t.Error("title missing")
	}
}
