// Package printout renders reports and guardian guides to printable HTML
// and PDF.
package printout

import (
	"fmt"
	"strings"

	"github.com/shiricson7/gpt-us-report/internal/catalog"
	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/store"
)

// BuildReportMarkdown lays out one report as GFM markdown. Identifier
// fields are expected to arrive already masked.
func BuildReportMarkdown(rep store.Report, hospital string) string {
	var b strings.Builder

	b.WriteString("# Ultrasound Report\n\n")
	if hospital != "" {
		b.WriteString(hospital + "\n\n")
	}

	label := rep.ExamType
	if entry, ok := catalog.Lookup(catalog.ExamType(rep.ExamType)); ok {
		label = entry.Label
	}

	b.WriteString("| | |\n|---|---|\n")
	writeRow(&b, "Exam", label)
	writeRow(&b, "Exam date", rep.ExamDate)
	writeRow(&b, "Patient", rep.PatientName)
	writeRow(&b, "Chart No", rep.ChartNo)
	writeRow(&b, "RRN", rep.PatientRRN)
	ageSex := rep.PatientAge
	if rep.PatientAge != "" && rep.PatientSex != "" {
		ageSex += " / "
	}
	ageSex += rep.PatientSex
	writeRow(&b, "Age/Sex", ageSex)
	b.WriteString("\n")

	writeSection(&b, "Clinical history", rep.ClinicalHistory)
	writeSection(&b, "Findings", rep.Findings)
	writeSection(&b, "Impression", rep.Impression)
	writeSection(&b, "Recommendations", rep.Recommendations)

	if len(rep.Nodules) > 0 {
		b.WriteString("## Nodules\n\n")
		b.WriteString("| Side | Location | Size (mm) | K-TIRADS | Recommendation |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, n := range rep.Nodules {
			size := ""
			if n.SizeMm != nil {
				size = fmt.Sprintf("%.1f", *n.SizeMm)
			}
			cat := ""
			if n.Category != 0 {
				cat = fmt.Sprintf("%d", n.Category)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				escapeCell(string(n.Side)), escapeCell(n.Location), size, cat, escapeCell(n.Recommendation()))
		}
		b.WriteString("\n")
	}

	if rep.SignedBy != "" || rep.LicenseNo != "" {
		var who []string
		for _, v := range []string{rep.SignedBy, rep.LicenseNo} {
			if v != "" {
				who = append(who, v)
			}
		}
		b.WriteString("Signed: " + strings.Join(who, " / ") + "\n")
	}
	return b.String()
}

// BuildGuardianMarkdown lays out the guardian-facing guide, optionally
// with the plain-language summary above it.
func BuildGuardianMarkdown(guide guardian.Guide, summary *guardian.Summary) string {
	var b strings.Builder
	b.WriteString("# 보호자 안내서\n\n")
	b.WriteString(guide.Intro + "\n\n")

	if summary != nil && summary.Summary != "" {
		b.WriteString("## 요약\n\n" + summary.Summary + "\n\n")
		writeList(&b, "## 핵심 내용", summary.KeyPoints)
		writeList(&b, "## 다음 단계", summary.NextSteps)
	}

	writeList(&b, "## 검사 결과 하이라이트", guide.Highlights)

	if len(guide.Terms) > 0 {
		b.WriteString("## 용어 풀이\n\n")
		for _, term := range guide.Terms {
			fmt.Fprintf(&b, "- **%s** — %s\n", term.Title, term.Description)
		}
		b.WriteString("\n")
	}

	writeList(&b, "## 안심하셔도 되는 점", guide.Reassurance)
	return b.String()
}

func writeRow(b *strings.Builder, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "| **%s** | %s |\n", key, escapeCell(value))
}

func writeSection(b *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	b.WriteString("## " + heading + "\n\n" + strings.TrimSpace(body) + "\n\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

// escapeCell keeps table rows intact when a field contains pipes or
// newlines.
func escapeCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	return strings.ReplaceAll(strings.TrimSpace(value), "\n", " ")
}
