package reporttext

import "strings"

// ReportFields carries everything the printable plain-text report needs.
// Sensitive fields are expected to arrive already masked.
type ReportFields struct {
	HospitalName    string
	DoctorName      string
	LicenseNo       string
	PatientName     string
	ChartNo         string
	RRNMasked       string
	AgeText         string
	Sex             string
	ExamDate        string
	ClinicalHistory string
	Findings        string
	Impression      string
	Recommendations string
}

// PlainTextReport renders the fixed-layout printable report. Runs of blank
// lines collapse to one and the output always ends with a newline.
func PlainTextReport(r ReportFields) string {
	ageSex := r.AgeText
	if r.AgeText != "" && r.Sex != "" {
		ageSex += " / "
	}
	ageSex += r.Sex

	signed := ""
	if r.DoctorName != "" || r.LicenseNo != "" {
		var who []string
		for _, v := range []string{r.DoctorName, r.LicenseNo} {
			if v != "" {
				who = append(who, v)
			}
		}
		signed = "Signed: " + strings.Join(who, " / ")
	}

	lines := []string{
		"Ultrasound report",
		r.HospitalName,
		"",
		"Patient: " + r.PatientName,
		"Chart No: " + r.ChartNo,
		"RRN: " + r.RRNMasked,
		"Age/Sex: " + ageSex,
		"Exam date: " + r.ExamDate,
		"",
		"Clinical history",
		r.ClinicalHistory,
		"",
		"Findings",
		r.Findings,
		"",
		"Impression",
		r.Impression,
		"",
		"Recommendations",
		r.Recommendations,
		"",
		signed,
	}

	var out []string
	for _, l := range lines {
		if l == "" && len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}
