package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/printout"
	"github.com/shiricson7/gpt-us-report/internal/reporttext"
	"github.com/shiricson7/gpt-us-report/internal/store"
)

func main() {
	dbPath := flag.String("db", "./data/reports.db", "path to SQLite database file")
	reportID := flag.String("id", "", "report id to print")
	hospital := flag.String("hospital", "", "hospital name printed on the report")
	format := flag.String("format", "text", "output format: text, markdown, or pdf")
	guardianOut := flag.Bool("guardian", false, "print the caregiver guide instead of the clinical report")
	outputPath := flag.String("output", "", "output file (defaults to stdout; required for pdf)")
	flag.Parse()

	if *reportID == "" {
		log.Fatal("missing required -id")
	}

	reports, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("open report store (%s): %v", *dbPath, err)
	}
	defer reports.Close()

	rep, err := reports.Get(*reportID)
	if err != nil {
		log.Fatalf("load report %s: %v", *reportID, err)
	}

	var markdown string
	if *guardianOut {
		guide := guardian.BuildGuide(rep.Findings, rep.Impression)
		markdown = printout.BuildGuardianMarkdown(guide, rep.GuardianSummary)
	} else {
		markdown = printout.BuildReportMarkdown(*rep, *hospital)
	}

	switch *format {
	case "markdown":
		writeOut(*outputPath, []byte(markdown))
	case "text":
		text := reporttext.PlainTextReport(reporttext.ReportFields{
			HospitalName:    *hospital,
			DoctorName:      rep.SignedBy,
			LicenseNo:       rep.LicenseNo,
			PatientName:     rep.PatientName,
			ChartNo:         rep.ChartNo,
			RRNMasked:       rep.PatientRRN,
			AgeText:         rep.PatientAge,
			Sex:             rep.PatientSex,
			ExamDate:        rep.ExamDate,
			ClinicalHistory: rep.ClinicalHistory,
			Findings:        rep.Findings,
			Impression:      rep.Impression,
			Recommendations: rep.Recommendations,
		})
		writeOut(*outputPath, []byte(text))
	case "pdf":
		if *outputPath == "" {
			log.Fatal("-output is required for pdf")
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		pdf, err := printout.NewRenderer().RenderPDF(ctx, markdown, "Ultrasound Report")
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*outputPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
		log.Printf("wrote %s (%d bytes)", *outputPath, len(pdf))
	default:
		log.Fatalf("unknown format %q", *format)
	}
}

func writeOut(path string, data []byte) {
	if path == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
}
