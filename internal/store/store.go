// Package store persists drafted ultrasound reports to SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/ktirads"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// Report is one saved ultrasound report. Thyroid exams additionally carry
// the structured nodule list; all other exam types leave it empty.
type Report struct {
	ID              string            `json:"id"`
	ExamType        string            `json:"examType"`
	ExamDate        string            `json:"examDate"`
	PatientName     string            `json:"patientName"`
	ChartNo         string            `json:"chartNo"`
	PatientRRN      string            `json:"patientRrn,omitempty"` // masked form only
	EncryptedRRN    string            `json:"-"`
	PatientSex      string            `json:"patientSex"`
	PatientAge      string            `json:"patientAge"`
	ClinicalHistory string            `json:"clinicalHistory"`
	Findings        string            `json:"findings"`
	Impression      string            `json:"impression"`
	Recommendations string            `json:"recommendations"`
	Nodules         []ktirads.Nodule  `json:"nodules,omitempty"`
	GuardianSummary *guardian.Summary `json:"guardianSummary,omitempty"`
	SignedBy        string            `json:"signedBy"`
	LicenseNo       string            `json:"licenseNo"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	report_id        TEXT PRIMARY KEY,
	exam_type        TEXT NOT NULL,
	exam_date        TEXT NOT NULL DEFAULT '',
	patient_name     TEXT NOT NULL DEFAULT '',
	chart_no         TEXT NOT NULL DEFAULT '',
	patient_rrn      TEXT NOT NULL DEFAULT '',
	encrypted_rrn    TEXT NOT NULL DEFAULT '',
	patient_sex      TEXT NOT NULL DEFAULT '',
	patient_age      TEXT NOT NULL DEFAULT '',
	clinical_history TEXT NOT NULL DEFAULT '',
	findings         TEXT NOT NULL DEFAULT '',
	impression       TEXT NOT NULL DEFAULT '',
	recommendations  TEXT NOT NULL DEFAULT '',
	nodules          TEXT NOT NULL DEFAULT '[]',
	guardian_summary TEXT,
	signed_by        TEXT NOT NULL DEFAULT '',
	license_no       TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS counters (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL DEFAULT 0
);
`

// Store is a SQLite-backed report store. SQLite serializes writes anyway,
// so the connection pool is capped at one and a mutex guards the id counter.
type Store struct {
	db     *sqlx.DB
	mu     sync.Mutex
	nextID int64
}

func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadCounter(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load counter: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadCounter() error {
	var value int64
	err := s.db.QueryRow("SELECT value FROM counters WHERE key = 'next_report_id'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	s.nextID = value
	return nil
}

func (s *Store) allocateID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if _, err := s.db.Exec("INSERT OR REPLACE INTO counters (key, value) VALUES ('next_report_id', ?)", s.nextID); err != nil {
		return "", err
	}
	return fmt.Sprintf("rpt-%06d", s.nextID), nil
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func nullableJSON(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// Create persists a new report and returns it with id and timestamps set.
func (s *Store) Create(r Report) (*Report, error) {
	if strings.TrimSpace(r.ExamType) == "" {
		return nil, errors.New("examType is required")
	}
	id, err := s.allocateID()
	if err != nil {
		return nil, fmt.Errorf("allocate id: %w", err)
	}
	now := time.Now().UTC()
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := s.save(&r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &r, nil
}

// Update overwrites an existing report's content fields. The id and
// creation time are preserved, as are the identifier fields (masked RRN,
// encrypted RRN, sex, age) when the update carries no new identifier.
func (s *Store) Update(id string, r Report) (*Report, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	if r.PatientRRN == "" && r.EncryptedRRN == "" {
		r.PatientRRN = existing.PatientRRN
		r.EncryptedRRN = existing.EncryptedRRN
		r.PatientSex = existing.PatientSex
		r.PatientAge = existing.PatientAge
	}
	if err := s.save(&r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &r, nil
}

func (s *Store) save(r *Report) error {
	var guardianJSON sql.NullString
	if r.GuardianSummary != nil {
		guardianJSON = nullableJSON(r.GuardianSummary)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO reports (report_id, exam_type, exam_date,
		patient_name, chart_no, patient_rrn, encrypted_rrn, patient_sex, patient_age,
		clinical_history, findings, impression, recommendations, nodules,
		guardian_summary, signed_by, license_no, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ExamType,
		r.ExamDate,
		r.PatientName,
		r.ChartNo,
		r.PatientRRN,
		r.EncryptedRRN,
		r.PatientSex,
		r.PatientAge,
		r.ClinicalHistory,
		r.Findings,
		r.Impression,
		r.Recommendations,
		marshalJSON(r.Nodules),
		guardianJSON,
		r.SignedBy,
		r.LicenseNo,
		timeToString(r.CreatedAt),
		timeToString(r.UpdatedAt),
	)
	return err
}

const reportColumns = `report_id, exam_type, exam_date, patient_name, chart_no,
	patient_rrn, encrypted_rrn, patient_sex, patient_age, clinical_history,
	findings, impression, recommendations, nodules, guardian_summary,
	signed_by, license_no, created_at, updated_at`

func scanReport(scan func(dest ...any) error) (*Report, error) {
	var r Report
	var nodulesJSON string
	var guardianJSON sql.NullString
	var createdAt, updatedAt string
	if err := scan(&r.ID, &r.ExamType, &r.ExamDate, &r.PatientName, &r.ChartNo,
		&r.PatientRRN, &r.EncryptedRRN, &r.PatientSex, &r.PatientAge, &r.ClinicalHistory,
		&r.Findings, &r.Impression, &r.Recommendations, &nodulesJSON, &guardianJSON,
		&r.SignedBy, &r.LicenseNo, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(nodulesJSON), &r.Nodules)
	if guardianJSON.Valid && guardianJSON.String != "" {
		var gs guardian.Summary
		if json.Unmarshal([]byte(guardianJSON.String), &gs) == nil {
			r.GuardianSummary = &gs
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &r, nil
}

func (s *Store) Get(id string) (*Report, error) {
	row := s.db.QueryRow("SELECT "+reportColumns+" FROM reports WHERE report_id = ?", id)
	r, err := scanReport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	return r, nil
}

// List returns reports newest first, optionally filtered by exam type.
func (s *Store) List(examType string) ([]Report, error) {
	query := "SELECT " + reportColumns + " FROM reports"
	var args []any
	if examType != "" {
		query += " WHERE exam_type = ?"
		args = append(args, examType)
	}
	query += " ORDER BY created_at DESC, report_id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM reports WHERE report_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
