// Package httpapi exposes the report drafting service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shiricson7/gpt-us-report/internal/catalog"
	"github.com/shiricson7/gpt-us-report/internal/draft"
	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/identity"
	"github.com/shiricson7/gpt-us-report/internal/ktirads"
	"github.com/shiricson7/gpt-us-report/internal/llm"
	"github.com/shiricson7/gpt-us-report/internal/reporttext"
	"github.com/shiricson7/gpt-us-report/internal/store"
)

// Server routes drafting, identity, catalog, and report CRUD requests.
// Cipher may be nil when no encryption secret is configured; the secure
// identifier endpoint then reports 503.
type Server struct {
	drafter  *draft.Drafter
	guardian *guardian.Builder
	cipher   *identity.Cipher
	reports  *store.Store
	hospital string
	token    string
}

// Config wires the server's collaborators. Token empty disables auth,
// matching a trusted-network deployment.
type Config struct {
	Drafter  *draft.Drafter
	Guardian *guardian.Builder
	Cipher   *identity.Cipher
	Reports  *store.Store
	Hospital string
	Token    string
}

func NewServer(cfg Config) http.Handler {
	if cfg.Guardian == nil {
		// A nil caller always produces the deterministic fallback.
		cfg.Guardian = guardian.NewBuilder(nil)
	}
	s := &Server{
		drafter:  cfg.Drafter,
		guardian: cfg.Guardian,
		cipher:   cfg.Cipher,
		reports:  cfg.Reports,
		hospital: cfg.Hospital,
		token:    strings.TrimSpace(cfg.Token),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ai/analyze", s.authed(s.handleAnalyze))
	mux.HandleFunc("/v1/ai/thyroid", s.authed(s.handleThyroid))
	mux.HandleFunc("/v1/ai/polish", s.authed(s.handlePolish))
	mux.HandleFunc("/v1/guardian-summary", s.authed(s.handleGuardianSummary))
	mux.HandleFunc("/v1/secure/rrn", s.authed(s.handleSecureRRN))
	mux.HandleFunc("/v1/catalog", s.authed(s.handleCatalog))
	mux.HandleFunc("/v1/reports", s.authed(s.handleReports))
	mux.HandleFunc("/v1/reports/", s.authed(s.handleReportByID))
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": message},
	})
}

// writeDraftError maps pipeline failures: collaborator failures become a
// 502 carrying the collaborator's own message, everything else is the
// caller's fault.
func writeDraftError(w http.ResponseWriter, err error) {
	var ce *draft.CollaboratorError
	if errors.As(err, &ce) || errors.Is(err, draft.ErrNonJSONResponse) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(blob, dst)
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header != "Bearer "+s.token {
				writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
		}
		next(w, r)
	}
}

// imagePayload is the wire form of one uploaded image, already base64.
type imagePayload struct {
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Data      string `json:"data"`
}

func toImages(payloads []imagePayload) []llm.Image {
	var out []llm.Image
	for _, p := range payloads {
		out = append(out, llm.Image{Filename: p.Filename, MediaType: p.MediaType, Data: p.Data})
	}
	return out
}

func (s *Server) requireDrafter(w http.ResponseWriter) bool {
	if s.drafter == nil {
		writeError(w, http.StatusServiceUnavailable, "drafting model not configured")
		return false
	}
	return true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) || !s.requireDrafter(w) {
		return
	}
	var req struct {
		ExamType        string         `json:"examType"`
		ClinicalHistory string         `json:"clinicalHistory"`
		ImageContext    string         `json:"imageContext"`
		Images          []imagePayload `json:"images"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	out, err := s.drafter.Analyze(r.Context(), draft.AnalyzeRequest{
		ExamType:        req.ExamType,
		ClinicalHistory: req.ClinicalHistory,
		ImageContext:    req.ImageContext,
		Images:          toImages(req.Images),
	})
	if err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleThyroid(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) || !s.requireDrafter(w) {
		return
	}
	var req struct {
		ClinicalInfo string         `json:"clinicalInfo"`
		ImageContext string         `json:"imageContext"`
		Images       []imagePayload `json:"images"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	out, err := s.drafter.AnalyzeThyroid(r.Context(), draft.ThyroidRequest{
		ClinicalInfo: req.ClinicalInfo,
		ImageContext: req.ImageContext,
		Images:       toImages(req.Images),
	})
	if err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) || !s.requireDrafter(w) {
		return
	}
	var req draft.PolishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	out, err := s.drafter.Polish(r.Context(), req)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGuardianSummary(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Findings   string `json:"findings"`
		Impression string `json:"impression"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result := s.guardian.Build(r.Context(), req.Findings, req.Impression)
	guide := guardian.BuildGuide(req.Findings, req.Impression)
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": result.Summary,
		"source":  result.Source,
		"guide":   guide,
	})
}

func (s *Server) handleSecureRRN(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.cipher == nil {
		writeError(w, http.StatusServiceUnavailable, "identifier encryption not configured")
		return
	}
	var req struct {
		RRN      string `json:"rrn"`
		ExamDate string `json:"examDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rrn := strings.TrimSpace(req.RRN)
	if rrn == "" {
		writeJSON(w, http.StatusOK, map[string]any{"rrnMasked": "", "rrnEnc": ""})
		return
	}
	enc, err := s.cipher.Encrypt(rrn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encryption failed")
		return
	}
	derived := identity.Derive(rrn, req.ExamDate)
	writeJSON(w, http.StatusOK, map[string]any{
		"rrnMasked": identity.Mask(rrn),
		"rrnEnc":    enc,
		"sex":       derived.Sex,
		"ageText":   derived.AgeText,
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if t := strings.TrimSpace(r.URL.Query().Get("type")); t != "" {
		entry, ok := catalog.Lookup(catalog.ExamType(t))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown exam type")
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"examTypes": catalog.All()})
}

// reportPayload is the report create/update body. A raw identifier may be
// supplied; it is masked and encrypted server-side and never stored plain.
type reportPayload struct {
	ExamType        string            `json:"examType"`
	ExamDate        string            `json:"examDate"`
	PatientName     string            `json:"patientName"`
	ChartNo         string            `json:"chartNo"`
	RRN             string            `json:"rrn"`
	ClinicalHistory string            `json:"clinicalHistory"`
	Findings        string            `json:"findings"`
	Impression      string            `json:"impression"`
	Recommendations string            `json:"recommendations"`
	Nodules         json.RawMessage   `json:"nodules"`
	GuardianSummary *guardian.Summary `json:"guardianSummary"`
	SignedBy        string            `json:"signedBy"`
	LicenseNo       string            `json:"licenseNo"`
}

func (s *Server) toReport(p reportPayload) (store.Report, error) {
	rep := store.Report{
		ExamType:        p.ExamType,
		ExamDate:        p.ExamDate,
		PatientName:     p.PatientName,
		ChartNo:         p.ChartNo,
		ClinicalHistory: p.ClinicalHistory,
		Findings:        p.Findings,
		Impression:      p.Impression,
		Recommendations: p.Recommendations,
		GuardianSummary: p.GuardianSummary,
		SignedBy:        p.SignedBy,
		LicenseNo:       p.LicenseNo,
	}
	if len(p.Nodules) > 0 {
		var raw any
		if json.Unmarshal(p.Nodules, &raw) == nil {
			rep.Nodules = ktirads.CoerceNodules(raw)
		}
	}
	if rrn := strings.TrimSpace(p.RRN); rrn != "" {
		rep.PatientRRN = identity.Mask(rrn)
		derived := identity.Derive(rrn, p.ExamDate)
		rep.PatientSex = derived.Sex
		rep.PatientAge = derived.AgeText
		if s.cipher != nil {
			enc, err := s.cipher.Encrypt(rrn)
			if err != nil {
				return store.Report{}, errors.New("identifier encryption failed")
			}
			rep.EncryptedRRN = enc
		}
	}
	return rep, nil
}

func (s *Server) requireReports(w http.ResponseWriter) bool {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report store not configured")
		return false
	}
	return true
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if !s.requireReports(w) {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req reportPayload
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rep, err := s.toReport(req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		created, err := s.reports.Create(rep)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, created)
	case http.MethodGet:
		list, err := s.reports.List(strings.TrimSpace(r.URL.Query().Get("examType")))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []store.Report{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": list})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireReports(w) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if print, ok := strings.CutSuffix(path, "/print"); ok {
		s.handlePrint(w, r, strings.TrimSuffix(print, "/"))
		return
	}
	id := strings.TrimSuffix(path, "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rep, err := s.reports.Get(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	case http.MethodPut:
		var req reportPayload
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rep, err := s.toReport(req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		updated, err := s.reports.Update(id, rep)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.reports.Delete(id); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request, id string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rep, err := s.reports.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	text := reporttext.PlainTextReport(reporttext.ReportFields{
		HospitalName:    s.hospital,
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
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"drafting": s.drafter != nil,
		"secure":   s.cipher != nil,
		"reports":  s.reports != nil,
	})
}
