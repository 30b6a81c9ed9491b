package guardian

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shiricson7/gpt-us-report/internal/llm"
	"github.com/shiricson7/gpt-us-report/internal/reporttext"
)

var tracer = otel.Tracer("gpt-us-report/guardian")

// Summary is the caregiver-facing summary of a report. Every list is
// non-empty; the fallback path guarantees it.
type Summary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	NextSteps   []string `json:"nextSteps"`
	Reassurance []string `json:"reassurance"`
}

// Source records which path produced the summary.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

type Result struct {
	Summary Summary `json:"summary"`
	Source  Source  `json:"source"`
}

const (
	maxKeyPoints   = 4
	maxNextSteps   = 3
	maxReassurance = 3
)

var defaultNextSteps = []string{
	"추가 검사나 치료 계획은 담당의와 상의해 주세요.",
	"증상이 계속되거나 걱정되는 점이 있으면 진료실에 알려 주세요.",
}

const summarySystemPrompt = `너는 소아 영상의학과 전문의이며 보호자에게 쉬운 설명을 제공한다.
Findings와 Impression에 근거해 보호자용 안내문을 작성한다.
가능하면 전부 한글로 작성하고, 쉬운 단어와 짧은 문장을 사용한다.
새로운 진단이나 추측을 추가하지 않는다.
내용은 A4 한 장 분량으로 간결하게 유지한다.
JSON 외의 다른 형식으로 출력하지 않는다.
JSON 키는 summary, keyPoints, nextSteps, reassurance만 허용한다.
summary는 2~3문장으로 작성한다.
keyPoints는 3~4개 항목으로 작성한다.
nextSteps는 2~3개 항목으로 작성한다.
reassurance는 2개 항목으로 작성한다.
각 항목에는 글머리표나 숫자를 넣지 않는다.`

// builder is one summary-producing strategy. The model-backed builder may
// fail; the fallback never does.
type builder interface {
	build(ctx context.Context, findings, impression string) (Summary, error)
}

// Builder produces guardian summaries, preferring the model path when a
// caller is configured and silently degrading to the deterministic
// fallback on any failure.
type Builder struct {
	ai       builder
	fallback fallbackBuilder
}

// NewBuilder wires the dual-path builder. A nil caller means fallback-only.
func NewBuilder(caller llm.Caller) *Builder {
	b := &Builder{}
	if caller != nil {
		b.ai = &llmBuilder{caller: caller}
	}
	return b
}

// Build redacts both inputs, then produces a summary. Empty input never
// reaches the model. Model failures are absorbed: this path is
// supplementary, so silent degradation is the correct behavior.
func (b *Builder) Build(ctx context.Context, findings, impression string) Result {
	ctx, span := tracer.Start(ctx, "guardian.Build")
	defer span.End()

	findings = cleanText(reporttext.Redact(findings))
	impression = cleanText(reporttext.Redact(impression))

	fb := b.fallback.buildFallback(findings, impression)
	if b.ai == nil || (findings == "" && impression == "") {
		span.SetAttributes(attribute.String("source", string(SourceFallback)))
		return Result{Summary: fb, Source: SourceFallback}
	}

	s, err := b.ai.build(ctx, findings, impression)
	if err != nil {
		span.SetAttributes(attribute.String("source", string(SourceFallback)))
		return Result{Summary: fb, Source: SourceFallback}
	}
	span.SetAttributes(attribute.String("source", string(SourceAI)))
	return Result{Summary: mergeWithFallback(s, fb), Source: SourceAI}
}

// mergeWithFallback coerces each model field and substitutes the fallback
// value wherever the model returned nothing usable.
func mergeWithFallback(s Summary, fb Summary) Summary {
	out := Summary{
		Summary:     s.Summary,
		KeyPoints:   clampList(s.KeyPoints, fb.KeyPoints, maxKeyPoints),
		NextSteps:   clampList(s.NextSteps, fb.NextSteps, maxNextSteps),
		Reassurance: clampList(s.Reassurance, fb.Reassurance, maxReassurance),
	}
	if strings.TrimSpace(out.Summary) == "" {
		out.Summary = fb.Summary
	}
	return out
}

type fallbackBuilder struct{}

func (fallbackBuilder) buildFallback(findings, impression string) Summary {
	guide := BuildGuide(findings, impression)

	nextSteps := make([]string, 0, len(guide.Terms))
	for _, term := range guide.Terms {
		nextSteps = append(nextSteps, term.Title+": "+term.Description)
	}
	if len(nextSteps) == 0 {
		nextSteps = append(nextSteps, defaultNextSteps...)
	}

	return Summary{
		Summary:     guide.Intro,
		KeyPoints:   clip(guide.Highlights, maxKeyPoints),
		NextSteps:   clip(nextSteps, maxNextSteps),
		Reassurance: clip(guide.Reassurance, maxReassurance),
	}
}

type llmBuilder struct {
	caller llm.Caller
}

// rawSummary tolerates the loose shapes a model returns: lists may arrive
// as JSON arrays or newline-joined strings.
type rawSummary struct {
	Summary     json.RawMessage `json:"summary"`
	KeyPoints   json.RawMessage `json:"keyPoints"`
	NextSteps   json.RawMessage `json:"nextSteps"`
	Reassurance json.RawMessage `json:"reassurance"`
}

func (b *llmBuilder) build(ctx context.Context, findings, impression string) (Summary, error) {
	var sections []string
	if findings != "" {
		sections = append(sections, "Findings\n"+findings)
	}
	if impression != "" {
		sections = append(sections, "Impression\n"+impression)
	}
	prompt := strings.Join(sections, "\n\n")

	raw, err := b.caller.GenerateJSON(ctx, summarySystemPrompt, prompt, nil)
	if err != nil {
		return Summary{}, err
	}

	var parsed rawSummary
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &parsed); err != nil {
		return Summary{}, err
	}

	return Summary{
		Summary:     cleanText(coerceString(parsed.Summary)),
		KeyPoints:   coerceList(parsed.KeyPoints),
		NextSteps:   coerceList(parsed.NextSteps),
		Reassurance: coerceList(parsed.Reassurance),
	}, nil
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	newlineRuns  = regexp.MustCompile(`\n+`)
	lineMarkers  = regexp.MustCompile(`^[\s*\-•\d.)]+`)
	innerWS      = regexp.MustCompile(`\s+`)
)

func cleanText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = horizontalWS.ReplaceAllString(value, " ")
	value = newlineRuns.ReplaceAllString(value, "\n")
	return strings.TrimSpace(value)
}

// cleanLine strips leading bullet/numbering glyphs and collapses internal
// whitespace; list items must carry no enumeration markers.
func cleanLine(value string) string {
	value = lineMarkers.ReplaceAllString(value, "")
	return strings.TrimSpace(innerWS.ReplaceAllString(value, " "))
}

func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func coerceList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		items = newlineRuns.Split(strings.ReplaceAll(s, "\r\n", "\n"), -1)
	}

	var out []string
	for _, item := range items {
		if cleaned := cleanLine(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func clampList(items, fallback []string, max int) []string {
	if len(items) == 0 {
		items = fallback
	}
	return clip(items, max)
}

func clip(items []string, max int) []string {
	if len(items) > max {
		items = items[:max]
	}
	return append([]string(nil), items...)
}
