package guardian

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shiricson7/gpt-us-report/internal/llm"
)

type fakeCaller struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeCaller) GenerateJSON(_ context.Context, _, prompt string, _ []llm.Image) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func assertComplete(t *testing.T, s Summary) {
	t.Helper()
	if strings.TrimSpace(s.Summary) == "" {
		t.Fatal("summary text empty")
	}
	if len(s.KeyPoints) == 0 || len(s.NextSteps) == 0 || len(s.Reassurance) == 0 {
		t.Fatalf("summary lists must be non-empty: %+v", s)
	}
}

func TestBuildEmptyInputSkipsModel(t *testing.T) {
	caller := &fakeCaller{response: `{}`}
	b := NewBuilder(caller)
	res := b.Build(context.Background(), "", "")
	if caller.calls != 0 {
		t.Fatal("empty input must never reach the model")
	}
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
}

func TestBuildNoCallerFallsBack(t *testing.T) {
	b := NewBuilder(nil)
	res := b.Build(context.Background(), "thyroid nodule seen", "follow-up")
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
}

func TestBuildModelErrorFallsBack(t *testing.T) {
	b := NewBuilder(&fakeCaller{err: errors.New("boom")})
	res := b.Build(context.Background(), "findings here", "")
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
}

func TestBuildModelGarbageFallsBack(t *testing.T) {
	b := NewBuilder(&fakeCaller{response: "not json at all"})
	res := b.Build(context.Background(), "findings here", "")
	if res.Source != SourceFallback {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
}

func TestBuildModelPath(t *testing.T) {
	caller := &fakeCaller{response: "```json\n" + `{
		"summary": "간단한 요약입니다. 걱정하지 않으셔도 됩니다.",
		"keyPoints": ["- 첫 번째", "2) 두 번째", "• 세 번째", "네 번째", "다섯 번째"],
		"nextSteps": "다음 단계 하나\n다음 단계 둘",
		"reassurance": ["안심 문구 하나", "안심 문구 둘"]
	}` + "\n```"}
	b := NewBuilder(caller)
	res := b.Build(context.Background(), "thyroid nodule", "benign nodule")
	if res.Source != SourceAI {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
	if len(res.Summary.KeyPoints) != 4 {
		t.Fatalf("keyPoints should clamp to 4: %v", res.Summary.KeyPoints)
	}
	for _, kp := range res.Summary.KeyPoints {
		if strings.HasPrefix(kp, "-") || strings.HasPrefix(kp, "•") || strings.HasPrefix(kp, "2)") {
			t.Fatalf("enumeration marker not stripped: %q", kp)
		}
	}
	if len(res.Summary.NextSteps) != 2 {
		t.Fatalf("newline-joined nextSteps should split: %v", res.Summary.NextSteps)
	}
}

func TestBuildModelMissingFieldsUseFallback(t *testing.T) {
	b := NewBuilder(&fakeCaller{response: `{"summary":"모델 요약 문장입니다."}`})
	res := b.Build(context.Background(), "thyroid nodule", "")
	if res.Source != SourceAI {
		t.Fatalf("source = %q", res.Source)
	}
	assertComplete(t, res.Summary)
	if res.Summary.Summary != "모델 요약 문장입니다." {
		t.Fatalf("summary = %q", res.Summary.Summary)
	}
	// Missing lists are substituted from the deterministic fallback.
	if len(res.Summary.Reassurance) != 3 {
		t.Fatalf("reassurance = %v", res.Summary.Reassurance)
	}
}

func TestBuildRedactsBeforeModel(t *testing.T) {
	caller := &fakeCaller{response: `{}`}
	b := NewBuilder(caller)
	b.Build(context.Background(), "RRN 990101-1234567 noted", "chart 123456789")
	if caller.calls != 1 {
		t.Fatalf("calls = %d", caller.calls)
	}
	prompt := caller.prompts[0]
	if strings.Contains(prompt, "990101-1234567") || strings.Contains(prompt, "123456789") {
		t.Fatalf("identifiers leaked into prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "[REDACTED]") {
		t.Fatalf("placeholder missing from prompt: %q", prompt)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	b := NewBuilder(nil)
	a := b.Build(context.Background(), "nodule and cyst", "follow-up")
	c := b.Build(context.Background(), "nodule and cyst", "follow-up")
	if a.Summary.Summary != c.Summary.Summary || len(a.Summary.NextSteps) != len(c.Summary.NextSteps) {
		t.Fatal("fallback must be deterministic")
	}
	for i := range a.Summary.NextSteps {
		if a.Summary.NextSteps[i] != c.Summary.NextSteps[i] {
			t.Fatal("fallback next steps changed between runs")
		}
	}
}

func TestFallbackNextStepsFromTerms(t *testing.T) {
	b := NewBuilder(nil)
	res := b.Build(context.Background(), "thyroid nodule with cyst", "")
	if len(res.Summary.NextSteps) == 0 || !strings.Contains(res.Summary.NextSteps[0], "결절/혹:") {
		t.Fatalf("next steps should explain matched terms: %v", res.Summary.NextSteps)
	}
}
