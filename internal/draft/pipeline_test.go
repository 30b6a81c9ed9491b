package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shiricson7/gpt-us-report/internal/ktirads"
	"github.com/shiricson7/gpt-us-report/internal/llm"
)

type fakeCaller struct {
	response string
	err      error
	system   string
	prompt   string
	images   []llm.Image
	calls    int
}

func (f *fakeCaller) GenerateJSON(_ context.Context, system, prompt string, images []llm.Image) (string, error) {
	f.calls++
	f.system = system
	f.prompt = prompt
	f.images = images
	return f.response, f.err
}

func oneImage() []llm.Image {
	return []llm.Image{{Filename: "img1.jpg", MediaType: "image/jpeg", Data: "aGVsbG8="}}
}

func TestAnalyzeHappyPath(t *testing.T) {
	caller := &fakeCaller{response: `{
		"findings": "Liver normal. No focal lesion.",
		"impression": "Impression: Normal study.",
		"recommendations": "필요 시 추적 초음파. 임상 경과 관찰."
	}`}
	d := NewDrafter(caller)
	got, err := d.Analyze(context.Background(), AnalyzeRequest{
		ExamType: "abdominal",
		Images:   oneImage(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Findings != "Liver normal.\nNo focal lesion." {
		t.Fatalf("findings = %q", got.Findings)
	}
	if got.Impression != "Normal study" {
		t.Fatalf("impression = %q", got.Impression)
	}
	if !strings.Contains(got.Recommendations, "\n") {
		t.Fatalf("recommendations not reflowed: %q", got.Recommendations)
	}
}

func TestAnalyzeRedactsOutboundText(t *testing.T) {
	caller := &fakeCaller{response: `{"findings":"","impression":"","recommendations":""}`}
	d := NewDrafter(caller)
	_, err := d.Analyze(context.Background(), AnalyzeRequest{
		ExamType:        "abdominal",
		ClinicalHistory: "RRN 990101-1234567, chart 987654321",
		ImageContext:    "phone 01012345678",
		Images:          oneImage(),
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, leak := range []string{"990101-1234567", "987654321", "01012345678"} {
		if strings.Contains(caller.prompt, leak) {
			t.Fatalf("identifier %q leaked into prompt", leak)
		}
	}
}

func TestAnalyzeRequiresExamTypeAndImages(t *testing.T) {
	d := NewDrafter(&fakeCaller{})
	if _, err := d.Analyze(context.Background(), AnalyzeRequest{Images: oneImage()}); err == nil {
		t.Fatal("missing examType should fail")
	}
	if _, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal"}); err == nil {
		t.Fatal("missing images should fail")
	}
	many := make([]llm.Image, 13)
	if _, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal", Images: many}); err == nil {
		t.Fatal("13 images should fail")
	}
}

func TestAnalyzeSurfacesCollaboratorError(t *testing.T) {
	d := NewDrafter(&fakeCaller{err: errors.New("upstream 500")})
	_, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal", Images: oneImage()})
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("want CollaboratorError, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream 500") {
		t.Fatalf("collaborator message lost: %v", err)
	}
}

func TestAnalyzeNonJSON(t *testing.T) {
	d := NewDrafter(&fakeCaller{response: "sorry, I cannot"})
	_, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal", Images: oneImage()})
	if !errors.Is(err, ErrNonJSONResponse) {
		t.Fatalf("want ErrNonJSONResponse, got %v", err)
	}
}

func TestAnalyzeToleratesCodeFences(t *testing.T) {
	d := NewDrafter(&fakeCaller{response: "```json\n{\"findings\":\"Normal.\",\"impression\":\"\",\"recommendations\":\"\"}\n```"})
	got, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal", Images: oneImage()})
	if err != nil {
		t.Fatal(err)
	}
	if got.Findings != "Normal." {
		t.Fatalf("findings = %q", got.Findings)
	}
}

func TestAnalyzeCoercesNonStringFields(t *testing.T) {
	d := NewDrafter(&fakeCaller{response: `{"findings": 42, "impression": ["a"], "recommendations": null}`})
	got, err := d.Analyze(context.Background(), AnalyzeRequest{ExamType: "abdominal", Images: oneImage()})
	if err != nil {
		t.Fatal(err)
	}
	if got.Findings != "" || got.Impression != "" || got.Recommendations != "" {
		t.Fatalf("non-string fields should coerce to empty: %+v", got)
	}
}

func TestAnalyzeThyroidValidatesNodules(t *testing.T) {
	caller := &fakeCaller{response: `{
		"imageAssignments": [{"filename":"a.jpg","side":"right"}, "junk", {"side":"left"}],
		"nodules": [
			{"side":"right","sizeMm":12,"kTirads":"4","confidence":"high"},
			{"side":"??","sizeMm":"big","kTirads":7}
		],
		"findings": "Right thyroid nodule seen. No lymphadenopathy.",
		"impression": "Thyroid nodule."
	}`}
	d := NewDrafter(caller)
	got, err := d.AnalyzeThyroid(context.Background(), ThyroidRequest{Images: oneImage()})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ImageAssignments) != 2 {
		t.Fatalf("assignments = %+v", got.ImageAssignments)
	}
	if got.ImageAssignments[0].Filename != "a.jpg" || got.ImageAssignments[0].Side != "right" {
		t.Fatalf("assignments[0] = %+v", got.ImageAssignments[0])
	}
	if len(got.Nodules) != 2 {
		t.Fatalf("nodules = %+v", got.Nodules)
	}
	if got.Nodules[0].Category != ktirads.CategoryIntermediate || got.Nodules[0].SizeMm == nil {
		t.Fatalf("nodules[0] = %+v", got.Nodules[0])
	}
	if got.Nodules[1].Side != ktirads.SideUnknown || got.Nodules[1].Category != 0 || got.Nodules[1].SizeMm != nil {
		t.Fatalf("nodules[1] should be neutralized: %+v", got.Nodules[1])
	}
	if got.Impression != "Thyroid nodule" {
		t.Fatalf("impression = %q", got.Impression)
	}
}

func TestPolishKeepsPriorImpressionWhenCleanedEmpty(t *testing.T) {
	findings := "Liver normal in size and echogenicity without focal lesion. Gallbladder unremarkable with no stone or wall thickening seen anywhere. Pancreas and spleen unremarkable on this exam."
	caller := &fakeCaller{response: `{"findings": "` + findings + `", "impression": "` + findings + `"}`}
	d := NewDrafter(caller)
	got, err := d.Polish(context.Background(), PolishRequest{
		Findings:   "liver ok",
		Impression: "Prior impression",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Impression != "Prior impression" {
		t.Fatalf("impression = %q", got.Impression)
	}
}

func TestPolishRequiresFindings(t *testing.T) {
	d := NewDrafter(&fakeCaller{})
	if _, err := d.Polish(context.Background(), PolishRequest{}); err == nil {
		t.Fatal("missing findings should fail")
	}
}

func TestPolishKeepsInputFindingsWhenModelEmpty(t *testing.T) {
	d := NewDrafter(&fakeCaller{response: `{"findings":"","impression":"New impression"}`})
	got, err := d.Polish(context.Background(), PolishRequest{Findings: "original findings"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Findings != "original findings" {
		t.Fatalf("findings = %q", got.Findings)
	}
	if got.Impression != "New impression" {
		t.Fatalf("impression = %q", got.Impression)
	}
}

func TestPolishSingleCallNoRetry(t *testing.T) {
	caller := &fakeCaller{err: errors.New("timeout")}
	d := NewDrafter(caller)
	if _, err := d.Polish(context.Background(), PolishRequest{Findings: "x"}); err == nil {
		t.Fatal("want error")
	}
	if caller.calls != 1 {
		t.Fatalf("drafting path must not retry, calls = %d", caller.calls)
	}
}
