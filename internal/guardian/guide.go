// Package guardian builds lay-audience explanations of report findings for
// a patient's caregiver. The deterministic guide here is the guaranteed
// path; the model-backed summary in summary.go only ever enriches it.
package guardian

import (
	"regexp"
	"strings"
)

// Term is one glossary entry explained in caregiver language.
type Term struct {
	Title       string
	Description string
}

// Guide is the deterministic caregiver guide built from findings and
// impression text alone.
type Guide struct {
	Intro       string
	Highlights  []string
	Terms       []Term
	Reassurance []string
}

const maxTerms = 4

// Rule tables are ordered and immutable: highlight and term matches are
// emitted in table order, first match per entry.
type highlightRule struct {
	id       string
	patterns []*regexp.Regexp
	text     string
}

type termRule struct {
	id       string
	patterns []*regexp.Regexp
	term     Term
}

var highlightRules = []highlightRule{
	{
		id: "normal",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`특이\s*소견\s*없`),
			regexp.MustCompile(`특별한\s*이상\s*없`),
			regexp.MustCompile(`정상\s*(범위|소견)`),
			regexp.MustCompile(`(?i)\bnormal\b`),
			regexp.MustCompile(`(?i)unremarkable`),
			regexp.MustCompile(`(?i)within\s+normal\s+limits`),
			regexp.MustCompile(`(?i)no\s+(abnormal|evidence|sign|finding)`),
		},
		text: "기록에 '정상' 또는 '특이 소견 없음'에 가까운 표현이 있어요. 뚜렷한 이상이 보이지 않는다는 뜻으로 쓰입니다.",
	},
	{
		id: "follow-up",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`추적`),
			regexp.MustCompile(`재검`),
			regexp.MustCompile(`경과\s*관찰`),
			regexp.MustCompile(`(?i)follow[- ]?up`),
			regexp.MustCompile(`(?i)recheck`),
			regexp.MustCompile(`(?i)monitor`),
			regexp.MustCompile(`(?i)surveillance`),
			regexp.MustCompile(`(?i)f/u`),
		},
		text: "경과 관찰이나 재검 안내가 보일 수 있어요. 아이의 증상과 함께 시간을 두고 다시 확인하는 과정입니다.",
	},
	{
		id: "compare",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`비교`),
			regexp.MustCompile(`이전`),
			regexp.MustCompile(`(?i)previous`),
			regexp.MustCompile(`(?i)prior`),
			regexp.MustCompile(`(?i)compared`),
			regexp.MustCompile(`(?i)comparison`),
		},
		text: "이전 검사와 비교했다는 표현이 있으면, 변화가 있는지 살펴본다는 뜻이에요.",
	},
}

var termRules = []termRule{
	{
		id: "nodule",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`결절`),
			regexp.MustCompile(`종괴`),
			regexp.MustCompile(`혹`),
			regexp.MustCompile(`(?i)\bnodule\b`),
			regexp.MustCompile(`(?i)\bmass\b`),
			regexp.MustCompile(`(?i)\blesion\b`),
		},
		term: Term{
			Title:       "결절/혹",
			Description: "작은 혹이나 덩이를 말해요. 크기와 모양을 보고 필요하면 경과를 살펴봅니다.",
		},
	},
	{
		id: "cyst",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`낭종`),
			regexp.MustCompile(`물혹`),
			regexp.MustCompile(`(?i)\bcyst\b`),
		},
		term: Term{
			Title:       "낭종/물혹",
			Description: "액체가 차 있는 작은 주머니를 뜻해요. 대부분은 지켜보며 크기를 확인합니다.",
		},
	},
	{
		id: "inflammation",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`염증`),
			regexp.MustCompile(`감염`),
			regexp.MustCompile(`(?i)inflamm`),
			regexp.MustCompile(`(?i)infection`),
		},
		term: Term{
			Title:       "염증/자극",
			Description: "조직이 붓거나 자극받은 상태를 의미해요. 증상과 함께 치료 여부를 결정합니다.",
		},
	},
	{
		id: "fluid",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`액체`),
			regexp.MustCompile(`저류`),
			regexp.MustCompile(`삼출`),
			regexp.MustCompile(`복수`),
			regexp.MustCompile(`흉수`),
			regexp.MustCompile(`(?i)\bfluid\b`),
			regexp.MustCompile(`(?i)effusion`),
			regexp.MustCompile(`(?i)ascites`),
			regexp.MustCompile(`(?i)collection`),
		},
		term: Term{
			Title:       "액체/삼출",
			Description: "액체가 모였다는 뜻으로, 위치와 양을 살피며 필요한 조치를 결정해요.",
		},
	},
	{
		id: "enlarged",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`비대`),
			regexp.MustCompile(`확장`),
			regexp.MustCompile(`(?i)enlarged`),
			regexp.MustCompile(`(?i)dilat`),
		},
		term: Term{
			Title:       "확장/비대",
			Description: "관이나 장기의 크기가 커져 보인다는 의미로, 원인을 확인하며 경과를 봐요.",
		},
	},
	{
		id: "lymph",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`림프`),
			regexp.MustCompile(`(?i)lymph`),
		},
		term: Term{
			Title:       "림프절",
			Description: "면역과 관련된 작은 구조예요. 크기와 모양을 살피며 의미를 판단합니다.",
		},
	},
	{
		id: "stone",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`결석`),
			regexp.MustCompile(`석회`),
			regexp.MustCompile(`(?i)calcification`),
			regexp.MustCompile(`(?i)\bstone\b`),
		},
		term: Term{
			Title:       "결석/석회",
			Description: "단단하게 굳은 부분을 의미해요. 위치와 크기를 확인해요.",
		},
	},
}

var defaultReassurance = []string{
	"초음파는 방사선이 없는 안전한 검사예요.",
	"대부분은 경과를 보며 차분히 결정합니다.",
	"궁금한 점은 진료실에서 편하게 질문해 주세요.",
}

const defaultIntro = "이 안내서는 소견과 판독 요약을 보호자분이 이해하기 쉽게 풀어쓴 참고 자료예요. 최종 설명은 담당의가 드립니다."

var emptyRecordHighlights = []string{
	"검사 기록이 아직 입력되지 않았습니다. 진료실에서 담당의 설명을 먼저 확인해 주세요.",
	"궁금한 점을 미리 적어 두었다가 편하게 질문해 주세요.",
}

var genericHighlights = []string{
	"소견은 초음파에서 관찰된 사실을 적는 부분이에요.",
	"판독 요약은 소견의 의미를 간단히 정리한 부분입니다.",
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// BuildGuide scans findings and impression against the ordered rule tables
// and assembles the deterministic caregiver guide. Identical input always
// yields identical output.
func BuildGuide(findings, impression string) Guide {
	combined := strings.TrimSpace(findings + "\n" + impression)

	if combined == "" {
		return Guide{
			Intro:       defaultIntro,
			Highlights:  append([]string(nil), emptyRecordHighlights...),
			Reassurance: append([]string(nil), defaultReassurance...),
		}
	}

	var highlights []string
	for _, rule := range highlightRules {
		if matchesAny(rule.patterns, combined) {
			highlights = append(highlights, rule.text)
		}
	}
	if len(highlights) == 0 {
		highlights = append(highlights, genericHighlights...)
	}

	var terms []Term
	for _, rule := range termRules {
		if len(terms) == maxTerms {
			break
		}
		if matchesAny(rule.patterns, combined) {
			terms = append(terms, rule.term)
		}
	}

	return Guide{
		Intro:       defaultIntro,
		Highlights:  highlights,
		Terms:       terms,
		Reassurance: append([]string(nil), defaultReassurance...),
	}
}
