package vertex

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// ParseTier names which recovery stage produced a result, for metrics.
type ParseTier string

const (
	TierStrict  ParseTier = "strict"
	TierRepair  ParseTier = "repair"
	TierSalvage ParseTier = "salvage"
	TierDefault ParseTier = "default"
)

// parseAnalysis turns a model's free-text output into a LegalAnalysis through
// ordered fallback tiers. It never fails: the last tier is a generic default.
//
//	strict:  strip code fences, parse as-is
//	repair:  slice to the outermost braces, normalize quotes/commas, re-parse
//	salvage: regex extraction of summary/riskScore/keyRisks
//	default: generic analysis labeled as degraded
func parseAnalysis(raw string) (domain.LegalAnalysis, ParseTier) {
	stripped := stripCodeFences(raw)

	if analysis, ok := parseStrict(stripped); ok {
		return analysis, TierStrict
	}
	if analysis, ok := parseRepaired(stripped); ok {
		return analysis, TierRepair
	}
	if analysis, ok := salvageFields(stripped); ok {
		return analysis, TierSalvage
	}
	return defaultAnalysis(raw), TierDefault
}

// analysisWire matches the key names the prompt instructs the model to emit.
type analysisWire struct {
	Summary         string              `json:"summary"`
	RiskScore       flexInt             `json:"riskScore"`
	KeyRisks        []domain.Risk       `json:"keyRisks"`
	Obligations     []domain.Obligation `json:"obligations"`
	Rights          []domain.Right      `json:"rights"`
	KeyTerms        []keyTermWire       `json:"keyTerms"`
	Recommendations []string            `json:"recommendations"`
}

type keyTermWire struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Importance string `json:"importance"`
}

// flexInt absorbs ints, floats and quoted numbers.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(int(parsed))
	return nil
}

func (w analysisWire) toDomain() domain.LegalAnalysis {
	keyTerms := make([]domain.KeyTerm, 0, len(w.KeyTerms))
	for _, term := range w.KeyTerms {
		keyTerms = append(keyTerms, domain.KeyTerm{
			Term:       term.Term,
			Definition: term.Definition,
			Importance: domain.NormalizeImportance(term.Importance),
		})
	}

	return domain.LegalAnalysis{
		Summary:         strings.TrimSpace(w.Summary),
		RiskScore:       domain.ClampRiskScore(int(w.RiskScore)),
		KeyRisks:        w.KeyRisks,
		Obligations:     w.Obligations,
		Rights:          w.Rights,
		KeyTerms:        keyTerms,
		Recommendations: w.Recommendations,
	}
}

func parseStrict(text string) (domain.LegalAnalysis, bool) {
	var wire analysisWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return domain.LegalAnalysis{}, false
	}
	if strings.TrimSpace(wire.Summary) == "" && len(wire.KeyRisks) == 0 {
		return domain.LegalAnalysis{}, false
	}
	return wire.toDomain(), true
}

func parseRepaired(text string) (domain.LegalAnalysis, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return domain.LegalAnalysis{}, false
	}
	return parseStrict(repairJSON(text[start : end+1]))
}

var (
	reCodeFence      = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	reSingleQuoteKey = regexp.MustCompile(`'([^'\n]*)'\s*:`)
	reSingleQuoteVal = regexp.MustCompile(`:\s*'([^'\n]*)'`)
	reTrailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	reDuplicateComma = regexp.MustCompile(`,\s*,`)
	reMissingCommaO  = regexp.MustCompile(`}\s*{`)
	reMissingCommaA  = regexp.MustCompile(`]\s*\[`)
)

func stripCodeFences(raw string) string {
	if match := reCodeFence.FindStringSubmatch(raw); len(match) == 2 {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(raw)
}

// repairJSON applies the mechanical fixes for the malformations models emit
// most often. It is deliberately dumb string surgery; anything it cannot fix
// falls through to the salvage tier.
func repairJSON(text string) string {
	replacer := strings.NewReplacer(
		"“", `"`, "”", `"`, // smart double quotes
		"‘", "'", "’", "'", // smart single quotes
	)
	text = replacer.Replace(text)

	text = stripControlChars(text)
	text = reSingleQuoteKey.ReplaceAllString(text, `"$1":`)
	text = reSingleQuoteVal.ReplaceAllString(text, `: "$1"`)
	for reDuplicateComma.MatchString(text) {
		text = reDuplicateComma.ReplaceAllString(text, ",")
	}
	text = reTrailingComma.ReplaceAllString(text, "$1")
	text = reMissingCommaO.ReplaceAllString(text, "},{")
	text = reMissingCommaA.ReplaceAllString(text, "],[")
	return text
}

func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, text)
}

var (
	reSummaryField  = regexp.MustCompile(`(?i)"summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	reRiskScoreNum  = regexp.MustCompile(`(?i)"risk_?score"\s*:\s*"?(-?\d+(?:\.\d+)?)"?`)
	reKeyRisksSpan  = regexp.MustCompile(`(?is)"key_?risks"\s*:\s*(\[.*?\])`)
	reEscapedQuotes = regexp.MustCompile(`\\(["\\/])`)
)

// salvageFields recovers individual fields from text that cannot be parsed
// as a whole. A partial result counts if at least one field came back.
func salvageFields(text string) (domain.LegalAnalysis, bool) {
	analysis := domain.LegalAnalysis{RiskScore: 50}
	recovered := false

	if match := reSummaryField.FindStringSubmatch(text); len(match) == 2 {
		analysis.Summary = strings.TrimSpace(reEscapedQuotes.ReplaceAllString(match[1], "$1"))
		recovered = analysis.Summary != ""
	}
	if match := reRiskScoreNum.FindStringSubmatch(text); len(match) == 2 {
		if parsed, err := strconv.ParseFloat(match[1], 64); err == nil {
			analysis.RiskScore = domain.ClampRiskScore(int(parsed))
			recovered = true
		}
	}
	if match := reKeyRisksSpan.FindStringSubmatch(text); len(match) == 2 {
		var risks []domain.Risk
		if err := json.Unmarshal([]byte(repairJSON(match[1])), &risks); err == nil && len(risks) > 0 {
			analysis.KeyRisks = risks
			recovered = true
		}
	}

	if !recovered {
		return domain.LegalAnalysis{}, false
	}
	if analysis.Summary == "" {
		analysis.Summary = "Partial analysis recovered from the model response. Review the document manually for full coverage."
	}
	analysis.Degraded = true
	return analysis, true
}

// defaultAnalysis is the terminal fallback when nothing could be parsed.
func defaultAnalysis(raw string) domain.LegalAnalysis {
	summary := strings.TrimSpace(raw)
	if summary == "" {
		summary = "The analysis service returned no usable result for this document."
	} else if len(summary) > 2000 {
		summary = summary[:2000]
	}

	return domain.LegalAnalysis{
		Summary:   summary,
		RiskScore: 50,
		KeyRisks: []domain.Risk{{
			Category:       "General",
			Description:    "Automated analysis could not be completed for this document.",
			Severity:       domain.SeverityMedium,
			Recommendation: "Have the document reviewed manually by a legal professional.",
		}},
		Obligations: []domain.Obligation{},
		Rights:      []domain.Right{},
		KeyTerms:    []domain.KeyTerm{},
		Recommendations: []string{
			"Review the full document text before signing.",
			"Consult a qualified legal professional for binding advice.",
		},
		Degraded: true,
	}
}
