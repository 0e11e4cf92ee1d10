package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Severity of an identified risk.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Importance of a key term.
type Importance string

const (
	ImportanceLow    Importance = "LOW"
	ImportanceMedium Importance = "MEDIUM"
	ImportanceHigh   Importance = "HIGH"
)

// NormalizeSeverity clamps free-form model output to the nearest valid value.
func NormalizeSeverity(raw string) Severity {
	switch Severity(strings.ToUpper(strings.TrimSpace(raw))) {
	case SeverityLow:
		return SeverityLow
	case SeverityHigh:
		return SeverityHigh
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// NormalizeImportance clamps free-form model output to the nearest valid value.
func NormalizeImportance(raw string) Importance {
	switch Importance(strings.ToUpper(strings.TrimSpace(raw))) {
	case ImportanceLow:
		return ImportanceLow
	case ImportanceHigh:
		return ImportanceHigh
	default:
		return ImportanceMedium
	}
}

// Risk is one identified contractual risk.
//
// Models sometimes emit a risk as a bare string instead of a structured object.
// UnmarshalJSON accepts both shapes; a bare string lands in Description with
// PlainText set so renderers can tell the cases apart instead of duck-typing.
type Risk struct {
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
	PlainText      bool     `json:"-"`
}

func (r *Risk) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*r = Risk{Category: "General", Description: text, Severity: SeverityMedium, PlainText: true}
		return nil
	}

	type alias Risk
	var decoded alias
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	decoded.Severity = NormalizeSeverity(string(decoded.Severity))
	if decoded.Category == "" {
		decoded.Category = "General"
	}
	*r = Risk(decoded)
	return nil
}

// Obligation is a duty one party owes under the document.
type Obligation struct {
	Party       string `json:"party"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
	PlainText   bool   `json:"-"`
}

func (o *Obligation) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*o = Obligation{Description: text, PlainText: true}
		return nil
	}

	type alias Obligation
	var decoded alias
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*o = Obligation(decoded)
	return nil
}

// Right is an entitlement a party holds under the document.
type Right struct {
	Party       string `json:"party"`
	Description string `json:"description"`
}

// KeyTerm is a defined term worth surfacing to the reader.
type KeyTerm struct {
	Term       string     `json:"term"`
	Definition string     `json:"definition"`
	Importance Importance `json:"importance"`
}

// LegalAnalysis is the structured result produced by the analysis backend.
type LegalAnalysis struct {
	Summary         string       `json:"summary"`
	RiskScore       int          `json:"risk_score"`
	KeyRisks        []Risk       `json:"key_risks"`
	Obligations     []Obligation `json:"obligations"`
	Rights          []Right      `json:"rights"`
	KeyTerms        []KeyTerm    `json:"key_terms"`
	Recommendations []string     `json:"recommendations"`

	// Degraded marks analyses produced by a fallback path (mock or generic
	// default) rather than a parsed model response.
	Degraded bool `json:"degraded,omitempty"`
}

// ClampRiskScore forces a raw score into the [0, 100] contract.
func ClampRiskScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
