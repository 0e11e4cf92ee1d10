package vertex

import (
	"fmt"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// mockAnalysis is the deterministic substitute used when the backend itself
// cannot be reached. Longer documents are assumed more complex and score
// higher. The output is clearly labeled so the UI can flag it as best-effort.
func mockAnalysis(documentText string, documentType domain.DocumentType) domain.LegalAnalysis {
	words := len(strings.Fields(documentText))

	// 30 base + 1 point per 100 words, capped at 70.
	score := 30 + words/100
	if score > 70 {
		score = 70
	}

	label := documentTypeLabel(documentType)
	risks := []domain.Risk{{
		Category:       "General",
		Description:    fmt.Sprintf("This %s was not analyzed by the AI service; the risk estimate is based on document length only.", label),
		Severity:       domain.SeverityMedium,
		Recommendation: "Re-run the analysis when the service is available, or review manually.",
	}}
	if words > 2000 {
		risks = append(risks, domain.Risk{
			Category:       "Complexity",
			Description:    "The document is long enough that important terms are easy to miss in a manual read.",
			Severity:       domain.SeverityHigh,
			Recommendation: "Prioritize professional review for documents of this size.",
		})
	}

	return domain.LegalAnalysis{
		Summary:     fmt.Sprintf("Best-effort placeholder analysis of a %s (%d words). The analysis service was unavailable; no content-level findings are included.", label, words),
		RiskScore:   domain.ClampRiskScore(score),
		KeyRisks:    risks,
		Obligations: []domain.Obligation{},
		Rights:      []domain.Right{},
		KeyTerms:    []domain.KeyTerm{},
		Recommendations: []string{
			"Retry the analysis once the service is reachable.",
			"Consult a qualified legal professional for binding advice.",
		},
		Degraded: true,
	}
}
