package vertex

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/infrastructure/resilience"
)

// TierObserver lets the caller count which parse tier produced each result.
type TierObserver func(tier ParseTier)

// Analyzer implements the analysis backend on top of the vertex client.
//
// Analyze never returns an error: unavailability degrades to a deterministic
// mock and malformed output is recovered by the tiered parser. Chat is the
// opposite: a wrong answer is worse than a visible failure, so backend errors
// propagate.
type Analyzer struct {
	client      *Client
	executor    *resilience.Executor
	observeTier TierObserver
}

func NewAnalyzer(client *Client, executor *resilience.Executor, observeTier TierObserver) *Analyzer {
	if observeTier == nil {
		observeTier = func(ParseTier) {}
	}
	return &Analyzer{client: client, executor: executor, observeTier: observeTier}
}

func (a *Analyzer) Analyze(ctx context.Context, documentText string, documentType domain.DocumentType) (domain.LegalAnalysis, error) {
	if !a.client.Configured() {
		slog.Warn("vertex_analyze_unconfigured_fallback")
		return mockAnalysis(documentText, documentType), nil
	}

	raw, err := a.generate(ctx, "vertex.analyze", buildAnalysisPrompt(documentText, documentType))
	if err != nil {
		slog.Warn("vertex_analyze_unavailable_fallback", "error", err)
		return mockAnalysis(documentText, documentType), nil
	}

	analysis, tier := parseAnalysis(raw)
	a.observeTier(tier)
	if tier != TierStrict {
		slog.Warn("vertex_analyze_recovered", "tier", string(tier))
	}
	return analysis, nil
}

func (a *Analyzer) Chat(ctx context.Context, query, documentText, chatContext string) (domain.ChatResponse, error) {
	raw, err := a.generate(ctx, "vertex.chat", buildChatPrompt(query, documentText, chatContext))
	if err != nil {
		return domain.ChatResponse{}, wrapUnavailable("chat query", err)
	}

	return domain.ChatResponse{
		Response:   raw,
		Confidence: chatConfidence(raw),
		Sources:    extractSources(raw),
	}, nil
}

func (a *Analyzer) generate(ctx context.Context, operation, prompt string) (string, error) {
	var raw string
	call := func(callCtx context.Context) error {
		var err error
		raw, err = a.client.GenerateText(callCtx, prompt)
		return err
	}

	if a.executor != nil {
		if err := a.executor.Execute(ctx, operation, call, classifyVertexError); err != nil {
			return "", err
		}
		return raw, nil
	}
	if err := call(ctx); err != nil {
		return "", err
	}
	return raw, nil
}

const chatBaseConfidence = 0.75

var hedgingPhrases = []string{
	"i don't know",
	"i do not know",
	"not specified",
	"cannot determine",
	"unable to find",
	"unclear",
	"not grounded in a specific document",
}

var reSourceRef = regexp.MustCompile(`(?i)\b(section|clause|paragraph|article)\s+(\d+(?:\.\d+)*[a-z]?)`)

// chatConfidence is an advisory heuristic, not a calibrated probability.
func chatConfidence(answer string) float64 {
	confidence := chatBaseConfidence
	lower := strings.ToLower(answer)

	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			confidence -= 0.2
			break
		}
	}
	if len(strings.TrimSpace(answer)) < 40 {
		confidence -= 0.15
	}
	if reSourceRef.MatchString(answer) || strings.Contains(answer, `"`) {
		confidence += 0.1
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// extractSources scrapes section/clause/paragraph references out of the
// answer text.
func extractSources(answer string) []string {
	matches := reSourceRef.FindAllStringSubmatch(answer, -1)
	seen := make(map[string]struct{}, len(matches))
	sources := make([]string, 0, len(matches))
	for _, match := range matches {
		kind := strings.ToLower(match[1])
		ref := strings.ToUpper(kind[:1]) + kind[1:] + " " + match[2]
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		sources = append(sources, ref)
	}
	return sources
}
