package vertex

import (
	"fmt"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// Document text is truncated before prompting to stay inside context limits.
const maxDocumentSnippet = 30000

func buildAnalysisPrompt(documentText string, documentType domain.DocumentType) string {
	snippet := truncate(documentText, maxDocumentSnippet)

	return fmt.Sprintf(`You are a legal document analyst. Analyze the following %s.
Return ONLY a JSON object with exactly these keys, no markdown, no commentary:
{
  "summary": "plain-language summary of the document",
  "riskScore": 0-100 integer overall risk,
  "keyRisks": [{"category": "...", "description": "...", "severity": "LOW|MEDIUM|HIGH|CRITICAL", "recommendation": "..."}],
  "obligations": [{"party": "...", "description": "...", "deadline": "... or omit"}],
  "rights": [{"party": "...", "description": "..."}],
  "keyTerms": [{"term": "...", "definition": "...", "importance": "LOW|MEDIUM|HIGH"}],
  "recommendations": ["..."]
}

Document:
%s`, documentTypeLabel(documentType), snippet)
}

func buildChatPrompt(query, documentText, chatContext string) string {
	var builder strings.Builder
	builder.WriteString("You are a legal assistant answering in plain language a non-lawyer understands.\n")

	if strings.TrimSpace(documentText) != "" {
		builder.WriteString("Answer the question using the document below. ")
		builder.WriteString("Cite the section, clause or paragraph you rely on when possible. ")
		builder.WriteString("If the document does not cover the question, say so directly.\n\n")
		if chatContext != "" {
			builder.WriteString("Conversation context:\n")
			builder.WriteString(chatContext)
			builder.WriteString("\n\n")
		}
		builder.WriteString("Document:\n")
		builder.WriteString(truncate(documentText, maxDocumentSnippet))
		builder.WriteString("\n\n")
	} else {
		// General-knowledge mode when no document text is available.
		builder.WriteString("No document is available; answer from general legal knowledge ")
		builder.WriteString("and say that the answer is not grounded in a specific document.\n\n")
	}

	builder.WriteString("Question:\n")
	builder.WriteString(query)
	return builder.String()
}

func documentTypeLabel(documentType domain.DocumentType) string {
	if documentType == "" || documentType == domain.TypeNonLegal {
		return "legal document"
	}
	label := strings.ToLower(string(documentType))
	return strings.ReplaceAll(label, "_", " ")
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
