package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/core/ports"
	"github.com/legallens/legal-lens/internal/infrastructure/extractor/legaltext"
	"github.com/legallens/legal-lens/internal/infrastructure/resilience"
)

// Confidence assumed for remote results that carry no token confidences.
const defaultRemoteConfidence = 0.85

// Extractor calls the remote document processor and demotes any failure to
// the local fallback extractor, so the orchestrator always receives a result.
type Extractor struct {
	baseURL     string
	processorID string
	accessToken string
	httpClient  *http.Client
	executor    *resilience.Executor
	fallback    ports.TextExtractor
}

func New(baseURL, processorID, accessToken string, timeout time.Duration, executor *resilience.Executor, fallback ports.TextExtractor) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Extractor{
		baseURL:     strings.TrimRight(baseURL, "/"),
		processorID: processorID,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    executor,
		fallback:    fallback,
	}
}

// Configured reports whether a remote processor endpoint is set at all.
func (e *Extractor) Configured() bool {
	return e.baseURL != "" && e.processorID != ""
}

func (e *Extractor) Extract(ctx context.Context, fileBytes []byte, mimeType string) (domain.ExtractionResult, error) {
	if !e.Configured() {
		return e.fallback.Extract(ctx, fileBytes, mimeType)
	}

	result, err := e.extractRemote(ctx, fileBytes, mimeType)
	if err != nil {
		slog.Warn("docai_extract_degraded", "error", err, "mime_type", mimeType)
		return e.fallback.Extract(ctx, fileBytes, mimeType)
	}
	return result, nil
}

type processRequest struct {
	ProcessorID string `json:"processor_id"`
	MimeType    string `json:"mime_type"`
	Content     string `json:"content"`
}

type processResponse struct {
	Text             string    `json:"text"`
	TokenConfidences []float64 `json:"token_confidences"`
	Entities         []struct {
		Type        string  `json:"type"`
		MentionText string  `json:"mention_text"`
		Confidence  float64 `json:"confidence"`
	} `json:"entities"`
}

func (e *Extractor) extractRemote(ctx context.Context, fileBytes []byte, mimeType string) (domain.ExtractionResult, error) {
	request := processRequest{
		ProcessorID: e.processorID,
		MimeType:    mimeType,
		Content:     base64.StdEncoding.EncodeToString(fileBytes),
	}

	var response processResponse
	call := func(callCtx context.Context) error {
		return e.postJSON(callCtx, "/v1/process", request, &response)
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "docai.process", call, classifyDocAIError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	entities := make([]domain.Entity, 0, len(response.Entities))
	for _, entity := range response.Entities {
		entities = append(entities, domain.Entity{
			Type:        entity.Type,
			MentionText: entity.MentionText,
			Confidence:  entity.Confidence,
		})
	}

	cls := legaltext.Classify(response.Text, entities)
	return domain.ExtractionResult{
		Text:            response.Text,
		Confidence:      averageConfidence(response.TokenConfidences),
		IsLegalDocument: cls.IsLegal,
		DocumentType:    cls.DocumentType,
		Entities:        entities,
	}, nil
}

func (e *Extractor) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal process request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.accessToken)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("docai process request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "process",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode process response: %w", err)
	}
	return nil
}

func averageConfidence(tokenConfidences []float64) float64 {
	if len(tokenConfidences) == 0 {
		return defaultRemoteConfidence
	}
	sum := 0.0
	for _, c := range tokenConfidences {
		sum += c
	}
	return sum / float64(len(tokenConfidences))
}
