package domain

import "time"

// DocumentType is the closed taxonomy used for classification and prompting.
type DocumentType string

const (
	TypeLeaseAgreement       DocumentType = "LEASE_AGREEMENT"
	TypeEmploymentContract   DocumentType = "EMPLOYMENT_CONTRACT"
	TypePrivacyPolicy        DocumentType = "PRIVACY_POLICY"
	TypeTermsOfService       DocumentType = "TERMS_OF_SERVICE"
	TypeNDA                  DocumentType = "NDA"
	TypePurchaseAgreement    DocumentType = "PURCHASE_AGREEMENT"
	TypeLicenseAgreement     DocumentType = "LICENSE_AGREEMENT"
	TypePartnershipAgreement DocumentType = "PARTNERSHIP_AGREEMENT"
	TypeServiceAgreement     DocumentType = "SERVICE_AGREEMENT"
	TypeLoanAgreement        DocumentType = "LOAN_AGREEMENT"
	TypeFranchiseAgreement   DocumentType = "FRANCHISE_AGREEMENT"
	TypeSettlementAgreement  DocumentType = "SETTLEMENT_AGREEMENT"
	TypeShareholderAgreement DocumentType = "SHAREHOLDER_AGREEMENT"
	TypeMOU                  DocumentType = "MOU"
	TypeGeneralLegal         DocumentType = "GENERAL_LEGAL"
	TypeNonLegal             DocumentType = "NON_LEGAL"
)

// Entity is a named entity detected during text extraction.
type Entity struct {
	Type        string  `json:"type"`
	MentionText string  `json:"mention_text"`
	Confidence  float64 `json:"confidence"`
}

// ExtractionResult is what the text extractor returns for one upload.
// Confidence is advisory: the local fallback path reports a fixed value
// that does not reflect measured accuracy.
type ExtractionResult struct {
	Text            string       `json:"text"`
	Confidence      float64      `json:"confidence"`
	IsLegalDocument bool         `json:"is_legal_document"`
	DocumentType    DocumentType `json:"document_type"`
	Entities        []Entity     `json:"entities"`
}

// ProcessedDocument is the durable record of one analyzed upload.
// Created once per unique content hash, read many times, never mutated.
type ProcessedDocument struct {
	ID               string           `json:"id"`
	OriginalFilename string           `json:"original_filename"`
	MimeType         string           `json:"mime_type"`
	FileHash         string           `json:"file_hash"`
	FileSize         int64            `json:"file_size"`
	ArchivePath      string           `json:"archive_path,omitempty"`
	Extraction       ExtractionResult `json:"document_processing"`
	Analysis         LegalAnalysis    `json:"legal_analysis"`
	UploadTime       time.Time        `json:"upload_time"`

	// FileBuffer is retained only when no archive is configured. FileHash is
	// precomputed, so dropping the buffer never breaks hash-based lookup.
	FileBuffer []byte `json:"-"`
}

// ValidationResult is the transient gate checked before any expensive work.
type ValidationResult struct {
	IsValid      bool         `json:"is_valid"`
	IsLegal      bool         `json:"is_legal"`
	DocumentType DocumentType `json:"document_type"`
	Confidence   float64      `json:"confidence"`
	Message      string       `json:"message"`
}

// ChatResponse is one grounded answer about a stored document.
type ChatResponse struct {
	Response   string   `json:"response"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// DocumentSummary is the read projection served to preview/summary views.
type DocumentSummary struct {
	ID               string       `json:"id"`
	OriginalFilename string       `json:"original_filename"`
	DocumentType     DocumentType `json:"document_type"`
	Summary          string       `json:"summary"`
	RiskScore        int          `json:"risk_score"`
	UploadTime       time.Time    `json:"upload_time"`
}

// ProcessedEvent is published after a document is stored.
type ProcessedEvent struct {
	DocumentID   string       `json:"document_id"`
	FileHash     string       `json:"file_hash"`
	DocumentType DocumentType `json:"document_type"`
	RiskScore    int          `json:"risk_score"`
	Deduplicated bool         `json:"deduplicated"`
	ProcessedAt  time.Time    `json:"processed_at"`
}
