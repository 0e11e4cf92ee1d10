package legaltext

import (
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// legalVocabulary is the curated keyword list used for the density score.
var legalVocabulary = []string{
	"agreement", "contract", "party", "parties", "hereby", "whereas",
	"covenant", "indemnify", "indemnification", "liability", "warranty",
	"terminate", "termination", "breach", "clause", "provision", "herein",
	"thereof", "pursuant", "obligation", "jurisdiction", "arbitration",
	"confidential", "governing law", "force majeure", "severability",
	"consideration", "damages", "remedy", "waiver", "amendment", "notice",
	"executed", "binding", "enforceable", "representations",
}

// category keyword tables. Declaration order is the tie-break priority.
type category struct {
	docType  domain.DocumentType
	keywords []string
}

var categories = []category{
	{domain.TypeLeaseAgreement, []string{"lease", "tenant", "landlord", "rent", "premises", "sublease", "security deposit"}},
	{domain.TypeEmploymentContract, []string{"employment", "employee", "employer", "salary", "compensation", "probation", "dismissal"}},
	{domain.TypePrivacyPolicy, []string{"privacy", "personal data", "data subject", "processing", "cookies", "gdpr"}},
	{domain.TypeTermsOfService, []string{"terms of service", "terms of use", "user account", "acceptable use", "service availability"}},
	{domain.TypeNDA, []string{"non-disclosure", "nondisclosure", "confidential information", "disclosing party", "receiving party", "trade secret"}},
	{domain.TypePurchaseAgreement, []string{"purchase", "buyer", "seller", "purchase price", "closing date", "title transfer"}},
	{domain.TypeLicenseAgreement, []string{"license", "licensor", "licensee", "royalty", "intellectual property", "sublicense"}},
	{domain.TypePartnershipAgreement, []string{"partnership", "partner", "capital contribution", "profit sharing", "dissolution"}},
	{domain.TypeServiceAgreement, []string{"services", "service provider", "statement of work", "deliverables", "service level"}},
	{domain.TypeLoanAgreement, []string{"loan", "lender", "borrower", "principal", "interest rate", "repayment", "default"}},
	{domain.TypeFranchiseAgreement, []string{"franchise", "franchisor", "franchisee", "franchise fee", "territory"}},
	{domain.TypeSettlementAgreement, []string{"settlement", "release of claims", "settling", "without admission", "dispute resolution"}},
	{domain.TypeShareholderAgreement, []string{"shareholder", "shares", "voting rights", "dividend", "board of directors", "equity"}},
	{domain.TypeMOU, []string{"memorandum of understanding", "mou", "letter of intent", "mutual understanding"}},
}

// qualifyingEntityTypes are entity kinds whose presence alone can tip the
// legal decision.
var qualifyingEntityTypes = map[string]struct{}{
	"PERSON":       {},
	"ORGANIZATION": {},
	"DATE":         {},
	"MONEY":        {},
}

const (
	densityThreshold  = 2.0 // legal keyword hits per 100 words
	rawCountThreshold = 5
)

// Classification is the deterministic verdict over extracted text.
type Classification struct {
	IsLegal      bool
	DocumentType domain.DocumentType
	KeywordHits  int
	Density      float64
}

// Classify runs the keyword-density heuristic over extracted text.
// The verdict is deterministic and advisory: it gates the pipeline but makes
// no claim of measured accuracy.
func Classify(text string, entities []domain.Entity) Classification {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))

	hits := 0
	for _, keyword := range legalVocabulary {
		hits += strings.Count(lower, keyword)
	}

	density := 0.0
	if words > 0 {
		density = float64(hits) / float64(words) * 100
	}

	isLegal := density >= densityThreshold || hits >= rawCountThreshold || hasQualifyingEntity(entities)

	docType := domain.TypeNonLegal
	if isLegal {
		docType = classifyType(lower)
	}

	return Classification{
		IsLegal:      isLegal,
		DocumentType: docType,
		KeywordHits:  hits,
		Density:      density,
	}
}

// classifyType picks the category with the most keyword hits; ties go to the
// first-declared category. Zero hits everywhere means GENERAL_LEGAL.
func classifyType(lower string) domain.DocumentType {
	best := domain.TypeGeneralLegal
	bestHits := 0
	for _, cat := range categories {
		catHits := 0
		for _, keyword := range cat.keywords {
			catHits += strings.Count(lower, keyword)
		}
		if catHits > bestHits {
			best = cat.docType
			bestHits = catHits
		}
	}
	return best
}

func hasQualifyingEntity(entities []domain.Entity) bool {
	for _, entity := range entities {
		if _, ok := qualifyingEntityTypes[strings.ToUpper(entity.Type)]; ok {
			return true
		}
	}
	return false
}
