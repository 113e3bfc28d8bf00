package dedup

import (
	"math"
	"strings"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/phone"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// MatchType classifies how a candidate relates to an existing lead.
type MatchType string

const (
	MatchPhoneExact MatchType = "phone_exact"
	MatchEmailExact MatchType = "email_exact"
	MatchNameFuzzy  MatchType = "name_fuzzy"
	MatchNone       MatchType = "no_match"
)

const (
	ScorePhoneExact = 100
	ScoreEmailExact = 95
	// MinNameScore is the acceptance threshold for fuzzy name matches.
	MinNameScore = 70
)

// Candidate is the contact being checked against existing leads.
type Candidate struct {
	Nome     string
	Telefone string
	Email    string
}

// DuplicateMatch is the classification outcome. Type MatchNone with score 0
// means no existing lead qualifies.
type DuplicateMatch struct {
	LeadID uuid.UUID
	Type   MatchType
	Score  int
	Lead   domain.Lead
}

// Classify finds the best duplicate for the candidate among existing leads.
// Tiers are checked in confidence order: phone numbers are the strongest
// identity signal in a WhatsApp-first funnel, emails second, fuzzy names
// last. Within a tier, ties go to the most recently updated lead.
func Classify(candidate Candidate, existing []domain.Lead) DuplicateMatch {
	if key := phoneKey(candidate.Telefone); key != "" {
		if best, ok := newestWhere(existing, func(l domain.Lead) bool {
			return phoneKey(l.Telefone) == key
		}); ok {
			return DuplicateMatch{LeadID: best.ID, Type: MatchPhoneExact, Score: ScorePhoneExact, Lead: best}
		}
	}

	if emailKey := normalizeEmail(candidate.Email); emailKey != "" {
		if best, ok := newestWhere(existing, func(l domain.Lead) bool {
			return normalizeEmail(l.Email) == emailKey
		}); ok {
			return DuplicateMatch{LeadID: best.ID, Type: MatchEmailExact, Score: ScoreEmailExact, Lead: best}
		}
	}

	if name := normalizeName(candidate.Nome); name != "" {
		var best domain.Lead
		bestScore := 0
		found := false
		for _, lead := range existing {
			score := NameSimilarity(candidate.Nome, lead.Nome)
			if score < MinNameScore {
				continue
			}
			if !found || score > bestScore || (score == bestScore && lead.UpdatedAt.After(best.UpdatedAt)) {
				best = lead
				bestScore = score
				found = true
			}
		}
		if found {
			return DuplicateMatch{LeadID: best.ID, Type: MatchNameFuzzy, Score: bestScore, Lead: best}
		}
	}

	return DuplicateMatch{Type: MatchNone, Score: 0}
}

// NameSimilarity scores two names 0-100 using normalized edit distance.
// Either name being empty scores 0: empty never matches empty.
func NameSimilarity(a, b string) int {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	distance := levenshtein.ComputeDistance(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}

	score := int(math.Round(100 * (1 - float64(distance)/float64(longest))))
	if score < 0 {
		return 0
	}
	return score
}

// newestWhere returns the most recently updated lead satisfying the predicate.
func newestWhere(leads []domain.Lead, match func(domain.Lead) bool) (domain.Lead, bool) {
	var best domain.Lead
	found := false
	for _, lead := range leads {
		if !match(lead) {
			continue
		}
		if !found || lead.UpdatedAt.After(best.UpdatedAt) {
			best = lead
			found = true
		}
	}
	return best, found
}

// phoneKey canonicalizes a phone number for exact comparison. E.164
// normalization first so a number with and without the country prefix
// produce the same key; digits-only after so formatting never matters.
func phoneKey(telefone string) string {
	return phone.Digits(phone.NormalizeE164(telefone))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
