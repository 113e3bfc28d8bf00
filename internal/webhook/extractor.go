package webhook

import (
	"regexp"
	"strings"
)

// ExtractedFields holds the fields extracted from raw form data via best-effort pattern matching.
type ExtractedFields struct {
	Nome        string
	Telefone    string
	Email       string
	Empresa     string
	Necessidade string
	Origem      string
}

// IsIncomplete returns true if minimum required fields (name + at least one
// contact channel) are missing.
func (e ExtractedFields) IsIncomplete() bool {
	return e.Nome == "" || (e.Telefone == "" && e.Email == "")
}

var (
	nomePatterns     = []string{"nome", "name", "nome completo", "full name", "your-name"}
	telefonePatterns = []string{"telefone", "phone", "celular", "whatsapp", "tel", "fone", "your-phone"}
	emailPatterns    = []string{"email", "e-mail", "your-email"}
	empresaPatterns  = []string{"empresa", "company", "organizacao", "organização"}
	mensagemPatterns = []string{"mensagem", "message", "necessidade", "comentario", "comentário", "observacao", "observação", "your-message"}
	origemPatterns   = []string{"origem", "source", "utm_source", "campanha", "campaign"}

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ExtractFields performs best-effort field extraction from a flat string map
// of form data. It uses label matching to identify common fields across any
// Brazilian lead capture form.
func ExtractFields(data map[string]string) ExtractedFields {
	var result ExtractedFields

	for key, value := range data {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(key))

		switch {
		case matchesAny(k, nomePatterns):
			result.Nome = value
		case matchesAny(k, telefonePatterns):
			result.Telefone = value
		case matchesAny(k, emailPatterns):
			if emailRegex.MatchString(value) {
				result.Email = value
			}
		case matchesAny(k, empresaPatterns):
			result.Empresa = value
		case matchesAny(k, mensagemPatterns):
			result.Necessidade = value
		case matchesAny(k, origemPatterns):
			result.Origem = value
		}
	}

	return result
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if key == p || strings.Contains(key, p) {
			return true
		}
	}
	return false
}
