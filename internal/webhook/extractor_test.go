package webhook

import "testing"

func TestExtractFieldsMapsCommonLabels(t *testing.T) {
	fields := ExtractFields(map[string]string{
		"Nome":       "Maria Souza",
		"WhatsApp":   "(11) 98888-7777",
		"E-mail":     "maria@empresa.com.br",
		"Empresa":    "Empresa XYZ",
		"Mensagem":   "Preciso de uma proposta para 50 licenças",
		"utm_source": "google-ads",
	})

	if fields.Nome != "Maria Souza" {
		t.Fatalf("Nome = %q", fields.Nome)
	}
	if fields.Telefone != "(11) 98888-7777" {
		t.Fatalf("Telefone = %q", fields.Telefone)
	}
	if fields.Email != "maria@empresa.com.br" {
		t.Fatalf("Email = %q", fields.Email)
	}
	if fields.Empresa != "Empresa XYZ" {
		t.Fatalf("Empresa = %q", fields.Empresa)
	}
	if fields.Necessidade == "" {
		t.Fatal("Necessidade not extracted from mensagem")
	}
	if fields.Origem != "google-ads" {
		t.Fatalf("Origem = %q", fields.Origem)
	}
}

func TestExtractFieldsContactForm7Names(t *testing.T) {
	fields := ExtractFields(map[string]string{
		"your-name":    "João Pereira",
		"your-phone":   "11977776666",
		"your-email":   "joao@example.com",
		"your-message": "Quero saber mais",
	})

	if fields.Nome != "João Pereira" || fields.Telefone != "11977776666" {
		t.Fatalf("extracted = %+v", fields)
	}
	if fields.Email != "joao@example.com" || fields.Necessidade != "Quero saber mais" {
		t.Fatalf("extracted = %+v", fields)
	}
}

func TestExtractFieldsRejectsMalformedEmail(t *testing.T) {
	fields := ExtractFields(map[string]string{
		"nome":  "Ana",
		"email": "not-an-email",
	})
	if fields.Email != "" {
		t.Fatalf("Email = %q, want rejected", fields.Email)
	}
}

func TestExtractFieldsIgnoresBlankValues(t *testing.T) {
	fields := ExtractFields(map[string]string{
		"nome":     "   ",
		"telefone": "",
	})
	if fields.Nome != "" || fields.Telefone != "" {
		t.Fatalf("extracted = %+v", fields)
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		fields ExtractedFields
		want   bool
	}{
		{"name and phone", ExtractedFields{Nome: "Ana", Telefone: "11977776666"}, false},
		{"name and email", ExtractedFields{Nome: "Ana", Email: "ana@example.com"}, false},
		{"name only", ExtractedFields{Nome: "Ana"}, true},
		{"contact only", ExtractedFields{Telefone: "11977776666"}, true},
		{"empty", ExtractedFields{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fields.IsIncomplete(); got != tt.want {
				t.Fatalf("IsIncomplete() = %v, want %v", got, tt.want)
			}
		})
	}
}
