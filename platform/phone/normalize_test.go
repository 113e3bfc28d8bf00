package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted local mobile", "(11) 98888-7777", "+5511988887777"},
		{"bare digits with country code", "5511988887777", "+5511988887777"},
		{"already e164", "+5511988887777", "+5511988887777"},
		{"spaces and dashes", "11 98888 7777", "+5511988887777"},
		{"landline", "(11) 3333-4444", "+551133334444"},
		{"invalid falls back to trimmed input", "  123  ", "123"},
		{"empty", "", ""},
		{"garbage falls back to trimmed input", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+5511988887777", "5511988887777"},
		{"(11) 98888-7777", "11988887777"},
		{"", ""},
		{"sem numero", ""},
	}

	for _, tt := range tests {
		if got := Digits(tt.input); got != tt.want {
			t.Fatalf("Digits(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
