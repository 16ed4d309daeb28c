package domain

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Pilates studios", "pilates-studios"},
		{"extra whitespace", " Pilates   Studios ", "pilates-studios"},
		{"already slugged", "pilates-studios", "pilates-studios"},
		{"diacritics", "Nutrição Esportiva", "nutricao-esportiva"},
		{"punctuation runs", "Yoga & Meditation!!", "yoga-meditation"},
		{"digits kept", "Web3 Agencies", "web3-agencies"},
		{"all symbols", "***", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	first := Slugify("Clínicas de Estética em São Paulo")
	for i := 0; i < 10; i++ {
		if got := Slugify("Clínicas de Estética em São Paulo"); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestSlugify_NormalizedFormIsFixedPoint(t *testing.T) {
	slug := Slugify(" Pilates   Studios ")
	if again := Slugify(slug); again != slug {
		t.Errorf("Slugify(%q) = %q, want fixed point", slug, again)
	}
}
