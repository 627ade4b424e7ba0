package validator

import (
	"testing"

	"github.com/valpere/lingoval/internal/lang"
)

func mustLang(t *testing.T, name string) lang.Language {
	t.Helper()
	l, err := lang.Parse(name)
	if err != nil {
		t.Fatalf("parse %q: %v", name, err)
	}
	return l
}

func TestIsValid_EmptyCandidate(t *testing.T) {
	v := New()

	valid, err := v.IsValid("", mustLang(t, "Spanish"))
	if err == nil {
		t.Error("expected error for empty candidate")
	}
	if valid {
		t.Error("expected valid=false for empty candidate")
	}
}

func TestIsValid_ShortTextPasses(t *testing.T) {
	v := New()

	valid, err := v.IsValid("Hola", mustLang(t, "Spanish"))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for short text (below threshold)")
	}
}

func TestIsValid_SpanishAsSpanish(t *testing.T) {
	v := New()

	text := "Estos son los mejores corredores de divisas disponibles en el mercado actual."
	valid, err := v.IsValid(text, mustLang(t, "Spanish"))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for Spanish text with Spanish target")
	}
}

func TestIsValid_EnglishAsGermanFails(t *testing.T) {
	v := New()

	text := "This is clearly an English sentence that was never translated at all."
	valid, err := v.IsValid(text, mustLang(t, "German"))
	if err == nil {
		t.Error("expected error for mismatched language")
	}
	if valid {
		t.Error("expected valid=false when English text claims to be German")
	}
}

func TestIsValid_FrenchAsFrench(t *testing.T) {
	v := New()

	text := "Voici les meilleurs courtiers en devises disponibles sur le marché aujourd'hui."
	valid, err := v.IsValid(text, mustLang(t, "French"))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for French text with French target")
	}
}
