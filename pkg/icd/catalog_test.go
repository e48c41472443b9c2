package icd

import "testing"

func TestSuggestMatchesKeywords(t *testing.T) {
	cat := DefaultCatalog()

	suggestions := cat.Suggest("Patient presents with hypertension and a three-day fever.", 5)
	if len(suggestions) < 2 {
		t.Fatalf("expected at least two suggestions, got %d", len(suggestions))
	}

	codes := make(map[string]bool)
	for _, s := range suggestions {
		codes[s.Code] = true
		if s.Score < 40 || s.Score > 95 {
			t.Fatalf("score %d for %s outside expected band", s.Score, s.Code)
		}
	}
	if !codes["I10"] {
		t.Fatalf("expected hypertension code I10, got %v", suggestions)
	}
	if !codes["R50.9"] {
		t.Fatalf("expected fever code R50.9, got %v", suggestions)
	}
}

func TestSuggestEmptyForUnrelatedText(t *testing.T) {
	cat := DefaultCatalog()
	if got := cat.Suggest("routine administrative note, nothing clinical", 5); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestSuggestHonorsTopN(t *testing.T) {
	cat := DefaultCatalog()
	text := "hypertension diabetes pneumonia sepsis stroke anemia seizure fever"
	if got := cat.Suggest(text, 3); len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
}

func TestLookup(t *testing.T) {
	cat := DefaultCatalog()
	entry, ok := cat.Lookup("i10")
	if !ok {
		t.Fatal("expected lookup to be case-insensitive")
	}
	if entry.Description == "" {
		t.Fatal("expected a description")
	}
	if _, ok := cat.Lookup("Z99.999"); ok {
		t.Fatal("expected miss for unknown code")
	}
}

func TestIsValidCode(t *testing.T) {
	valid := []string{"I10", "E11.9", "J45.909", "C71.9"}
	for _, c := range valid {
		if !IsValidCode(c) {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	invalid := []string{"", "N/A", "U071X9999", "123", "hypertension"}
	for _, c := range invalid {
		if IsValidCode(c) {
			t.Fatalf("expected %s to be invalid", c)
		}
	}
}
