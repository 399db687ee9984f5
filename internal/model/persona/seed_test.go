package persona_test

import (
	"strings"
	"testing"

	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
)

func TestParseSeedBlocks(t *testing.T) {
	text := "[liya]\nYou are Liya, an apprentice of the arcane.\nKeep an air of mystery.\n\n[guide]\nYou are a helpful guide."

	items, err := persona.ParseSeed(text)
	if err != nil {
		t.Fatalf("ParseSeed err: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(items))
	}
	if items[0].ID != "liya" {
		t.Fatalf("unexpected first id: %s", items[0].ID)
	}
	want := "You are Liya, an apprentice of the arcane.\nKeep an air of mystery."
	if items[0].Description != want {
		t.Fatalf("line breaks not preserved: %q", items[0].Description)
	}
	if items[1].ID != "guide" || items[1].Description != "You are a helpful guide." {
		t.Fatalf("unexpected second persona: %+v", items[1])
	}
}

func TestParseSeedExtraBlankLines(t *testing.T) {
	text := "\n\n[one]\nfirst\n\n\n\n[two]\nsecond\n\n"

	items, err := persona.ParseSeed(text)
	if err != nil {
		t.Fatalf("ParseSeed err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(items))
	}
}

func TestParseSeedCRLF(t *testing.T) {
	text := "[one]\r\nline a\r\nline b\r\n"

	items, err := persona.ParseSeed(text)
	if err != nil {
		t.Fatalf("ParseSeed err: %v", err)
	}
	if items[0].Description != "line a\nline b" {
		t.Fatalf("unexpected description: %q", items[0].Description)
	}
}

func TestParseSeedRejectsUnbracketedHeader(t *testing.T) {
	if _, err := persona.ParseSeed("not-a-header\ndescription"); err == nil {
		t.Fatal("expected error for unbracketed block header")
	}
}

func TestParseSeedRejectsDuplicateID(t *testing.T) {
	if _, err := persona.ParseSeed("[a]\nx\n\n[a]\ny"); err == nil {
		t.Fatal("expected error for duplicate persona id")
	}
}

func TestParseSeedEmptyInput(t *testing.T) {
	items, err := persona.ParseSeed("")
	if err != nil {
		t.Fatalf("ParseSeed err: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no personas, got %d", len(items))
	}
}

func TestSeedContainsLiya(t *testing.T) {
	items := persona.Seed()
	if len(items) == 0 {
		t.Fatal("built-in seed is empty")
	}

	found := false
	for _, item := range items {
		if item.ID == "liya" {
			found = true
			if !strings.Contains(item.Description, "莉亞") {
				t.Fatalf("liya description lost its prompt text: %q", item.Description)
			}
		}
	}
	if !found {
		t.Fatal("built-in seed is missing the liya persona")
	}
}
