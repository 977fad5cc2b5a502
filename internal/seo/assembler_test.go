package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"pillarpress/internal/models"
)

func testAssembler() *Assembler {
	return New("https://blog.example.com/", "Example Marketplace", "https://blog.example.com/logo.png")
}

func TestCanonicalURL(t *testing.T) {
	a := testAssembler()
	got := a.CanonicalURL("business-valuation", "guide-to-multiples")
	want := "https://blog.example.com/blog/business-valuation/guide-to-multiples"
	if got != want {
		t.Errorf("CanonicalURL: got %q, want %q", got, want)
	}
}

func TestSchemaMarkup(t *testing.T) {
	a := testAssembler()
	raw, err := a.SchemaMarkup(SchemaInput{
		Title:        "When to Sell Your Business",
		Description:  "Timing indicators for a business sale.",
		AuthorName:   "Jordan Avery",
		PublishDate:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CategorySlug: "selling-a-business",
		Slug:         "when-to-sell-your-business",
	})
	if err != nil {
		t.Fatalf("SchemaMarkup: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["@type"] != "BlogPosting" {
		t.Errorf("@type: got %v", doc["@type"])
	}
	if doc["headline"] != "When to Sell Your Business" {
		t.Errorf("headline: got %v", doc["headline"])
	}

	author, ok := doc["author"].(map[string]any)
	if !ok || author["name"] != "Jordan Avery" {
		t.Errorf("author: got %v", doc["author"])
	}

	page, ok := doc["mainEntityOfPage"].(map[string]any)
	if !ok {
		t.Fatalf("mainEntityOfPage: got %v", doc["mainEntityOfPage"])
	}
	wantID := "https://blog.example.com/blog/selling-a-business/when-to-sell-your-business"
	if page["@id"] != wantID {
		t.Errorf("mainEntityOfPage @id: got %v, want %q", page["@id"], wantID)
	}

	publisher, ok := doc["publisher"].(map[string]any)
	if !ok || publisher["name"] != "Example Marketplace" {
		t.Errorf("publisher: got %v", doc["publisher"])
	}
}

func TestSchemaMarkup_DefaultsAuthor(t *testing.T) {
	a := testAssembler()
	raw, err := a.SchemaMarkup(SchemaInput{
		Title:        "Untitled",
		CategorySlug: "market-trends",
		Slug:         "untitled",
	})
	if err != nil {
		t.Fatalf("SchemaMarkup: %v", err)
	}
	if !strings.Contains(raw, models.DefaultAuthorName) {
		t.Errorf("expected default author name in markup: %s", raw)
	}
}

// TestSchemaMarkup_NoCategory verifies that a post without a category gets
// markup with no page reference instead of a URL with an empty segment.
func TestSchemaMarkup_NoCategory(t *testing.T) {
	a := testAssembler()
	raw, err := a.SchemaMarkup(SchemaInput{
		Title:       "Uncategorized Draft",
		Description: "Not yet filed anywhere.",
		Slug:        "uncategorized-draft",
	})
	if err != nil {
		t.Fatalf("SchemaMarkup: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, present := doc["mainEntityOfPage"]; present {
		t.Errorf("mainEntityOfPage should be absent without a category, got %v", doc["mainEntityOfPage"])
	}
	if strings.Contains(raw, "/blog//") {
		t.Errorf("markup embeds a malformed URL: %s", raw)
	}
}

// TestSchemaMarkup_Idempotent verifies that synthesizing markup twice from
// the same input populates the same fields.
func TestSchemaMarkup_Idempotent(t *testing.T) {
	a := testAssembler()
	in := SchemaInput{
		Title:        "Guide",
		Description:  "A guide.",
		AuthorName:   "Sam",
		PublishDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		CategorySlug: "financing",
		Slug:         "guide",
	}

	first, err := a.SchemaMarkup(in)
	if err != nil {
		t.Fatalf("SchemaMarkup: %v", err)
	}
	second, err := a.SchemaMarkup(in)
	if err != nil {
		t.Fatalf("SchemaMarkup: %v", err)
	}

	var d1, d2 map[string]any
	if err := json.Unmarshal([]byte(first), &d1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(second), &d2); err != nil {
		t.Fatal(err)
	}

	// dateModified is stamped at synthesis time; every other field must match.
	delete(d1, "dateModified")
	delete(d2, "dateModified")
	if len(d1) != len(d2) {
		t.Fatalf("field sets differ: %v vs %v", d1, d2)
	}
	for k := range d1 {
		j1, _ := json.Marshal(d1[k])
		j2, _ := json.Marshal(d2[k])
		if string(j1) != string(j2) {
			t.Errorf("field %q differs: %s vs %s", k, j1, j2)
		}
	}
}

func TestValidate(t *testing.T) {
	a := testAssembler()

	str := func(s string) *string { return &s }

	good := &models.Post{
		SEOTitle:        str("Business Valuation Multiples: The Complete Guide"),
		MetaDescription: str(strings.Repeat("Valuation multiples explained for owners planning a sale. ", 3)[:130]),
		SEOKeywords:     str("business valuation, multiples"),
		CanonicalURL:    str("https://blog.example.com/blog/business-valuation/multiples-guide"),
	}
	if issues := a.Validate(good); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}

	empty := &models.Post{}
	issues := a.Validate(empty)
	if len(issues) != 4 {
		t.Errorf("expected 4 issues for empty post, got %d: %v", len(issues), issues)
	}

	shortTitle := &models.Post{
		SEOTitle:        str("Too short"),
		MetaDescription: good.MetaDescription,
		SEOKeywords:     good.SEOKeywords,
		CanonicalURL:    good.CanonicalURL,
	}
	issues = a.Validate(shortTitle)
	if len(issues) != 1 || !strings.Contains(issues[0], "SEO title length") {
		t.Errorf("expected title-length issue, got %v", issues)
	}

	badCanonical := &models.Post{
		SEOTitle:        good.SEOTitle,
		MetaDescription: good.MetaDescription,
		SEOKeywords:     good.SEOKeywords,
		CanonicalURL:    str("https://blog.example.com/multiples-guide"),
	}
	issues = a.Validate(badCanonical)
	if len(issues) != 1 || !strings.Contains(issues[0], "Canonical URL") {
		t.Errorf("expected canonical-url issue, got %v", issues)
	}
}
