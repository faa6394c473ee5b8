package domain

import "testing"

func testItem() Item {
	return Item{
		Key:            "0_4T8MCITQ",
		ID:             2858,
		Type:           "article-journal",
		Title:          "Article",
		ContainerTitle: "Journal of Generic Studies",
		Volume:         "6",
		Page:           "33-34",
		Authors:        []Name{{Family: "Doe", Given: "John"}},
		Issued:         Date{Year: "2006"},
	}
}

func TestEasykey_Canonical(t *testing.T) {
	got := Easykey(testItem())
	if got != "DoeArticle2006" {
		t.Errorf("Easykey = %q, want %q", got, "DoeArticle2006")
	}
}

func TestEasykey_ColonForm(t *testing.T) {
	got := EasykeyColon(testItem())
	if got != "doe:2006article" {
		t.Errorf("EasykeyColon = %q, want %q", got, "doe:2006article")
	}
}

func TestEasykey_NoAuthor(t *testing.T) {
	item := testItem()
	item.Authors = nil
	if got := Easykey(item); got != "" {
		t.Errorf("Easykey without author = %q, want empty", got)
	}
	if got := EasykeyColon(item); got != "" {
		t.Errorf("EasykeyColon without author = %q, want empty", got)
	}
}

func TestEasykey_NoYear(t *testing.T) {
	item := testItem()
	item.Issued = Date{}
	if got := Easykey(item); got != "" {
		t.Errorf("Easykey without year = %q, want empty", got)
	}
}

func TestNormalizeEasykey_CaseFolding(t *testing.T) {
	if got := NormalizeEasykey("DoeBook2005"); got != "doebook2005" {
		t.Errorf("NormalizeEasykey = %q, want %q", got, "doebook2005")
	}
}

func TestNormalizeEasykey_Diacritics(t *testing.T) {
	// Composed u-umlaut and decomposed u + combining diaeresis must fold to
	// the same bytes, and both must match the plain-ASCII spelling.
	composed := "HüningBook2012"
	decomposed := "HüningBook2012"
	plain := "HuningBook2012"

	want := NormalizeEasykey(plain)
	if got := NormalizeEasykey(composed); got != want {
		t.Errorf("composed normalized to %q, plain to %q", got, want)
	}
	if got := NormalizeEasykey(decomposed); got != want {
		t.Errorf("decomposed normalized to %q, plain to %q", got, want)
	}
}

func TestSplitEasykeySuffix(t *testing.T) {
	tests := []struct {
		in      string
		base    string
		ordinal int
	}{
		{"doebook2005a", "doebook2005", 0},
		{"doebook2005b", "doebook2005", 1},
		{"doebook2005", "doebook2005", -1}, // trailing digit is never a suffix
		{"doe:2005", "doe:2005", -1},
		{"", "", -1},
	}
	for _, tt := range tests {
		base, ordinal := SplitEasykeySuffix(tt.in)
		if base != tt.base || ordinal != tt.ordinal {
			t.Errorf("SplitEasykeySuffix(%q) = (%q, %d), want (%q, %d)", tt.in, base, ordinal, tt.base, tt.ordinal)
		}
	}
}

func TestTypeWord(t *testing.T) {
	tests := []struct {
		cslType string
		want    string
	}{
		{"article-journal", "article"},
		{"book", "book"},
		{"chapter", "chapter"},
		{"paper-conference", "paper"},
		{"motion-picture", "motion"},
		{"interview", "interview"},
	}
	for _, tt := range tests {
		if got := TypeWord(tt.cslType); got != tt.want {
			t.Errorf("TypeWord(%q) = %q, want %q", tt.cslType, got, tt.want)
		}
	}
}

func TestDateParts(t *testing.T) {
	d := Date{Year: "2006", Month: "7", Day: "15"}
	parts := d.Parts()
	if len(parts) != 3 || parts[0] != "2006" || parts[1] != "7" || parts[2] != "15" {
		t.Errorf("Parts = %v", parts)
	}

	yearOnly := Date{Year: "2006"}
	if parts := yearOnly.Parts(); len(parts) != 1 || parts[0] != "2006" {
		t.Errorf("year-only Parts = %v", parts)
	}

	// A day without a month must not produce a hole in the row.
	odd := Date{Year: "2006", Day: "15"}
	if parts := odd.Parts(); len(parts) != 1 {
		t.Errorf("day-without-month Parts = %v", parts)
	}
}
