package normalize

import "testing"

func TestToLatinDigits(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"२०८२", "2082"},
		{"१५ गते", "15 गते"},
		{"2082", "2082"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ToLatinDigits(c.in); got != c.want {
			t.Errorf("ToLatinDigits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if n, ok := ParseInt(" ३२ "); !ok || n != 32 {
		t.Errorf("ParseInt devanagari = %d, %v", n, ok)
	}
	if _, ok := ParseInt("गते"); ok {
		t.Error("ParseInt accepted non-numeric input")
	}
}

func TestParsePrice(t *testing.T) {
	if v, ok := ParsePrice("1,23,456.50"); !ok || v != 123456.50 {
		t.Errorf("ParsePrice = %v, %v", v, ok)
	}
	if _, ok := ParsePrice("--"); ok {
		t.Error("placeholder should be absent, not zero")
	}
	if _, ok := ParsePrice("  "); ok {
		t.Error("empty cell should be absent")
	}
	if v, ok := ParsePrice("०.५"); !ok || v != 0.5 {
		t.Errorf("ParsePrice devanagari = %v, %v", v, ok)
	}
}

func TestPerUnit(t *testing.T) {
	if got := PerUnit(190.50, "100"); got != 1.905 {
		t.Errorf("PerUnit bulk = %v", got)
	}
	if got := PerUnit(133.25, "1"); got != 133.25 {
		t.Errorf("PerUnit single = %v", got)
	}
	if got := PerUnit(133.25, "per kg"); got != 133.25 {
		t.Errorf("PerUnit non-numeric = %v", got)
	}
}

func TestFillTolaGram(t *testing.T) {
	tolaOnly := 120000.0
	tola, grams, ok := FillTolaGram(&tolaOnly, nil)
	if !ok || tola != 120000 || grams != Round2(120000/TolaGramRatio) {
		t.Errorf("tola-only fill = %v, %v, %v", tola, grams, ok)
	}

	gramsOnly := 10000.0
	tola, grams, ok = FillTolaGram(nil, &gramsOnly)
	if !ok || grams != 10000 || tola != Round2(10000*TolaGramRatio) {
		t.Errorf("grams-only fill = %v, %v, %v", tola, grams, ok)
	}

	both1, both2 := 11660.0, 10000.0
	tola, grams, ok = FillTolaGram(&both1, &both2)
	if !ok || tola != 11660 || grams != 10000 {
		t.Errorf("both present should pass through, got %v, %v", tola, grams)
	}

	if _, _, ok := FillTolaGram(nil, nil); ok {
		t.Error("record with no observed price must be rejected")
	}
}
