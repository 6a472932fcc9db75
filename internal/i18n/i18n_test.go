package i18n

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Language
	}{
		{"en", English},
		{"ru", Russian},
		{"uz", Uzbek},
		{"", English},
		{"de", English},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTipFallsBackToEnglish(t *testing.T) {
	for _, lang := range All {
		for _, topic := range []Topic{TopicSavings, TopicStability, TopicStress} {
			if Tip(lang, topic) == "" {
				t.Fatalf("Tip(%q, %q) is empty", lang, topic)
			}
		}
	}
	if Tip(Language("de"), TopicSavings) != Tip(English, TopicSavings) {
		t.Fatal("unknown language did not fall back to English tip")
	}
}

func TestKeywordsIncludeEnglishFallback(t *testing.T) {
	kws := Keywords(Russian, TopicStress)
	found := false
	for _, k := range kws {
		if k == "stress" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Russian stress keywords %v missing English fallback %q", kws, "stress")
	}
}

func TestGenericReplyInterpolates(t *testing.T) {
	got := GenericReply(English, 3, 75)
	if !strings.Contains(got, "Month 3") {
		t.Fatalf("generic reply missing month: %q", got)
	}
	if !strings.Contains(got, "75%") {
		t.Fatalf("generic reply missing stability: %q", got)
	}
}

func TestApologyEmbedsDetail(t *testing.T) {
	for _, lang := range All {
		got := Apology(lang, "boom")
		if !strings.Contains(got, "boom") {
			t.Fatalf("Apology(%q) missing error detail: %q", lang, got)
		}
	}
}
