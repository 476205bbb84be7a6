package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		prefs []string
		want  language.Tag
	}{
		{name: "no preference", prefs: nil, want: language.English},
		{name: "german region", prefs: []string{"de-DE"}, want: language.German},
		{name: "accept-language header", prefs: []string{"fr-CH,fr;q=0.9,en;q=0.8"}, want: language.French},
		{name: "unsupported", prefs: []string{"ja"}, want: language.English},
		{name: "explicit before header", prefs: []string{"de", "en-US,en;q=0.9"}, want: language.German},
		{name: "garbage", prefs: []string{"@@@"}, want: language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.prefs...); got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.prefs, got, tt.want)
			}
		})
	}
}

func TestTranslatorFallbacks(t *testing.T) {
	de := New(language.German, nil)
	if got := de.T("searchPlaceholder"); got != "Station suchen…" {
		t.Errorf("German placeholder = %q", got)
	}
	if got := de.T("doesNotExist"); got != "doesNotExist" {
		t.Errorf("unknown token should echo, got %q", got)
	}
	it := New(language.Italian, nil)
	if got := it.T("searchPlaceholder"); got != "Search for a station…" {
		t.Errorf("missing language should fall back to English, got %q", got)
	}
}

func TestEveryTokenHasEverySupportedLanguage(t *testing.T) {
	for token, tr := range translations {
		for _, lang := range Supported {
			base, _ := lang.Base()
			if tr[base.String()] == "" {
				t.Errorf("token %s lacks %s", token, base)
			}
		}
	}
}

func TestTitle(t *testing.T) {
	en := New(language.English, nil)
	if got := en.Title(); got != "🇪🇺 Direct train connections" {
		t.Errorf("base title = %q", got)
	}
	if got := en.Title("Frankfurt(Main)Hbf", "", "Mainz Hbf"); got != "Frankfurt(Main)Hbf, Mainz Hbf | 🇪🇺 Direct train connections" {
		t.Errorf("title = %q", got)
	}
}

func TestNotify(t *testing.T) {
	n := New(language.French, nil).Notify("noResults", "warning")
	if n.Title != "Hmm…" || n.Icon != "warning" || n.Message == "" {
		t.Errorf("unexpected notification %+v", n)
	}
}
