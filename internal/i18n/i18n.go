package i18n

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Supported lists the languages with translations. The first entry is the
// fallback.
var Supported = []language.Tag{language.English, language.German, language.French}

var matcher = language.NewMatcher(Supported)

// Match picks the supported language closest to the given preferences. Each
// preference may be a single tag or an Accept-Language header value.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Translator resolves string tokens for one language.
type Translator struct {
	lang language.Tag
	key  string
	log  *zap.Logger
}

func New(lang language.Tag, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	base, _ := lang.Base()
	return &Translator{lang: lang, key: base.String(), log: log}
}

func (t *Translator) Lang() language.Tag { return t.lang }

// T returns the translation of token, the English text when the language is
// missing, or the token itself when it is unknown.
func (t *Translator) T(token string) string {
	tr, ok := translations[token]
	if !ok {
		t.log.Error("missing translation for token", zap.String("token", token))
		return token
	}
	if s, ok := tr[t.key]; ok {
		return s
	}
	t.log.Error("missing translation for token in language", zap.String("token", token), zap.String("lang", t.key))
	if s, ok := tr["en"]; ok {
		return s
	}
	return token
}

// All returns every token translated.
func (t *Translator) All() map[string]string {
	out := make(map[string]string, len(translations))
	for token := range translations {
		out[token] = t.T(token)
	}
	return out
}

// Title returns the page title for the selected origin names.
func (t *Translator) Title(names ...string) string {
	var named []string
	for _, n := range names {
		if n != "" {
			named = append(named, n)
		}
	}
	if len(named) == 0 {
		return t.T("baseTitle")
	}
	return strings.Join(named, ", ") + " | " + t.T("baseTitle")
}

type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// Notify builds the dialog for an alert token prefix such as "noResults".
func (t *Translator) Notify(prefix, icon string) Notification {
	return Notification{
		Title:   t.T(prefix + "AlertTitle"),
		Message: t.T(prefix + "AlertMessage"),
		Icon:    icon,
	}
}
