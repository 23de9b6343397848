// Package i18n localizes user facing messages. Locale files are embedded and
// a request's locale is negotiated from its Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"log"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale = "en"
	initOnce      sync.Once
)

// Init loads all locale files and sets the default locale. Calling T before
// Init loads the files with English as the default.
func Init(defLocale string) {
	initOnce.Do(func() { load(defLocale) })
}

func load(defLocale string) {
	if defLocale != "" {
		defaultLocale = defLocale
	}

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		log.Fatalf("i18n: read locales dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			log.Fatalf("i18n: read %s: %v", e.Name(), err)
		}
		bundle.MustParseMessageFileBytes(data, e.Name())
	}
	matcher = language.NewMatcher(bundle.LanguageTags())
	log.Printf("i18n: loaded %d locale files, default=%s", len(entries), defaultLocale)
}

// Negotiate picks the best supported locale for an Accept-Language header.
func Negotiate(acceptLanguage string) string {
	Init("")
	if acceptLanguage == "" {
		return defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return defaultLocale
	}
	base, _ := bundle.LanguageTags()[idx].Base()
	return base.String()
}

// T translates a message ID into locale. Unknown IDs come back unchanged.
func T(locale, messageID string, templateData ...map[string]any) string {
	Init("")
	if locale == "" {
		locale = defaultLocale
	}
	l := i18n.NewLocalizer(bundle, locale, defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}

func DefaultLocale() string {
	Init("")
	return defaultLocale
}
