// Package i18n resolves message catalog keys into localized text. The core
// pipeline only ever emits keys; rendering happens once, at the HTTP
// boundary, in the locale negotiated from the Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var supported = []language.Tag{
	language.English,
	language.Polish,
}

// Catalog holds the embedded message catalogs and the locale matcher.
type Catalog struct {
	bundle  *goi18n.Bundle
	matcher language.Matcher
}

// New loads the embedded catalogs. The English catalog is the fallback.
func New() (*Catalog, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, name := range []string{"locales/en.json", "locales/pl.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, err
		}
	}

	return &Catalog{
		bundle:  bundle,
		matcher: language.NewMatcher(supported),
	}, nil
}

// Match negotiates the best supported locale for an Accept-Language header.
// Empty or malformed headers negotiate to English.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := c.matcher.Match(tags...)
	return supported[idx]
}

// Resolve renders a message key in the given locale. Unknown keys resolve
// to the key itself so a missing catalog entry never hides an error.
func (c *Catalog) Resolve(key string, tag language.Tag) string {
	localizer := goi18n.NewLocalizer(c.bundle, tag.String())
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		return key
	}
	return msg
}
