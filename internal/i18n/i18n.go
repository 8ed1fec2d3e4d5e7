// ABOUTME: Locale-aware message bundle for API response codes and text
// ABOUTME: Messages are embedded YAML, one file per locale

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFS embed.FS

// Message keys shared by every locale file.
const (
	KeySuccess      = "success"
	KeyUnknown      = "unknown"
	KeyUserNotFound = "userNotFound"
	KeySigninFailed = "signinFailed"
	KeyEntryPoint   = "entryPoint"
	KeyAccessDenied = "accessDenied"
)

// Message is one localized entry: a stable numeric code plus human text.
type Message struct {
	Code    int    `yaml:"code"`
	Message string `yaml:"message"`
}

// Bundle holds the messages for every embedded locale and resolves
// request locales against them.
type Bundle struct {
	defaultLocale string
	locales       map[string]map[string]Message
	matcher       language.Matcher
	tags          []language.Tag
}

// NewBundle loads every embedded locale file. defaultLocale must name one
// of them (e.g. "ko" or "en").
func NewBundle(defaultLocale string) (*Bundle, error) {
	entries, err := fs.Glob(messageFS, "messages/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing message files: %w", err)
	}

	b := &Bundle{
		defaultLocale: defaultLocale,
		locales:       make(map[string]map[string]Message),
	}

	for _, path := range entries {
		locale := strings.TrimSuffix(strings.TrimPrefix(path, "messages/"), ".yaml")
		raw, err := messageFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		msgs := make(map[string]Message)
		if err := yaml.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		b.locales[locale] = msgs
	}

	if _, ok := b.locales[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no message file", defaultLocale)
	}

	// The default locale goes first so it wins when nothing matches
	b.tags = append(b.tags, language.Make(defaultLocale))
	for locale := range b.locales {
		if locale != defaultLocale {
			b.tags = append(b.tags, language.Make(locale))
		}
	}
	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

// Locales returns the locale names the bundle carries.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	return out
}

// Lookup resolves a message key in the given locale, falling back to the
// default locale for unknown locales or missing keys. An unknown key
// resolves to the unknown-error entry.
func (b *Bundle) Lookup(locale, key string) Message {
	if msgs, ok := b.locales[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := b.locales[b.defaultLocale][key]; ok {
		return msg
	}
	return b.locales[b.defaultLocale][KeyUnknown]
}

// LocaleFromRequest picks the response locale for a request. An explicit
// lang query parameter wins; otherwise the Accept-Language header is
// negotiated against the embedded locales, and the default locale is the
// final fallback.
func (b *Bundle) LocaleFromRequest(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if _, ok := b.locales[lang]; ok {
			return lang
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tag, _ := language.MatchStrings(b.matcher, accept); tag != language.Und {
			base, _ := tag.Base()
			if _, ok := b.locales[base.String()]; ok {
				return base.String()
			}
		}
	}
	return b.defaultLocale
}
