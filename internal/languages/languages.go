// Package languages maps language keys to display names and speech locales.
package languages

import "strings"

// DefaultLocale is used for keys the registry does not know
const DefaultLocale = "en-US"

// Language is one supported practice language
type Language struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// registry keeps display order for listing
var registry = []Language{
	{Key: "french", Name: "French", Locale: "fr-FR"},
	{Key: "spanish", Name: "Spanish", Locale: "es-ES"},
	{Key: "german", Name: "German", Locale: "de-DE"},
	{Key: "italian", Name: "Italian", Locale: "it-IT"},
	{Key: "portuguese", Name: "Portuguese", Locale: "pt-PT"},
	{Key: "japanese", Name: "Japanese", Locale: "ja-JP"},
	{Key: "korean", Name: "Korean", Locale: "ko-KR"},
	{Key: "chinese", Name: "Chinese", Locale: "zh-CN"},
	{Key: "hindi", Name: "Hindi", Locale: "hi-IN"},
	{Key: "english", Name: "English", Locale: "en-US"},
}

var byKey = func() map[string]Language {
	m := make(map[string]Language, len(registry))
	for _, l := range registry {
		m[l.Key] = l
	}
	return m
}()

// All returns the supported languages in display order
func All() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the language registered under key
func Lookup(key string) (Language, bool) {
	l, ok := byKey[Normalize(key)]
	return l, ok
}

// Name returns the display name for key, or key itself when unknown
func Name(key string) string {
	if l, ok := Lookup(key); ok {
		return l.Name
	}
	return key
}

// Locale returns the speech locale for key, falling back to DefaultLocale
func Locale(key string) string {
	if l, ok := Lookup(key); ok {
		return l.Locale
	}
	return DefaultLocale
}

// Normalize lowercases and trims a language key
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
