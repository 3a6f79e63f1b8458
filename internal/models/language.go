package models

import (
	"fmt"
	"strings"
)

// Language is one of the languages the app is offered in.
type Language string

const (
	English Language = "English"
	Hindi   Language = "हिंदी"
	Marathi Language = "मराठी"
	Punjabi Language = "ਪੰਜਾਬੀ"
)

// DefaultLanguage is used whenever a language cannot be resolved.
const DefaultLanguage = English

// SupportedLanguages lists the languages in menu order.
var SupportedLanguages = []Language{English, Hindi, Marathi, Punjabi}

var locales = mustLocaleTable(map[Language]string{
	English: "en-IN",
	Hindi:   "hi-IN",
	Marathi: "mr-IN",
	Punjabi: "pa-IN",
})

// englishNames lets job variables name the language in English.
var englishNames = mustLocaleTable(map[Language]string{
	English: "English",
	Hindi:   "Hindi",
	Marathi: "Marathi",
	Punjabi: "Punjabi",
})

func mustLocaleTable(table map[Language]string) map[Language]string {
	if _, ok := table[DefaultLanguage]; !ok {
		panic(fmt.Sprintf("language table has no entry for default language %q", DefaultLanguage))
	}
	for _, l := range SupportedLanguages {
		if _, ok := table[l]; !ok {
			panic(fmt.Sprintf("language table has no entry for %q", l))
		}
	}
	return table
}

// ParseLanguage accepts the native name, the English name or the locale
// code. Anything else resolves to DefaultLanguage.
func ParseLanguage(s string) Language {
	s = strings.TrimSpace(s)
	for _, l := range SupportedLanguages {
		if strings.EqualFold(s, string(l)) ||
			strings.EqualFold(s, englishNames[l]) ||
			strings.EqualFold(s, locales[l]) {
			return l
		}
	}
	return DefaultLanguage
}

// Locale returns the BCP 47 locale code, e.g. "hi-IN".
func (l Language) Locale() string {
	if code, ok := locales[l]; ok {
		return code
	}
	return locales[DefaultLanguage]
}

func (l Language) IsSupported() bool {
	_, ok := locales[l]
	return ok
}

func (l Language) String() string {
	return string(l)
}
