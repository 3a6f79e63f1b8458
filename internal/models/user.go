package models

import "strings"

// User is the farmer profile captured during onboarding.
type User struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Village  string `json:"village,omitempty"`
	Crop     string `json:"crop,omitempty"`
}

// RequestContext travels with every advisory request. There is no
// process-wide current user.
type RequestContext struct {
	User     User     `json:"user"`
	Language Language `json:"language"`
}

// NewRequestContext resolves the request language from an explicit value
// first, then the user's profile.
func NewRequestContext(user User, language string) RequestContext {
	if strings.TrimSpace(language) == "" {
		language = user.Language
	}
	return RequestContext{User: user, Language: ParseLanguage(language)}
}

// VillageOr returns the user's village, or fallback when none was given.
func (u User) VillageOr(fallback string) string {
	if v := strings.TrimSpace(u.Village); v != "" {
		return v
	}
	return fallback
}
