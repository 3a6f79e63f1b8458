package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"English", English},
		{"english", English},
		{"हिंदी", Hindi},
		{"mr-IN", Marathi},
		{"ਪੰਜਾਬੀ", Punjabi},
		{"Hindi", Hindi},
		{"marathi", Marathi},
		{" PUNJABI ", Punjabi},
		{"", English},
		{"Klingon", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLanguage(tt.in))
		})
	}
}

func TestLanguage_Locale(t *testing.T) {
	assert.Equal(t, "hi-IN", Hindi.Locale())
	assert.Equal(t, "pa-IN", Punjabi.Locale())
	assert.Equal(t, "en-IN", Language("fr").Locale())
	assert.False(t, Language("fr").IsSupported())
	for _, l := range SupportedLanguages {
		assert.True(t, l.IsSupported(), l)
	}
}

func TestNewRequestContext(t *testing.T) {
	user := User{Name: "Ramesh", Language: "मराठी", Village: "Rampur"}

	assert.Equal(t, Marathi, NewRequestContext(user, "").Language)
	assert.Equal(t, Hindi, NewRequestContext(user, "hi-IN").Language)
	assert.Equal(t, Punjabi, NewRequestContext(user, "Punjabi").Language)
	assert.Equal(t, English, NewRequestContext(User{Name: "Sita"}, "").Language)
}

func TestUser_VillageOr(t *testing.T) {
	assert.Equal(t, "Sita Pur", User{Village: "Sita Pur"}.VillageOr("Rampur"))
	assert.Equal(t, "Rampur", User{Village: "  "}.VillageOr("Rampur"))
}
