package genai

import (
	stderrors "errors"
	"net/http"
	"regexp"
	"strings"

	apperrors "kisan-sathi/internal/common/errors"
	httpclient "kisan-sathi/internal/common/http"

	goopenai "github.com/sashabaranov/go-openai"
	gemini "google.golang.org/genai"
)

// IsBusy reports whether err means the provider is overloaded or rate
// limited and the farmer should simply try again later.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	if busyStatus(statusOf(err)) {
		return true
	}

	var apiErr gemini.APIError
	if stderrors.As(err, &apiErr) && busyGeminiStatus(apiErr.Status) {
		return true
	}
	var apiErrPtr *gemini.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil && busyGeminiStatus(apiErrPtr.Status) {
		return true
	}

	msg := err.Error()
	if strings.Contains(msg, "UNAVAILABLE") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return true
	}
	lower := strings.ToLower(msg)
	for _, phrase := range busyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return busyStatusText.MatchString(msg)
}

var busyPhrases = []string{"too many requests", "service unavailable", "overloaded"}

// busyStatusText matches a 429 or 503 written as a status, e.g. "status 503",
// "status code: 429" or "googleapi: Error 503", not any digits in the text.
var busyStatusText = regexp.MustCompile(`(?i)\b(?:status(?:\s+code)?|error|http)\s*[:=]?\s*(?:429|503)\b`)

func statusOf(err error) int {
	var apiErr gemini.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *gemini.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	var oaErr *goopenai.APIError
	if stderrors.As(err, &oaErr) {
		return oaErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var statusErr *httpclient.StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func busyStatus(code int) bool {
	return code == http.StatusServiceUnavailable || code == http.StatusTooManyRequests
}

func busyGeminiStatus(status string) bool {
	return status == "UNAVAILABLE" || status == "RESOURCE_EXHAUSTED"
}

// Classify maps a provider failure to the StandardError reported on the
// job. Errors that are already StandardErrors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsStandardError(err); ok {
		return err
	}
	if IsBusy(err) {
		return apperrors.NewAIServiceBusyError(err)
	}
	return apperrors.NewAIRequestFailedError(err)
}
