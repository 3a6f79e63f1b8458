// internal/workers/communication/send-weather-alert/message.go
package sendweatheralert

import (
	"bytes"
	"fmt"
	"strings"

	"kisan-sathi/internal/helpline"
	"kisan-sathi/internal/models"

	"github.com/yuin/goldmark"
)

// smsLimit keeps an alert within two concatenated GSM segments.
const smsLimit = 306

type message struct {
	Subject  string
	SMS      string
	Markdown string
}

func buildMessage(farmer models.Farmer, location string, input *Input) message {
	alert := strings.TrimSpace(input.Alert)
	summary := strings.TrimSpace(input.Summary)

	sms := fmt.Sprintf("Kisan Sathi weather alert for %s: %s", location, alert)
	if len([]rune(sms)) > smsLimit {
		sms = string([]rune(sms)[:smsLimit-3]) + "..."
	}

	var md strings.Builder
	fmt.Fprintf(&md, "Namaste %s,\n\n", farmer.Name)
	fmt.Fprintf(&md, "## Weather alert for %s\n\n", location)
	fmt.Fprintf(&md, "**%s**\n\n", alert)
	if summary != "" {
		fmt.Fprintf(&md, "%s\n\n", summary)
	}
	md.WriteString("Need help? Call a helpline:\n\n")
	for _, h := range helpline.All() {
		fmt.Fprintf(&md, "- %s: [%s](%s)\n", h.Name, h.NumberDisplay, h.TelURI())
	}

	return message{
		Subject:  fmt.Sprintf("Weather alert for %s", location),
		SMS:      sms,
		Markdown: md.String(),
	}
}

func renderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
