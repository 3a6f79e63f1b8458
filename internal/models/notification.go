// internal/models/notification.go
package models

import "time"

// Feedback is a yes/no rating left for one feature.
type Feedback struct {
	FeedbackID string    `json:"feedbackId" db:"feedback_id"`
	UserName   string    `json:"userName" db:"user_name"`
	Feature    string    `json:"feature" db:"feature"`
	Helpful    bool      `json:"helpful" db:"helpful"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// AdvisoryRecord is an answered advisory as stored in the history index.
type AdvisoryRecord struct {
	AdvisoryID string    `json:"advisoryId"`
	Feature    string    `json:"feature"`
	UserName   string    `json:"userName,omitempty"`
	Village    string    `json:"village,omitempty"`
	Crop       string    `json:"crop,omitempty"`
	Language   string    `json:"language,omitempty"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Farmer holds the contact details used for alerts.
type Farmer struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Phone    string   `json:"phone,omitempty" db:"phone"`
	Email    string   `json:"email,omitempty" db:"email"`
	Village  string   `json:"village,omitempty" db:"village"`
	Language Language `json:"language,omitempty" db:"language"`
}

// Notification is the delivery record of one alert on one channel.
type Notification struct {
	ID        string `json:"id"`
	FarmerID  string `json:"farmerId"`
	Channel   string `json:"channel"` // "sms", "email"
	Status    string `json:"status"`  // "sent", "failed", "skipped"
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	SentAt    string `json:"sentAt,omitempty"`
}
