package entity

import "time"

// GenerationResult is the rendered content of one message. Subject and Body
// are never empty.
type GenerationResult struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OutboundMessage is what a delivery channel transmits.
type OutboundMessage struct {
	SenderName  string
	SenderEmail string
	To          string
	Subject     string
	Body        string
}

// Draft is the last generated content for a contact, kept for review.
type Draft struct {
	Key       string    `json:"key"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}
