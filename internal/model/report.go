package model

import "time"

// Report is the complete output of one scan
type Report struct {
	Subject   string     `json:"subject"`              // Page URL or dump file that was scanned
	Source    string     `json:"source"`               // "url" or "file"
	ScannedAt time.Time  `json:"scanned_at"`           // When the scan occurred
	FetchMeta *FetchMeta `json:"fetch_meta,omitempty"` // HTTP metadata for url scans

	Snapshot *FormSnapshot `json:"snapshot"` // Observations that were ranked
	Score    Score         `json:"score"`    // Classified fields and diagnostic signals
	Origin   OriginVerdict `json:"origin"`   // Trust verdict for the form's origin
	Save     SaveVerdict   `json:"save"`     // Whether a submission looks like a saveable login

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM summary (separate, never affects classification)
}

// FetchMeta contains HTTP metadata from fetching the scanned page
type FetchMeta struct {
	StatusCode  int               `json:"status_code"`
	ContentType string            `json:"content_type,omitempty"`
	FinalURL    string            `json:"final_url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// OriginTrust classifies where a form lives
type OriginTrust string

const (
	OriginTrusted  OriginTrust = "trusted"
	OriginInsecure OriginTrust = "insecure" // Web form served over plain http
	OriginBlocked  OriginTrust = "blocked"  // Excluded by configuration
)

// OriginVerdict explains the origin classification
type OriginVerdict struct {
	Trust  OriginTrust `json:"trust"`
	Origin string      `json:"origin,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// SaveVerdict reports whether a submitted form should be offered for saving
type SaveVerdict struct {
	Offer    bool      `json:"offer"`
	Types    []string  `json:"types,omitempty"`     // password, email_address, username
	FieldIDs []FieldID `json:"field_ids,omitempty"` // Fields whose values would be saved
}

// LLMSummary contains the optional LLM-generated explanation
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictPrivacy bool     `json:"strict_privacy"`
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
