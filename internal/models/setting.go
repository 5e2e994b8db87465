package models

import "time"

// Setting keys for the email allowlist.
const (
	SettingAllowlistEnabled = "email_allowlist_enabled"
	SettingAllowlistRegex   = "email_allowlist_regex"
	SettingAllowlistMessage = "email_allowlist_message"
)

// Setting is a key/value configuration pair, admin-writable only.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
