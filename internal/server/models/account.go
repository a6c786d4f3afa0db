// Package models contains the persistent entities of the account service.
package models

// Account is a registered user. ID is assigned by the store and immutable;
// Email and Code are each globally unique. HashedPassword only changes
// through the locked password-update flow.
type Account struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Code           string  `json:"code"`
	HashedPassword string  `json:"-"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
}

// AccountDraft carries the caller-supplied fields of a registration plus the
// code generated for this attempt.
type AccountDraft struct {
	Username string
	Email    string
	Code     string
}
