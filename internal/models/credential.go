package models

import "time"

// Credential is the aggregator access token obtained for a user after linking an institution.
type Credential struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"-"`
	ItemID      string    `json:"item_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}
