package model

import "time"

// Session holds the console's credentials against the identity service.
// There is at most one row; renewal replaces it wholesale.
type Session struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	UserID       string `gorm:"size:64" json:"user_id"`
	AccessToken  string `gorm:"not null" json:"-"`
	RefreshToken string `gorm:"not null" json:"-"`
	FetchedAt    time.Time
}
