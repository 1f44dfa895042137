package entity

import (
	"time"
)

// Subscription plan tags a user account can carry.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; Token holds the current session token
// (empty when logged out); VerificationToken is non-empty until the
// email verification flow completes.
type User struct {
	ID                string
	Email             string
	Password          string
	Subscription      string
	AvatarURL         string
	VerificationToken string
	Verify            bool
	Token             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
