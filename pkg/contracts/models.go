package contracts

import "time"

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Uptime    int64  `json:"uptime"` // seconds
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Wallet is an address linked to a user account.
type Wallet struct {
	Address string `json:"address"`
	Chain   string `json:"chain"` // "ethereum" or "solana"
	Primary bool   `json:"primary"`
}

// User is the account profile.
type User struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	Username     string    `json:"username,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	ReferralCode string    `json:"referralCode"`
	ReferredBy   string    `json:"referredBy,omitempty"`
	Wallets      []Wallet  `json:"wallets"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username,omitempty"`
}

// RegisterResult is returned by POST /auth/register.
type RegisterResult struct {
	User            User `json:"user"`
	Created         bool `json:"created"`
	ReferralApplied bool `json:"referralApplied"`
}

// ProfileUpdate is the body of PATCH /users/me. Nil fields are left unchanged.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// WalletLink is the body of PUT /users/me/wallets. The linked wallet proves
// ownership with its own signature over Message.
type WalletLink struct {
	Address   string `json:"address"`
	Chain     string `json:"chain"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// PointsSummary is returned by GET /users/{address}/points.
type PointsSummary struct {
	Address   string           `json:"address"`
	Total     int64            `json:"total"`
	Rank      int              `json:"rank"`
	Breakdown map[string]int64 `json:"breakdown"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ActivityEntry is a single indexed event for an address.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Points    int64     `json:"points"`
	TxHash    string    `json:"txHash,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityPage is returned by GET /users/{address}/activity.
type ActivityPage struct {
	Items  []ActivityEntry `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ActivityQuery filters an activity listing.
type ActivityQuery struct {
	Limit  int
	Offset int
	Type   string
}

// LeaderboardEntry is one ranked address.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Address  string `json:"address"`
	Username string `json:"username,omitempty"`
	Points   int64  `json:"points"`
}

// Leaderboard is returned by GET /leaderboard.
type Leaderboard struct {
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
	Total   int                `json:"total"`
}

// LeaderboardQuery selects a leaderboard window.
type LeaderboardQuery struct {
	Limit  int
	Offset int
	Period string // "all", "week", "month"
}

// ReferredUser is an account created with the caller's referral code.
type ReferredUser struct {
	Address   string    `json:"address"`
	JoinedAt  time.Time `json:"joinedAt"`
	PointsFor int64     `json:"pointsForReferrer"`
}

// ReferralStats is returned by GET /referrals/stats.
type ReferralStats struct {
	Code          string         `json:"code"`
	TotalReferred int            `json:"totalReferred"`
	PointsEarned  int64          `json:"pointsEarned"`
	Referred      []ReferredUser `json:"referred"`
}
