package contracts

import "context"

// Activity types emitted by the indexer.
const (
	ActivitySwap     = "swap"
	ActivityStake    = "stake"
	ActivityBridge   = "bridge"
	ActivityReferral = "referral"
	ActivityBonus    = "bonus"
)

// ActivityTypes lists every known activity type.
var ActivityTypes = []string{ActivitySwap, ActivityStake, ActivityBridge, ActivityReferral, ActivityBonus}

// Leaderboard periods.
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// IndexerAPI is the endpoint surface of the indexing service.
// Authenticated methods take the signer's address from the credential.
type IndexerAPI interface {
	Health(ctx context.Context) (*HealthStatus, error)
	Points(ctx context.Context, address string) (*PointsSummary, error)
	Activity(ctx context.Context, address string, q ActivityQuery) (*ActivityPage, error)
	Leaderboard(ctx context.Context, q LeaderboardQuery) (*Leaderboard, error)
}

// Synthesizer produces stand-in data for calls substituted by the fallback
// controller. Implementations must be deterministic and must not block.
type Synthesizer interface {
	Health() (*HealthStatus, error)
	Points(address string) (*PointsSummary, error)
	Activity(address string, q ActivityQuery) (*ActivityPage, error)
	Leaderboard(q LeaderboardQuery) (*Leaderboard, error)
	ReferralStats(address string) (*ReferralStats, error)
}
