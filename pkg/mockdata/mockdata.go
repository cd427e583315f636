// Package mockdata generates deterministic synthetic payloads. The same input
// always yields the same output, so substituted responses are stable across
// calls and test runs.
package mockdata

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
)

// namespace for synthetic identifiers
var namespace = uuid.MustParse("6f1c8a52-3b0e-4d5e-9a57-2f8d3c1b7e40")

// DefaultEpoch anchors synthetic timestamps.
var DefaultEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	defaultLimit     = 20
	maxLimit         = 100
	leaderboardSize  = 250
	activityPerActor = 57
)

// Source implements contracts.Synthesizer.
type Source struct {
	epoch time.Time
}

var _ contracts.Synthesizer = (*Source)(nil)

// New creates a source anchored at DefaultEpoch.
func New() *Source {
	return &Source{epoch: DefaultEpoch}
}

// NewWithEpoch creates a source anchored at epoch.
func NewWithEpoch(epoch time.Time) *Source {
	return &Source{epoch: epoch.UTC()}
}

func seed(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(p)))
		h.Write([]byte{0})
	}
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func rng(parts ...string) *rand.Rand {
	return rand.New(rand.NewSource(seed(parts...)))
}

// ID returns a stable UUID for the given parts.
func ID(parts ...string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(strings.Join(parts, "/")))).String()
}

// Address returns a stable 0x address for index i.
func Address(i int) string {
	r := rng("address", fmt.Sprint(i))
	b := make([]byte, 20)
	r.Read(b)
	return fmt.Sprintf("0x%x", b)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Health implements contracts.Synthesizer.
func (s *Source) Health() (*contracts.HealthStatus, error) {
	return &contracts.HealthStatus{
		Status:    "ok",
		Version:   "synthetic",
		Uptime:    0,
		Synthetic: true,
	}, nil
}

// Points implements contracts.Synthesizer.
func (s *Source) Points(address string) (*contracts.PointsSummary, error) {
	r := rng("points", address)
	breakdown := make(map[string]int64, len(contracts.ActivityTypes))
	var total int64
	for _, t := range contracts.ActivityTypes {
		v := int64(r.Intn(5000))
		breakdown[t] = v
		total += v
	}
	return &contracts.PointsSummary{
		Address:   address,
		Total:     total,
		Rank:      1 + r.Intn(leaderboardSize),
		Breakdown: breakdown,
		UpdatedAt: s.epoch,
	}, nil
}

// Activity implements contracts.Synthesizer.
func (s *Source) Activity(address string, q contracts.ActivityQuery) (*contracts.ActivityPage, error) {
	limit, offset := clampPage(q.Limit, q.Offset)

	all := make([]contracts.ActivityEntry, 0, activityPerActor)
	for i := 0; i < activityPerActor; i++ {
		r := rng("activity", address, fmt.Sprint(i))
		typ := contracts.ActivityTypes[r.Intn(len(contracts.ActivityTypes))]
		if q.Type != "" && q.Type != typ {
			continue
		}
		tx := make([]byte, 32)
		r.Read(tx)
		all = append(all, contracts.ActivityEntry{
			ID:        ID("activity", address, fmt.Sprint(i)),
			Address:   address,
			Type:      typ,
			Points:    int64(10 + r.Intn(490)),
			TxHash:    fmt.Sprintf("0x%x", tx),
			Timestamp: s.epoch.Add(-time.Duration(i) * 6 * time.Hour),
		})
	}

	page := &contracts.ActivityPage{
		Items:  []contracts.ActivityEntry{},
		Total:  len(all),
		Limit:  limit,
		Offset: offset,
	}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page.Items = all[offset:end]
	}
	return page, nil
}

// Leaderboard implements contracts.Synthesizer.
func (s *Source) Leaderboard(q contracts.LeaderboardQuery) (*contracts.Leaderboard, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	period := q.Period
	if period == "" {
		period = contracts.PeriodAll
	}

	entries := make([]contracts.LeaderboardEntry, leaderboardSize)
	for i := range entries {
		r := rng("leaderboard", period, fmt.Sprint(i))
		entries[i] = contracts.LeaderboardEntry{
			Address:  Address(i),
			Username: fmt.Sprintf("user%03d", i),
			Points:   int64(r.Intn(100000)),
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Points > entries[b].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	out := &contracts.Leaderboard{Period: period, Total: len(entries), Entries: []contracts.LeaderboardEntry{}}
	if offset < len(entries) {
		end := offset + limit
		if end > len(entries) {
			end = len(entries)
		}
		out.Entries = entries[offset:end]
	}
	return out, nil
}

// ReferralStats implements contracts.Synthesizer.
func (s *Source) ReferralStats(address string) (*contracts.ReferralStats, error) {
	r := rng("referrals", address)
	n := r.Intn(8)
	stats := &contracts.ReferralStats{
		Code:     ReferralCode(address),
		Referred: make([]contracts.ReferredUser, 0, n),
	}
	for i := 0; i < n; i++ {
		pts := int64(50 + r.Intn(200))
		stats.Referred = append(stats.Referred, contracts.ReferredUser{
			Address:   Address(1000 + int(seed(address, fmt.Sprint(i))%100000)),
			JoinedAt:  s.epoch.Add(-time.Duration(i+1) * 24 * time.Hour),
			PointsFor: pts,
		})
		stats.PointsEarned += pts
	}
	stats.TotalReferred = len(stats.Referred)
	return stats, nil
}

// ReferralCode derives the referral code handed out to address.
func ReferralCode(address string) string {
	id := strings.ReplaceAll(ID("referral-code", address), "-", "")
	return strings.ToUpper(id[:8])
}
