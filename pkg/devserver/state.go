package devserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/httputil"
	"github.com/DeBrosOfficial/indexer-client/pkg/mockdata"
)

// referralBonus is credited to the referrer for every account they bring in.
const referralBonus = 100

var (
	errUserNotFound      = httputil.NewHTTPError(http.StatusNotFound, "User not found")
	errAlreadyRegistered = httputil.NewHTTPError(http.StatusConflict, "Account already registered; referral cannot be applied")
	errUnknownReferral   = httputil.NewHTTPError(http.StatusBadRequest, "Unknown referral code")
	errSelfReferral      = httputil.NewHTTPError(http.StatusBadRequest, "Cannot refer yourself")
	errWalletTaken       = httputil.NewHTTPError(http.StatusConflict, "Wallet is linked to another account")
	errWalletNotLinked   = httputil.NewHTTPError(http.StatusNotFound, "Wallet is not linked")
	errPrimaryWallet     = httputil.NewHTTPError(http.StatusBadRequest, "Cannot unlink the primary wallet")
)

// state is the in-memory account store of the dev server.
type state struct {
	mu        sync.Mutex
	users     map[string]*contracts.User // keyed by normalized primary address
	wallets   map[string]string          // normalized wallet -> owner key
	codes     map[string]string          // referral code -> owner key
	referrals map[string][]contracts.ReferredUser
	now       func() time.Time
}

func newState(now func() time.Time) *state {
	return &state{
		users:     make(map[string]*contracts.User),
		wallets:   make(map[string]string),
		codes:     make(map[string]string),
		referrals: make(map[string][]contracts.ReferredUser),
		now:       now,
	}
}

func key(address string) string {
	return httputil.NormalizeWalletAddress(address)
}

// register creates the account for address or returns the existing one.
// A referral code is accepted only when the account is created.
func (s *state) register(address, username, referralCode string) (contracts.RegisterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(address)
	if owner, ok := s.wallets[k]; ok {
		if referralCode != "" {
			return contracts.RegisterResult{}, errAlreadyRegistered
		}
		return contracts.RegisterResult{User: cloneUser(s.users[owner])}, nil
	}

	var referrer string
	if referralCode != "" {
		owner, ok := s.codes[strings.ToUpper(referralCode)]
		if !ok {
			return contracts.RegisterResult{}, errUnknownReferral
		}
		if owner == k {
			return contracts.RegisterResult{}, errSelfReferral
		}
		referrer = owner
	}

	now := s.now().UTC()
	u := &contracts.User{
		ID:           uuid.NewString(),
		Address:      address,
		Username:     username,
		ReferralCode: mockdata.ReferralCode(address),
		Wallets: []contracts.Wallet{{
			Address: address,
			Chain:   httputil.ChainOf(address),
			Primary: true,
		}},
		CreatedAt: now,
	}
	if referrer != "" {
		u.ReferredBy = s.users[referrer].ReferralCode
		s.referrals[referrer] = append(s.referrals[referrer], contracts.ReferredUser{
			Address:   address,
			JoinedAt:  now,
			PointsFor: referralBonus,
		})
	}

	s.users[k] = u
	s.wallets[k] = k
	s.codes[u.ReferralCode] = k

	return contracts.RegisterResult{
		User:            cloneUser(u),
		Created:         true,
		ReferralApplied: referrer != "",
	}, nil
}

// lookup returns the account owning wallet.
func (s *state) lookup(wallet string) (contracts.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.owner(wallet)
	if !ok {
		return contracts.User{}, errUserNotFound
	}
	return cloneUser(u), nil
}

func (s *state) owner(wallet string) (*contracts.User, bool) {
	k, ok := s.wallets[key(wallet)]
	if !ok {
		return nil, false
	}
	u, ok := s.users[k]
	return u, ok
}

func (s *state) updateProfile(wallet string, update contracts.ProfileUpdate) (contracts.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.owner(wallet)
	if !ok {
		return contracts.User{}, errUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	return cloneUser(u), nil
}

func (s *state) linkWallet(wallet string, w contracts.Wallet) (contracts.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.owner(wallet)
	if !ok {
		return contracts.User{}, errUserNotFound
	}
	ownerKey := key(u.Address)
	wk := key(w.Address)
	if existing, taken := s.wallets[wk]; taken {
		if existing != ownerKey {
			return contracts.User{}, errWalletTaken
		}
		return cloneUser(u), nil
	}

	s.wallets[wk] = ownerKey
	u.Wallets = append(u.Wallets, w)
	return cloneUser(u), nil
}

func (s *state) unlinkWallet(wallet, target string) (contracts.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.owner(wallet)
	if !ok {
		return contracts.User{}, errUserNotFound
	}
	tk := key(target)
	if tk == key(u.Address) {
		return contracts.User{}, errPrimaryWallet
	}
	for i, w := range u.Wallets {
		if key(w.Address) == tk {
			u.Wallets = append(u.Wallets[:i], u.Wallets[i+1:]...)
			delete(s.wallets, tk)
			return cloneUser(u), nil
		}
	}
	return contracts.User{}, errWalletNotLinked
}

func (s *state) referralStats(wallet string) (contracts.ReferralStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.owner(wallet)
	if !ok {
		return contracts.ReferralStats{}, errUserNotFound
	}
	referred := append([]contracts.ReferredUser(nil), s.referrals[key(u.Address)]...)
	stats := contracts.ReferralStats{
		Code:          u.ReferralCode,
		TotalReferred: len(referred),
		Referred:      referred,
	}
	for _, r := range referred {
		stats.PointsEarned += r.PointsFor
	}
	return stats, nil
}

// bonus returns the referral points credited to address.
func (s *state) bonus(address string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.referrals[key(address)])) * referralBonus
}

func cloneUser(u *contracts.User) contracts.User {
	out := *u
	out.Wallets = append([]contracts.Wallet(nil), u.Wallets...)
	return out
}
