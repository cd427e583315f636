package devserver

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/httputil"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// authenticate verifies the signature headers and returns the credential.
// It writes the error response itself and reports false on failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (auth.Credential, bool) {
	cred, err := httputil.ExtractCredential(r)
	if err != nil {
		httputil.WriteErr(w, err)
		return auth.Credential{}, false
	}
	if err := auth.Verify(cred); err != nil {
		s.logger.ComponentDebug(logging.ComponentDevServer, "Signature rejected",
			zap.String("signer", cred.Signer),
			zap.Error(err),
		)
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid signature")
		return auth.Credential{}, false
	}
	if httputil.ChainOf(cred.Signer) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Unsupported signer address")
		return auth.Credential{}, false
	}
	return cred, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, contracts.HealthStatus{
		Status:  "ok",
		Version: Version,
		Uptime:  int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req contracts.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username != "" && !httputil.ValidateUsername(req.Username) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid username")
		return
	}

	referral := httputil.ExtractReferral(r)
	if referral != "" && !httputil.ValidateReferralCode(referral) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid referral code")
		return
	}

	res, err := s.state.register(cred.Signer, req.Username, referral)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		s.logger.ComponentInfo(logging.ComponentDevServer, "Account registered",
			zap.String("address", cred.Signer),
			zap.Bool("referral_applied", res.ReferralApplied),
		)
	}
	httputil.WriteData(w, status, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	u, err := s.state.lookup(cred.Signer)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var update contracts.ProfileUpdate
	if err := httputil.DecodeJSONStrict(r, &update); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Username != nil && !httputil.ValidateUsername(*update.Username) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid username")
		return
	}
	if update.AvatarURL != nil && *update.AvatarURL != "" {
		u, err := url.Parse(*update.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid avatar URL")
			return
		}
	}

	u, err := s.state.updateProfile(cred.Signer, update)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

func (s *Server) handleLinkWallet(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var link contracts.WalletLink
	if err := httputil.DecodeJSON(r, &link); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !httputil.RequireNotEmpty(w, link.Address, "address") {
		return
	}

	chain := httputil.ChainOf(link.Address)
	if chain == "" || (link.Chain != "" && !strings.EqualFold(link.Chain, chain)) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid wallet address for chain")
		return
	}

	// The linked wallet proves ownership with its own signature.
	proof := auth.Credential{Message: link.Message, Signature: link.Signature, Signer: link.Address}
	if err := auth.Verify(proof); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid wallet signature")
		return
	}

	u, err := s.state.linkWallet(cred.Signer, contracts.Wallet{Address: link.Address, Chain: chain})
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

func (s *Server) handleUnlinkWallet(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	u, err := s.state.unlinkWallet(cred.Signer, chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// addressParam validates the {address} path parameter.
func addressParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := chi.URLParam(r, "address")
	if httputil.ChainOf(address) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid address")
		return "", false
	}
	return address, true
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	p, err := s.synth.Points(address)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	if bonus := s.state.bonus(address); bonus > 0 {
		p.Total += bonus
		if p.Breakdown == nil {
			p.Breakdown = make(map[string]int64)
		}
		p.Breakdown[contracts.ActivityReferral] += bonus
	}
	httputil.WriteData(w, http.StatusOK, p)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	q := contracts.ActivityQuery{
		Limit:  httputil.QueryParamInt(r, "limit", 0),
		Offset: httputil.QueryParamInt(r, "offset", 0),
		Type:   httputil.QueryParam(r, "type", ""),
	}
	if q.Type != "" && !slices.Contains(contracts.ActivityTypes, q.Type) {
		httputil.WriteError(w, http.StatusBadRequest, "Unknown activity type")
		return
	}
	page, err := s.synth.Activity(address, q)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, page)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := contracts.LeaderboardQuery{
		Limit:  httputil.QueryParamInt(r, "limit", 0),
		Offset: httputil.QueryParamInt(r, "offset", 0),
		Period: httputil.QueryParam(r, "period", contracts.PeriodAll),
	}
	switch q.Period {
	case contracts.PeriodAll, contracts.PeriodWeek, contracts.PeriodMonth:
	default:
		httputil.WriteError(w, http.StatusBadRequest, "Unknown period")
		return
	}
	lb, err := s.synth.Leaderboard(q)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, lb)
}

func (s *Server) handleReferralStats(w http.ResponseWriter, r *http.Request) {
	cred, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	stats, err := s.state.referralStats(cred.Signer)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, stats)
}
