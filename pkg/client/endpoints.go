package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
	"github.com/DeBrosOfficial/indexer-client/pkg/contracts"
	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
	"github.com/DeBrosOfficial/indexer-client/pkg/fallback"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
	"github.com/DeBrosOfficial/indexer-client/pkg/referral"
)

// call executes req and converts an unsuccessful envelope into an APIError,
// including a 2xx response whose body reports success=false.
func call[T any](ctx context.Context, c *Client, endpoint string, req Request) (*T, error) {
	env, err := Execute[T](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if !env.OK || !env.Success {
		return nil, errors.NewAPIError(endpoint, env.Status, env.Error.Message(), env.Error.Code)
	}
	return &env.Data, nil
}

// guarded runs call under the fallback controller.
func guarded[T any](ctx context.Context, c *Client, endpoint string, req Request, synth func() (*T, error)) (*T, error) {
	return fallback.Run(ctx, c.fallback, endpoint, func(ctx context.Context) (*T, error) {
		return call[T](ctx, c, endpoint, req)
	}, synth)
}

func withAuth(cred auth.Credential, extra map[string]string) map[string]string {
	h := auth.BuildHeaders(cred)
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func userPath(address, suffix string) string {
	return "/users/" + url.PathEscape(address) + suffix
}

func pageQuery(limit, offset int, extra map[string]string) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	for k, v := range extra {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*contracts.HealthStatus, error) {
	return guarded(ctx, c, "health",
		Request{Method: http.MethodGet, URL: "/health"},
		c.synth.Health)
}

// Register calls POST /auth/register. A non-empty referralCode is sent once
// as x-referral.
func (c *Client) Register(ctx context.Context, cred auth.Credential, referralCode string, body contracts.RegisterRequest) (*contracts.RegisterResult, error) {
	var extra map[string]string
	if referralCode != "" {
		extra = map[string]string{auth.HeaderReferral: referralCode}
	}
	return call[contracts.RegisterResult](ctx, c, "register", Request{
		Method:  http.MethodPost,
		URL:     "/auth/register",
		Headers: withAuth(cred, extra),
		Body:    body,
	})
}

// RegisterWithReferral registers the signer, attaching the tracker's pending
// referral code if there is one. The code is cleared only after the server
// confirmed the registration; on any failure it stays available for a retry.
//
// If clearing fails after a successful registration, the result is returned
// together with the error.
func (c *Client) RegisterWithReferral(ctx context.Context, cred auth.Credential, tracker *referral.Tracker, body contracts.RegisterRequest) (*contracts.RegisterResult, error) {
	code, held, err := tracker.Consume(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.Register(ctx, cred, code, body)
	if err != nil {
		if held {
			c.logger.ComponentInfo(logging.ComponentReferral, "Registration failed, referral code kept for retry",
				zap.Int("status", errors.StatusOf(err)))
		}
		return nil, err
	}

	if held {
		if err := tracker.Clear(ctx); err != nil {
			c.logger.ComponentError(logging.ComponentReferral, "Registered but failed to clear referral code", zap.Error(err))
			return res, fmt.Errorf("registered but failed to clear referral code: %w", err)
		}
	}
	return res, nil
}

// Me calls GET /users/me.
func (c *Client) Me(ctx context.Context, cred auth.Credential) (*contracts.User, error) {
	return call[contracts.User](ctx, c, "me", Request{
		Method:  http.MethodGet,
		URL:     "/users/me",
		Headers: withAuth(cred, nil),
	})
}

// UpdateProfile calls PATCH /users/me.
func (c *Client) UpdateProfile(ctx context.Context, cred auth.Credential, update contracts.ProfileUpdate) (*contracts.User, error) {
	return call[contracts.User](ctx, c, "update_profile", Request{
		Method:  http.MethodPatch,
		URL:     "/users/me",
		Headers: withAuth(cred, nil),
		Body:    update,
	})
}

// LinkWallet calls PUT /users/me/wallets.
func (c *Client) LinkWallet(ctx context.Context, cred auth.Credential, link contracts.WalletLink) (*contracts.User, error) {
	return call[contracts.User](ctx, c, "link_wallet", Request{
		Method:  http.MethodPut,
		URL:     "/users/me/wallets",
		Headers: withAuth(cred, nil),
		Body:    link,
	})
}

// UnlinkWallet calls DELETE /users/me/wallets/{address}.
func (c *Client) UnlinkWallet(ctx context.Context, cred auth.Credential, address string) (*contracts.User, error) {
	return call[contracts.User](ctx, c, "unlink_wallet", Request{
		Method:  http.MethodDelete,
		URL:     "/users/me/wallets/" + url.PathEscape(address),
		Headers: withAuth(cred, nil),
	})
}

// Points calls GET /users/{address}/points.
func (c *Client) Points(ctx context.Context, address string) (*contracts.PointsSummary, error) {
	return guarded(ctx, c, "points",
		Request{Method: http.MethodGet, URL: userPath(address, "/points")},
		func() (*contracts.PointsSummary, error) { return c.synth.Points(address) })
}

// Activity calls GET /users/{address}/activity.
func (c *Client) Activity(ctx context.Context, address string, q contracts.ActivityQuery) (*contracts.ActivityPage, error) {
	target := userPath(address, "/activity") + pageQuery(q.Limit, q.Offset, map[string]string{"type": q.Type})
	return guarded(ctx, c, "activity",
		Request{Method: http.MethodGet, URL: target},
		func() (*contracts.ActivityPage, error) { return c.synth.Activity(address, q) })
}

// Leaderboard calls GET /leaderboard.
func (c *Client) Leaderboard(ctx context.Context, q contracts.LeaderboardQuery) (*contracts.Leaderboard, error) {
	target := "/leaderboard" + pageQuery(q.Limit, q.Offset, map[string]string{"period": q.Period})
	return guarded(ctx, c, "leaderboard",
		Request{Method: http.MethodGet, URL: target},
		func() (*contracts.Leaderboard, error) { return c.synth.Leaderboard(q) })
}

// ReferralStats calls GET /referrals/stats for the signer.
func (c *Client) ReferralStats(ctx context.Context, cred auth.Credential) (*contracts.ReferralStats, error) {
	return guarded(ctx, c, "referral_stats",
		Request{Method: http.MethodGet, URL: "/referrals/stats", Headers: withAuth(cred, nil)},
		func() (*contracts.ReferralStats, error) { return c.synth.ReferralStats(cred.Signer) })
}
