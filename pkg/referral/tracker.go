// Package referral tracks a referral code from the moment it is seen in an
// entry URL until the registration call that carries it has succeeded.
//
// At most one code is held at a time. Consume is a non-destructive peek, so a
// failed registration can be retried with the same code; only Clear removes it.
package referral

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// Defaults for the query parameter and storage key.
const (
	DefaultParam = "ref"
	DefaultKey   = "referral_code"
)

// State of the tracker.
type State int

const (
	Empty State = iota
	Pending
	Consuming
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Pending:
		return "pending"
	case Consuming:
		return "consuming"
	default:
		return "unknown"
	}
}

// DetectPolicy decides what happens when a code is detected while another
// one is still held.
type DetectPolicy int

const (
	// ReplacePending stores the newly detected code (last detected wins).
	ReplacePending DetectPolicy = iota
	// KeepPending ignores new codes until the held one is cleared.
	KeepPending
)

// ParsePolicy maps the configuration value to a DetectPolicy.
func ParsePolicy(s string) (DetectPolicy, error) {
	switch strings.ToLower(s) {
	case "", "replace":
		return ReplacePending, nil
	case "keep":
		return KeepPending, nil
	default:
		return ReplacePending, errors.NewValidationError("referral.policy", fmt.Sprintf("unknown policy %q", s), s)
	}
}

// Options configures a Tracker.
type Options struct {
	Param  string
	Key    string
	Policy DetectPolicy
	Logger *logging.ColoredLogger
}

// Tracker is the referral consumption state machine. All methods are safe for
// concurrent use; access to the store is serialized.
type Tracker struct {
	mu        sync.Mutex
	store     Store
	param     string
	key       string
	policy    DetectPolicy
	consuming bool
	logger    *logging.ColoredLogger
}

// NewTracker creates a tracker over store.
func NewTracker(store Store, opts Options) *Tracker {
	if opts.Param == "" {
		opts.Param = DefaultParam
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Tracker{
		store:  store,
		param:  opts.Param,
		key:    opts.Key,
		policy: opts.Policy,
		logger: opts.Logger,
	}
}

// Detect looks for the referral parameter in entryURL. It returns the URL with
// the parameter removed and the detected code ("" when absent). The code is
// stored according to the tracker's DetectPolicy.
func (t *Tracker) Detect(ctx context.Context, entryURL string) (string, string, error) {
	u, err := url.Parse(entryURL)
	if err != nil {
		return entryURL, "", errors.NewValidationError("url", "invalid entry URL", entryURL)
	}

	code, rest, found := extractParam(u.RawQuery, t.param)
	if !found {
		return entryURL, "", nil
	}
	u.RawQuery = rest
	u.ForceQuery = false
	clean := u.String()

	if code == "" {
		return clean, "", nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.policy == KeepPending {
		_, held, err := t.store.Get(ctx, t.key)
		if err != nil {
			return clean, code, fmt.Errorf("failed to read referral code: %w", err)
		}
		if held {
			t.logger.ComponentDebug(logging.ComponentReferral, "Referral code already pending, ignoring new one")
			return clean, code, nil
		}
	}

	if err := t.store.Set(ctx, t.key, code); err != nil {
		return clean, code, fmt.Errorf("failed to store referral code: %w", err)
	}
	t.consuming = false
	t.logger.ComponentInfo(logging.ComponentReferral, "Referral code detected", zap.String("param", t.param))
	return clean, code, nil
}

// Consume returns the held code without removing it. Calling it repeatedly
// without Clear returns the same code.
func (t *Tracker) Consume(ctx context.Context) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	code, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read referral code: %w", err)
	}
	if !ok || code == "" {
		t.consuming = false
		return "", false, nil
	}
	t.consuming = true
	return code, true, nil
}

// Clear removes the held code. Call it only after the call carrying the code
// has succeeded.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Delete(ctx, t.key); err != nil {
		return fmt.Errorf("failed to clear referral code: %w", err)
	}
	t.consuming = false
	t.logger.ComponentDebug(logging.ComponentReferral, "Referral code cleared")
	return nil
}

// SetCode overwrites the held code unconditionally.
func (t *Tracker) SetCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.NewValidationError("code", "must not be empty", code)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Set(ctx, t.key, code); err != nil {
		return fmt.Errorf("failed to store referral code: %w", err)
	}
	t.consuming = false
	return nil
}

// State reports the current state. A code that was left in persistent
// storage by an earlier process shows up as Pending; a stored empty value
// counts as Empty, matching Consume.
func (t *Tracker) State(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	code, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		return Empty, fmt.Errorf("failed to read referral code: %w", err)
	}
	switch {
	case !ok || code == "":
		return Empty, nil
	case t.consuming:
		return Consuming, nil
	default:
		return Pending, nil
	}
}

// extractParam removes every occurrence of name from rawQuery, keeping the
// order of the remaining pairs. It returns the last value seen.
func extractParam(rawQuery, name string) (value, rest string, found bool) {
	if rawQuery == "" {
		return "", "", false
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key != name {
			kept = append(kept, pair)
			continue
		}
		found = true
		if decoded, err := url.QueryUnescape(v); err == nil {
			value = strings.TrimSpace(decoded)
		}
	}
	return value, strings.Join(kept, "&"), found
}
