//go:build e2e

package e2e

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
	"github.com/DeBrosOfficial/indexer-client/pkg/client"
	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/devserver"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
	"github.com/DeBrosOfficial/indexer-client/pkg/referral"
)

// Environment variables read by the suite.
const (
	envIndexerURL = "INDEXER_E2E_URL"   // run against an external service instead of an in-process dev server
	envRedisAddr  = "INDEXER_E2E_REDIS" // enables the redis referral store tests
)

var (
	indexerURLCache string
	indexerErr      error
	indexerOnce     sync.Once
)

// GetIndexerURL returns the service under test. Without INDEXER_E2E_URL a dev
// server is started in-process and shared by every test in the package.
func GetIndexerURL(t *testing.T) string {
	t.Helper()
	indexerOnce.Do(func() {
		if u := os.Getenv(envIndexerURL); u != "" {
			indexerURLCache = u
			return
		}
		indexerURLCache, _, indexerErr = startDevServer(config.DevServerConfig{})
	})
	require.NoError(t, indexerErr, "FAIL: could not start dev server")
	return indexerURLCache
}

// StartDevServer starts a dedicated dev server that is stopped when the test ends.
func StartDevServer(t *testing.T, cfg config.DevServerConfig) string {
	t.Helper()
	url, stop, err := startDevServer(cfg)
	require.NoError(t, err, "FAIL: could not start dev server")
	t.Cleanup(stop)
	return url
}

func startDevServer(cfg config.DevServerConfig) (string, context.CancelFunc, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := devserver.New(cfg, logging.NewNopLogger())
	go srv.Serve(ctx, ln)

	url := "http://" + ln.Addr().String()
	err = WaitForCondition(5*time.Second, func() bool {
		resp, err := http.Get(url + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
	if err != nil {
		cancel()
		return "", nil, err
	}
	return url, cancel, nil
}

// NewClient creates a client for baseURL. mutate may adjust the config.
func NewClient(t *testing.T, baseURL string, mutate ...func(*client.ClientConfig)) *client.Client {
	t.Helper()
	cfg := client.DefaultClientConfig(baseURL)
	cfg.RequestTimeout = 10 * time.Second
	for _, m := range mutate {
		m(cfg)
	}
	c, err := client.New(cfg)
	require.NoError(t, err, "FAIL: could not create client")
	return c
}

// NewEthereumCredential signs a sign-in message with a fresh key.
func NewEthereumCredential(t *testing.T) auth.Credential {
	t.Helper()
	s, err := auth.GenerateEthereumSigner()
	require.NoError(t, err)
	cred, err := auth.NewCredential(s, "Sign in to the indexer\nAddress: "+s.Address())
	require.NoError(t, err)
	return cred
}

// NewSolanaCredential signs a sign-in message with a fresh ed25519 key.
func NewSolanaCredential(t *testing.T) auth.Credential {
	t.Helper()
	s, err := auth.GenerateSolanaSigner()
	require.NoError(t, err)
	cred, err := auth.NewCredential(s, "Sign in to the indexer\nAddress: "+s.Address())
	require.NoError(t, err)
	return cred
}

// OpenTracker opens a referral tracker over the named store in a temp dir.
func OpenTracker(t *testing.T, store, dir string) *referral.Tracker {
	t.Helper()
	cfg := config.DefaultConfig().Referral
	cfg.Store = store
	switch store {
	case "file":
		cfg.Path = filepath.Join(dir, referral.DefaultFileName)
	case "sqlite":
		cfg.Path = filepath.Join(dir, "referral.db")
	case "redis":
		cfg.RedisAddr = os.Getenv(envRedisAddr)
	}

	s, closeStore, err := referral.OpenStore(cfg)
	require.NoError(t, err, "FAIL: could not open %s store", store)
	t.Cleanup(func() { closeStore() })

	return referral.NewTracker(s, referral.Options{Param: cfg.Param, Key: cfg.Key})
}

// SkipIfNoRedis skips the test unless INDEXER_E2E_REDIS is set.
func SkipIfNoRedis(t *testing.T) {
	t.Helper()
	if os.Getenv(envRedisAddr) == "" {
		t.Skip(envRedisAddr + " not set; redis tests skipped")
	}
}

// WaitForCondition waits for a condition with exponential backoff
func WaitForCondition(maxWait time.Duration, check func() bool) error {
	deadline := time.Now().Add(maxWait)
	backoff := 10 * time.Millisecond

	for {
		if check() {
			return nil
		}
		if time.Now().After(deadline) {
			return context.DeadlineExceeded
		}
		time.Sleep(backoff)
		if backoff < 500*time.Millisecond {
			backoff = backoff * 2
		}
	}
}
