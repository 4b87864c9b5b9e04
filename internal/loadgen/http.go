package loadgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitHits posts hits through a pool of workers and tallies the outcome.
func submitHits(ctx context.Context, cfg *Config, hits []Hit, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting hits", logger.Int("hits", len(hits)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/api/hits"

	var (
		submitted  int64
		successful int64
		failed     int64
		relational int64

		mu     sync.Mutex
		damage = make(map[string]int)
	)

	hitChan := make(chan Hit, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hit := range hitChan {
				atomic.AddInt64(&submitted, 1)
				res, err := submitSingleHit(ctx, client, url, hit)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "hit failed",
							logger.Int("attacker", hit.AttackerID),
							logger.Int("defender", hit.DefenderID),
							logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				if res.RelationalError != "" {
					atomic.AddInt64(&relational, 1)
				}
				mu.Lock()
				damage[strconv.Itoa(hit.AttackerID)] += res.Damage
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(hitChan)
		for _, hit := range hits {
			select {
			case <-ctx.Done():
				return
			case hitChan <- hit:
			}
		}
	}()
	wg.Wait()

	stats.HitsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.HitsSuccessful = int(atomic.LoadInt64(&successful))
	stats.HitsFailed = int(atomic.LoadInt64(&failed))
	stats.RelationalErrors = int(atomic.LoadInt64(&relational))
	stats.DamageByPlayer = damage

	log.Info(ctx, "hit submission completed",
		logger.Int("successful", stats.HitsSuccessful),
		logger.Int("failed", stats.HitsFailed),
		logger.Int("relationalErrors", stats.RelationalErrors))
}

func submitSingleHit(ctx context.Context, client *HTTPClient, url string, hit Hit) (HitResponse, error) {
	resp, err := client.Post(ctx, url, hit)
	if err != nil {
		return HitResponse{}, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return HitResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return HitResponse{}, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(body))
	}
	var out HitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return HitResponse{}, fmt.Errorf("failed to decode hit response: %w", err)
	}
	return out, nil
}

// getLeaderboard fetches the top entries of the configured game.
func getLeaderboard(ctx context.Context, cfg *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(cfg.Timeout)
	resp, err := client.Get(ctx, cfg.BaseURL+"/api/leaderboard")
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
