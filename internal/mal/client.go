// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package mal fetches user animelists from the MyAnimeList v2 API.
//
// A fetch follows the server-supplied next-page cursor until it is
// exhausted, guarded by an overall deadline and a maximum page count so
// a misbehaving upstream cursor can never produce an unbounded loop.
// The fetch is modeled as a small state machine: FETCHING until the
// cursor runs out (DONE), an auth/not-found response (ABORTED_AUTH), or
// the deadline/page bound (ABORTED_TIMEOUT).
//
// Client resilience:
//   - Bounded retry with exponential backoff (1s, 2s, 4s, ...) for
//     HTTP 429 and 5xx responses
//   - Circuit breaker (sony/gobreaker) around page fetches
//   - Client-side rate limiting (golang.org/x/time/rate)
//
// 401/403/404 terminate immediately: the user has no resolvable
// history, which is a client condition, not a transient fault.
package mal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/anirec/anirec/internal/config"
	"github.com/anirec/anirec/internal/logging"
	"github.com/anirec/anirec/internal/metrics"
)

// Sentinel errors for the fetch taxonomy.
var (
	// ErrUserNotResolvable means the upstream answered 401, 403 or 404:
	// the username does not resolve to a fetchable history.
	ErrUserNotResolvable = errors.New("user not resolvable on myanimelist")

	// ErrUpstreamUnavailable means the upstream kept failing after the
	// retry bound, or the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("myanimelist unavailable")
)

// listFields is the fields query parameter: everything the encoder and
// statistics aggregator need, nothing more.
const listFields = "list_status,genres,media_type,main_picture"

// Client fetches animelists from the MyAnimeList v2 API.
// Safe for concurrent use; each fetch runs its own cursor loop.
type Client struct {
	baseURL    string
	clientID   string
	maxPages   int
	maxRetries int
	pageLimit  int
	fetchTO    time.Duration

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*listResponse]
}

// NewClient creates a MyAnimeList API client from configuration.
func NewClient(cfg *config.MALConfig) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		clientID:   cfg.ClientID,
		maxPages:   cfg.MaxPages,
		maxRetries: cfg.MaxRetries,
		pageLimit:  cfg.PageLimit,
		fetchTO:    cfg.FetchTimeout,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
	}

	c.breaker = gobreaker.NewCircuitBreaker[*listResponse](gobreaker.Settings{
		Name:        "mal-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A missing user is a client condition, not an upstream fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUserNotResolvable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return c
}

// GetUserAnimeList fetches the user's complete animelist across all
// pages. It returns the collected entries only after the cursor chain
// terminates; there are no partial mid-fetch results.
//
// Error mapping: ErrUserNotResolvable for 401/403/404,
// ErrUpstreamUnavailable (wrapped) for exhausted retries or an open
// breaker, context errors when the overall deadline fires.
func (c *Client) GetUserAnimeList(ctx context.Context, username string) ([]ListEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTO)
	defer cancel()

	logger := logging.Logger().With().Str("component", "mal").Str("user", username).Logger()

	next := c.firstPageURL(username)
	entries := make([]ListEntry, 0, c.pageLimit)
	state := StateFetching
	pages := 0

	for state == StateFetching {
		if pages >= c.maxPages {
			logger.Warn().Int("pages", pages).Msg("page bound reached before cursor exhaustion")
			state = StateAbortedTimeout
			break
		}

		page, err := c.fetchPage(ctx, next)
		if err != nil {
			switch {
			case errors.Is(err, ErrUserNotResolvable):
				state = StateAbortedAuth
			case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
				state = StateAbortedTimeout
			default:
				return nil, err
			}
			break
		}

		pages++
		metrics.MALPagesFetched.Inc()
		for i := range page.Data {
			entries = append(entries, normalizeEntry(&page.Data[i]))
		}
		logger.Debug().Int("page", pages).Int("entries", len(page.Data)).Msg("fetched animelist page")

		if page.Paging.Next == "" {
			state = StateDone
			break
		}
		next = page.Paging.Next
	}

	metrics.MALFetchOutcomes.WithLabelValues(state.String()).Inc()

	switch state {
	case StateAbortedAuth:
		return nil, ErrUserNotResolvable
	case StateAbortedTimeout:
		return nil, fmt.Errorf("animelist fetch aborted after %d pages: %w", pages, ErrUpstreamUnavailable)
	default:
		logger.Info().Int("pages", pages).Int("entries", len(entries)).Msg("animelist fetch complete")
		return entries, nil
	}
}

// firstPageURL builds the initial animelist URL for a username.
func (c *Client) firstPageURL(username string) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	q.Set("nsfw", "true")
	q.Set("fields", listFields)
	return fmt.Sprintf("%s/users/%s/animelist?%s", c.baseURL, url.PathEscape(username), q.Encode())
}

// fetchPage retrieves one page through the circuit breaker.
func (c *Client) fetchPage(ctx context.Context, pageURL string) (*listResponse, error) {
	page, err := c.breaker.Execute(func() (*listResponse, error) {
		return c.doPageRequest(ctx, pageURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker open: %w", ErrUpstreamUnavailable)
		}
		return nil, err
	}
	return page, nil
}

// doPageRequest performs one page GET with bounded retry and backoff.
func (c *Client) doPageRequest(ctx context.Context, pageURL string) (*listResponse, error) {
	baseDelay := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.MALFetchRetries.Inc()
			retryDelay := baseDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, retryable, err := c.tryPage(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		logging.Warn().Err(err).Int("attempt", attempt+1).Int("max_retries", c.maxRetries).Msg("retrying animelist page")
	}

	return nil, fmt.Errorf("retries exhausted: %v: %w", lastErr, ErrUpstreamUnavailable)
}

// tryPage performs a single HTTP round trip. The second return value
// reports whether the failure class is retryable.
func (c *Client) tryPage(ctx context.Context, pageURL string) (page *listResponse, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-MAL-CLIENT-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// decoded below
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, false, ErrUserNotResolvable
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, true, fmt.Errorf("upstream status %d", resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, false, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, ErrUpstreamUnavailable)
	}

	var decoded listResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, true, fmt.Errorf("decode page: %w", err)
	}
	return &decoded, false, nil
}

// normalizeEntry flattens one API list item into a ListEntry.
func normalizeEntry(item *listItem) ListEntry {
	genres := make([]string, 0, len(item.Node.Genres))
	for _, g := range item.Node.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	image := item.Node.MainPicture.Large
	if image == "" {
		image = item.Node.MainPicture.Medium
	}

	return ListEntry{
		AnimeID:    strconv.Itoa(item.Node.ID),
		Title:      item.Node.Title,
		Status:     NormalizeStatus(item.ListStatus.Status),
		Score:      item.ListStatus.Score,
		Genres:     genres,
		MediaType:  item.Node.MediaType,
		ImageURL:   image,
		StartDate:  item.ListStatus.StartDate,
		FinishDate: item.ListStatus.FinishDate,
	}
}
