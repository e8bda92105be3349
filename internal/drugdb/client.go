// Package drugdb looks up drug names and FDA label details from public
// services, with a local fallback list and a badger-backed response cache
// so the app stays useful offline.
package drugdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pillguard/pillguard/internal/config"
	apperrors "github.com/pillguard/pillguard/internal/errors"
	"github.com/pillguard/pillguard/internal/metrics"
)

// Cache is the slice of the store used for response caching.
type Cache interface {
	GetCached(key string) ([]byte, bool)
	SetCached(key string, value []byte, ttl time.Duration) error
}

// Client queries the RxTerms and openFDA services.
type Client struct {
	http       *http.Client
	rxTermsURL string
	openFDAURL string
	cacheTTL   time.Duration
	cache      Cache
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

// NewClient creates a drug-data client.
func NewClient(cfg config.ServicesConfig, cache Cache, logger *zap.Logger) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "drugdb",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		rxTermsURL: cfg.RxTermsURL,
		openFDAURL: cfg.OpenFDAURL,
		cacheTTL:   time.Duration(cfg.CacheTTL) * time.Hour,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 10),
		breaker:    breaker,
		logger:     logger,
	}
}

// Search returns drug-name matches for a query. Any failure degrades to the
// bundled common-drug list so the add-medication flow never dead-ends.
func (c *Client) Search(ctx context.Context, query string) []SearchResult {
	if len(query) < 2 {
		return nil
	}

	results, err := c.searchRemote(ctx, query)
	if err != nil {
		c.logger.Warn("drug search failed, using fallback list",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.Default().RecordLookup(true)
		return FallbackDrugs(query)
	}

	metrics.Default().RecordLookup(false)
	return results
}

func (c *Client) searchRemote(ctx context.Context, query string) ([]SearchResult, error) {
	reqURL := fmt.Sprintf("%s?terms=%s&ef=RXCUIS&maxList=20", c.rxTermsURL, url.QueryEscape(query))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	// RxTerms responds with a positional JSON array:
	// [count, names, {"RXCUIS": [[...], ...]}, displays]
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) < 3 {
		return nil, apperrors.Wrap(err, "SVC_001", "unexpected rxterms response shape")
	}

	var names []string
	if err := json.Unmarshal(raw[1], &names); err != nil {
		return nil, apperrors.Wrap(err, "SVC_001", "unexpected rxterms names field")
	}

	var extras struct {
		RXCUIS [][]string `json:"RXCUIS"`
	}
	json.Unmarshal(raw[2], &extras)

	results := make([]SearchResult, 0, len(names))
	for i, name := range names {
		r := SearchResult{Name: name}
		if i < len(extras.RXCUIS) && len(extras.RXCUIS[i]) > 0 {
			r.RxCUI = extras.RXCUIS[i][0]
		}
		results = append(results, r)
	}
	return results, nil
}

// LabelDetails fetches FDA label sections for a drug, trying the brand name
// first and the generic name second. Responses are cached.
func (c *Client) LabelDetails(ctx context.Context, drugName string) (*LabelDetails, error) {
	if drugName == "" {
		return nil, apperrors.ErrDrugNotFound
	}

	// Strip parenthetical dosage suffixes before searching.
	cleanName := strings.TrimSpace(strings.SplitN(drugName, "(", 2)[0])
	cacheKey := "openfda:" + strings.ToLower(cleanName)

	if cached, ok := c.cache.GetCached(cacheKey); ok {
		metrics.Default().RecordCacheHit()
		var details LabelDetails
		if err := json.Unmarshal(cached, &details); err == nil {
			return &details, nil
		}
	}

	details, err := c.fetchLabel(ctx, "openfda.brand_name", cleanName)
	if err != nil {
		details, err = c.fetchLabel(ctx, "openfda.generic_name", cleanName)
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(details); err == nil {
		c.cache.SetCached(cacheKey, data, c.cacheTTL)
	}
	return details, nil
}

func (c *Client) fetchLabel(ctx context.Context, field, name string) (*LabelDetails, error) {
	query := fmt.Sprintf(`search=%s:"%s"&limit=1`, field, url.QueryEscape(name))

	body, err := c.get(ctx, c.openFDAURL+"?"+query)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			OpenFDA struct {
				BrandName []string `json:"brand_name"`
			} `json:"openfda"`
			IndicationsAndUsage []string `json:"indications_and_usage"`
			Warnings            []string `json:"warnings"`
			AdverseReactions    []string `json:"adverse_reactions"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Wrap(err, "SVC_001", "unexpected openfda response")
	}
	if len(resp.Results) == 0 {
		return nil, apperrors.ErrDrugNotFound
	}

	result := resp.Results[0]
	details := &LabelDetails{
		BrandName:   firstOr(result.OpenFDA.BrandName, "Unknown"),
		Indications: firstOr(result.IndicationsAndUsage, labelMissing),
		Warnings:    firstOr(result.Warnings, labelMissing),
		Reactions:   firstOr(result.AdverseReactions, labelMissing),
	}
	return details, nil
}

const labelMissing = "Information not available in standard label."

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

// get performs a rate-limited, breaker-guarded GET.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, apperrors.Wrap(err, "SVC_001", "request failed")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, apperrors.New("SVC_001", fmt.Sprintf("unexpected status %d", resp.StatusCode))
		}

		return io.ReadAll(resp.Body)
	})
}
