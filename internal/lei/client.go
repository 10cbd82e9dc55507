package lei

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Entity is one LEI record from the GLEIF search API.
type Entity struct {
	LEI     string `json:"lei"`
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
	Status  string `json:"status"`
}

// Client searches the GLEIF fuzzy-completion API. Results are cached
// because vendor onboarding tends to repeat the same handful of
// queries.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewClient creates a GLEIF search client. baseURL is the API root,
// e.g. https://api.gleif.org/api/v1.
func NewClient(baseURL string, cache Cache, ttl time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// gleifResponse mirrors the JSON:API shape GLEIF returns.
type gleifResponse struct {
	Data []struct {
		Attributes struct {
			LEI    string `json:"lei"`
			Entity struct {
				LegalName struct {
					Name string `json:"name"`
				} `json:"legalName"`
				LegalAddress struct {
					Country string `json:"country"`
					City    string `json:"city"`
				} `json:"legalAddress"`
			} `json:"entity"`
			Registration struct {
				Status string `json:"status"`
			} `json:"registration"`
		} `json:"attributes"`
	} `json:"data"`
}

// Search looks up entities by name or LEI fragment. Cache hits skip
// the upstream call entirely.
func (c *Client) Search(ctx context.Context, query string) ([]Entity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Entity{}, nil
	}

	key := CacheKey(query)
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("lei cache read failed", "error", err)
	} else if ok {
		var entities []Entity
		if err := json.Unmarshal([]byte(cached), &entities); err == nil {
			return entities, nil
		}
		c.logger.Warn("lei cache entry corrupt, refetching", "key", key)
	}

	entities, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entities); err == nil {
		if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil {
			c.logger.Warn("lei cache write failed", "error", err)
		}
	}
	return entities, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]Entity, error) {
	u := fmt.Sprintf("%s/lei-records?filter[entity.legalName]=%s&page[size]=10",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build gleif request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gleif request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gleif returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed gleifResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode gleif response: %w", err)
	}

	entities := make([]Entity, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		entities = append(entities, Entity{
			LEI:     d.Attributes.LEI,
			Name:    d.Attributes.Entity.LegalName.Name,
			Country: d.Attributes.Entity.LegalAddress.Country,
			City:    d.Attributes.Entity.LegalAddress.City,
			Status:  d.Attributes.Registration.Status,
		})
	}
	return entities, nil
}
