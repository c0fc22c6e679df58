package deeplynx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deeplynx-stats/config"
	"deeplynx-stats/models"
	"deeplynx-stats/utils"
)

// recordBlock is the _record selection requested with every entity, matching
// what Deep Lynx exposes per node.
const recordBlock = `_record {
        id
        data_source_id
        original_id
        import_id
        metatype_id
        metatype_name
        created_at
        created_by
        modified_at
        modified_by
        metadata
      }`

// Client talks to a Deep Lynx container: token auth plus GraphQL queries for
// Product and Lot metatypes. Per-key Lot queries run sequentially and are
// paced by the rate limiter.
type Client struct {
	cfg     *config.Config
	logger  *utils.Logger
	http    *http.Client
	retry   *utils.RetryConfig
	limiter *utils.RateLimiter
}

// New creates a ready-to-use Deep Lynx client.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		},
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		limiter: utils.NewRateLimiter(cfg.RateLimitMs),
	}
}

// authenticate exchanges the API key pair for a bearer token. Deep Lynx
// returns the token as the raw response body, sometimes wrapped in quotes.
func (c *Client) authenticate() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.DeepLynxURL+"/oauth/token", nil)
	if err != nil {
		return "", fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("x-api-secret", c.cfg.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("auth: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	token := strings.TrimSpace(string(body))
	token = strings.Trim(token, `"`)
	if token == "" {
		return "", fmt.Errorf("auth: empty token in response")
	}

	c.logger.Debug("[deeplynx] Retrieved auth token")
	return token, nil
}

// Query authenticates and posts one GraphQL query to the container's data
// endpoint, decoding the envelope into a QueryResult.
func (c *Client) Query(query string) (*models.QueryResult, error) {
	var result *models.QueryResult

	err := c.retry.Do("deep lynx query", func() error {
		token, err := c.authenticate()
		if err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{"query": query})
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		endpoint := fmt.Sprintf("%s/containers/%s/data", c.cfg.DeepLynxURL, c.cfg.ContainerID)
		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		decoded := &models.QueryResult{}
		if err := json.NewDecoder(resp.Body).Decode(decoded); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		result = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryProducts fetches all Products matching the configured shape and comp
// filters.
func (c *Client) QueryProducts() (*models.QueryResult, error) {
	c.logger.Info("[deeplynx] Querying Products (hasShape=%d, HasComp=%s)",
		c.cfg.ShapeFilter, c.cfg.CompFilter)

	query := fmt.Sprintf(`{
  metatypes {
    Product (
      hasShape: {operator: "eq", value: %d}
      HasComp: {operator: "eq", value: %q}
    ) {
      hasShape
      HasComp
      HasD
      HasP
      %s
    }
  }
}`, c.cfg.ShapeFilter, c.cfg.CompFilter, recordBlock)

	return c.Query(query)
}

// QueryLots fetches one Lot result per join key, in order. A failed per-key
// fetch is logged and skipped — the key simply contributes no result.
func (c *Client) QueryLots(keys []string) []*models.QueryResult {
	c.logger.Info("[deeplynx] Querying %d lots...", len(keys))

	results := make([]*models.QueryResult, 0, len(keys))
	for _, key := range keys {
		c.limiter.Wait()
		c.logger.Debug("[deeplynx] Querying lot: %s", key)

		result, err := c.Query(lotQuery(key))
		if err != nil {
			c.logger.Warn("[deeplynx] Lot query for %q failed: %v — skipping", key, err)
			continue
		}
		results = append(results, result)
	}
	return results
}

func lotQuery(originalID string) string {
	return fmt.Sprintf(`{
  metatypes {
    Lot (
      _record: {
        original_id: {operator: "eq", value: %q}
      }
    ) {
      hasP
      HasEtc
      HasB
      HasEuC
      %s
    }
  }
}`, originalID, recordBlock)
}
