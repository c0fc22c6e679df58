package services

import (
	"deeplynx-stats/models"
	"deeplynx-stats/utils"
)

// KeyExtractor pulls join keys (the HasP attribute) from a raw Product query
// result for use in the dependent per-key Lot lookups.
type KeyExtractor struct {
	logger            *utils.Logger
	includeExampleKey bool
	exampleKey        string
}

// NewKeyExtractor creates a KeyExtractor. When includeExampleKey is set the
// fixed example key is appended after all extracted keys — a debugging
// affordance, not part of the Product data.
func NewKeyExtractor(logger *utils.Logger, includeExampleKey bool, exampleKey string) *KeyExtractor {
	return &KeyExtractor{
		logger:            logger,
		includeExampleKey: includeExampleKey,
		exampleKey:        exampleKey,
	}
}

// Extract returns the deduplicated join keys in first-occurrence order.
// Products without a join key are skipped with a warning.
func (e *KeyExtractor) Extract(result *models.QueryResult) []string {
	products := result.Entities("Product")

	seen := make(map[string]struct{})
	keys := make([]string, 0, len(products))

	for _, p := range products {
		key, ok := p["HasP"].(string)
		if !ok || key == "" {
			e.logger.Warn("[extractor] Product %s has no HasP join key — skipping", productID(p))
			continue
		}
		if _, dup := seen[key]; dup {
			e.logger.Debug("[extractor] Duplicate join key skipped: %s", key)
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	if e.includeExampleKey && e.exampleKey != "" {
		if _, dup := seen[e.exampleKey]; !dup {
			keys = append(keys, e.exampleKey)
		}
	}

	e.logger.Info("[extractor] Extracted %d join keys from %d products", len(keys), len(products))
	return keys
}
