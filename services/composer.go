package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"deeplynx-stats/models"
	"deeplynx-stats/utils"
)

// unknownID is the sentinel for Products whose upstream record id is absent.
const unknownID = "Unknown"

// Composer merges the Product-side figures and the Lot-side aggregation into
// the final report.
type Composer struct {
	logger *utils.Logger
}

// NewComposer creates a Composer with the given logger.
func NewComposer(logger *utils.Logger) *Composer {
	return &Composer{logger: logger}
}

// Compose builds the report from the raw Product result and the per-key raw
// Lot results. Product magnitude coercion is lenient (malformed values are
// skipped with a warning); Lot metric coercion is strict and a failure there
// ends the run. The asymmetry is deliberate: Lot metrics feed the averages
// downstream consumers act on, Product magnitude is informational.
func (c *Composer) Compose(productResult *models.QueryResult, lotResults []*models.QueryResult) (*models.Report, error) {
	products := productResult.Entities("Product")
	c.logger.Info("[composer] Processing %d products", len(products))

	details := make([]models.ProductDetail, 0, len(products))
	var magnitude models.RunningPair

	for _, p := range products {
		d := models.ProductDetail{
			ID:      productID(p),
			Shape:   shapeOf(p),
			Comp:    stringField(p, "HasComp"),
			JoinKey: stringField(p, "HasP"),
		}

		mag, err := coerceNumeric("HasD", p["HasD"])
		if err != nil {
			c.logger.Warn("[composer] Product %s: %v — skipping magnitude", d.ID, err)
		} else if mag != nil {
			d.Magnitude = mag
			magnitude.Add(*mag)
		}

		details = append(details, d)
	}

	lots := make([]*models.LotRecord, 0, len(lotResults))
	for _, result := range lotResults {
		entities := result.Entities("Lot")
		if len(entities) == 0 {
			continue
		}
		// Only the first entity per response counts; Lot queries are keyed
		// by original_id and extra entities are duplicates.
		lot, err := BuildLotRecord(entities[0])
		if err != nil {
			var missing *MissingKeyError
			if errors.As(err, &missing) {
				c.logger.Warn("[composer] Skipping lot entity: %v", err)
				continue
			}
			return nil, fmt.Errorf("composer: %w", err)
		}
		lots = append(lots, lot)
		c.logger.Debug("[composer] Processed lot %s — has values: %t", lot.LotID, lot.HasAnyValue())
	}

	stats := Aggregate(lots)
	stats.TotalProducts = len(products)
	stats.Magnitude = magnitude

	lotDetails := make([]models.LotDetail, 0, len(lots))
	for _, lot := range lots {
		lotDetails = append(lotDetails, models.LotDetail{
			LotID: lot.LotID,
			Etc:   lot.Etc,
			B:     lot.B,
			EuC:   lot.EuC,
		})
	}

	return &models.Report{
		Products:        stats.TotalProducts,
		ProductDetails:  details,
		ProductAverages: models.ProductAverages{Magnitude: stats.Magnitude.Average()},
		Lots: models.LotCounts{
			Total:      stats.TotalLots,
			WithValues: stats.LotsWithValues,
		},
		LotAverages: models.LotAverages{
			Etc: stats.Etc.Average(),
			B:   stats.B.Average(),
			EuC: stats.EuC.Average(),
		},
		LotDetails: lotDetails,
	}, nil
}

// Print renders a human-readable summary of the report to stdout.
func (c *Composer) Print(r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 PRODUCT / LOT STATISTICS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Products processed : \033[1m%d\033[0m\n", r.Products)
	fmt.Printf("  Lots processed     : \033[1m%d\033[0m\n", r.Lots.Total)
	fmt.Printf("  Lots with values   : \033[1m%d\033[0m\n", r.Lots.WithValues)
	fmt.Println()

	fmt.Printf("\033[1;33m  Averages (non-missing values only)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printAverage("HasD  (products)", r.ProductAverages.Magnitude)
	printAverage("HasEtc", r.LotAverages.Etc)
	printAverage("HasB", r.LotAverages.B)
	printAverage("HasEuC", r.LotAverages.EuC)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printAverage(name string, avg *float64) {
	if avg == nil {
		fmt.Printf("  %-18s: no data\n", name)
		return
	}
	fmt.Printf("  %-18s: \033[1;32m%.4f\033[0m\n", name, *avg)
}

// productID digs the upstream identifier out of the entity's _record block,
// falling back to the sentinel when absent.
func productID(entity map[string]any) string {
	record, ok := entity["_record"].(map[string]any)
	if !ok {
		return unknownID
	}
	id, ok := record["original_id"].(string)
	if !ok || id == "" {
		return unknownID
	}
	return id
}

func stringField(entity map[string]any, field string) *string {
	s, ok := entity[field].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func shapeOf(entity map[string]any) *int64 {
	switch v := entity["hasShape"].(type) {
	case float64:
		n := int64(v)
		return &n
	case int:
		n := int64(v)
		return &n
	case int64:
		return &v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}
