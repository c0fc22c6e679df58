package models

// ProductDetail is one Product row in the final report. Pointer fields render
// as JSON null when the source value was absent — absent stays absent, it is
// never defaulted.
type ProductDetail struct {
	ID        string   `json:"id"`
	Shape     *int64   `json:"hasShape"`
	Comp      *string  `json:"HasComp"`
	Magnitude *float64 `json:"HasD"`
	JoinKey   *string  `json:"HasP"`
}

// LotDetail is one Lot row in the final report.
type LotDetail struct {
	LotID string   `json:"lot_id"`
	Etc   *float64 `json:"HasEtc"`
	B     *float64 `json:"HasB"`
	EuC   *float64 `json:"HasEuC"`
}

// ProductAverages carries the Product-side metric averages.
type ProductAverages struct {
	Magnitude *float64 `json:"HasD"`
}

// LotCounts summarizes the Lot batch.
type LotCounts struct {
	Total      int `json:"total"`
	WithValues int `json:"with_values"`
}

// LotAverages carries the Lot-side metric averages; nil means the metric had
// no values at all.
type LotAverages struct {
	Etc *float64 `json:"HasEtc"`
	B   *float64 `json:"HasB"`
	EuC *float64 `json:"HasEuC"`
}

// Report is the final output of the workflow. Field names are fixed for
// downstream compatibility.
type Report struct {
	Products        int             `json:"products"`
	ProductDetails  []ProductDetail `json:"product_details"`
	ProductAverages ProductAverages `json:"product_averages"`
	Lots            LotCounts       `json:"lots"`
	LotAverages     LotAverages     `json:"lot_averages"`
	LotDetails      []LotDetail     `json:"lot_details"`
}
