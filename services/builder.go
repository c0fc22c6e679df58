package services

import (
	"math"
	"strconv"
	"strings"

	"deeplynx-stats/models"
)

// BuildLotRecord converts one raw Lot entity into a typed LotRecord.
//
// Metric coercion is strict: a present, non-empty value that fails to parse
// as a number returns a ConversionError instead of silently becoming absent.
// A value that coerces to exactly 0 is recorded as absent — upstream treats
// zero and missing identically, so a true zero measurement is
// indistinguishable from "no measurement". That policy is pinned by tests;
// see TestBuildLotRecordZeroIsAbsent before changing it.
func BuildLotRecord(entity map[string]any) (*models.LotRecord, error) {
	lotID, ok := entity["hasP"].(string)
	if !ok || strings.TrimSpace(lotID) == "" {
		return nil, &MissingKeyError{Field: "hasP"}
	}

	etc, err := coerceNumeric("HasEtc", entity["HasEtc"])
	if err != nil {
		return nil, err
	}
	b, err := coerceNumeric("HasB", entity["HasB"])
	if err != nil {
		return nil, err
	}
	euc, err := coerceNumeric("HasEuC", entity["HasEuC"])
	if err != nil {
		return nil, err
	}

	return &models.LotRecord{
		LotID: lotID,
		Etc:   etc,
		B:     b,
		EuC:   euc,
	}, nil
}

// coerceNumeric turns a raw field value into an optional float64.
// Absent, empty, and zero-coercing values all map to nil; anything present
// that cannot be parsed as a finite number is a ConversionError. Callers
// decide whether that error is fatal (Lot metrics) or skippable (Product
// magnitude).
func coerceNumeric(field string, raw any) (*float64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return nonZero(v), nil
	case int:
		return nonZero(float64(v)), nil
	case int64:
		return nonZero(float64(v)), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ConversionError{Field: field, Value: raw}
		}
		return nonZero(f), nil
	default:
		return nil, &ConversionError{Field: field, Value: raw}
	}
}

func nonZero(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
