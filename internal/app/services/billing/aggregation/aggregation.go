// Package aggregation computes per-category subtotals for a claim.
package aggregation

import (
	"oncobilling-service/internal/app/models"

	"github.com/shopspring/decimal"
)

// FallbackRatios split the part of a declared total not explained by
// procedures when no medication, material or fee items could be classified.
type FallbackRatios struct {
	Medication decimal.Decimal
	Material   decimal.Decimal
}

var DefaultFallbackRatios = FallbackRatios{
	Medication: decimal.RequireFromString("0.60"),
	Material:   decimal.RequireFromString("0.25"),
}

type Aggregator struct {
	Ratios FallbackRatios
	Places int32
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		Ratios: DefaultFallbackRatios,
		Places: 2,
	}
}

// Subtotals sums item amounts per category. When only procedures were found
// and the declared total is larger than their sum, the remainder is spread
// using the fallback ratios and the result is flagged as estimated. Fee takes
// whatever is left after rounding so the parts add up to the remainder.
func (a *Aggregator) Subtotals(declaredTotal decimal.Decimal, items []models.ClassifiedItem) models.CategorySubtotals {
	var subtotals models.CategorySubtotals
	for _, item := range items {
		switch item.Category {
		case models.CategoryMedication:
			subtotals.Medication = subtotals.Medication.Add(item.Amount)
		case models.CategoryMaterial:
			subtotals.Material = subtotals.Material.Add(item.Amount)
		case models.CategoryFee:
			subtotals.Fee = subtotals.Fee.Add(item.Amount)
		default:
			subtotals.Procedure = subtotals.Procedure.Add(item.Amount)
		}
	}

	onlyProcedures := subtotals.Medication.IsZero() && subtotals.Material.IsZero() && subtotals.Fee.IsZero()
	if !onlyProcedures || !declaredTotal.GreaterThan(subtotals.Procedure) {
		return subtotals
	}

	remainder := declaredTotal.Sub(subtotals.Procedure)
	subtotals.Medication = remainder.Mul(a.Ratios.Medication).Round(a.Places)
	subtotals.Material = remainder.Mul(a.Ratios.Material).Round(a.Places)
	subtotals.Fee = remainder.Sub(subtotals.Medication).Sub(subtotals.Material)
	subtotals.Estimated = true
	return subtotals
}

// ExceedsDeclared reports whether the computed subtotals add up to more than
// the declared total. Upstream data is inconsistent in that case.
func ExceedsDeclared(declaredTotal decimal.Decimal, subtotals models.CategorySubtotals) bool {
	return subtotals.Sum().GreaterThan(declaredTotal)
}
