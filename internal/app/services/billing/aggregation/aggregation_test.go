package aggregation

import (
	"oncobilling-service/internal/app/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func classified(category models.Category, amount string) models.ClassifiedItem {
	return models.ClassifiedItem{
		Item:     models.Item{Amount: decimal.RequireFromString(amount)},
		Category: category,
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestAggregator_Subtotals(t *testing.T) {
	aggregator := NewAggregator()

	t.Run("sums each category", func(t *testing.T) {
		items := []models.ClassifiedItem{
			classified(models.CategoryProcedure, "300.00"),
			classified(models.CategoryMedication, "500.00"),
			classified(models.CategoryMedication, "120.50"),
			classified(models.CategoryMaterial, "75.25"),
			classified(models.CategoryFee, "40.00"),
		}

		subtotals := aggregator.Subtotals(decimal.RequireFromString("1035.75"), items)

		assertDecimal(t, "300.00", subtotals.Procedure)
		assertDecimal(t, "620.50", subtotals.Medication)
		assertDecimal(t, "75.25", subtotals.Material)
		assertDecimal(t, "40.00", subtotals.Fee)
		assert.False(t, subtotals.Estimated)
	})

	t.Run("fallback distributes the remainder", func(t *testing.T) {
		items := []models.ClassifiedItem{classified(models.CategoryProcedure, "300.00")}

		subtotals := aggregator.Subtotals(decimal.RequireFromString("1000.00"), items)

		assertDecimal(t, "300.00", subtotals.Procedure)
		assertDecimal(t, "420.00", subtotals.Medication)
		assertDecimal(t, "175.00", subtotals.Material)
		assertDecimal(t, "105.00", subtotals.Fee)
		assert.True(t, subtotals.Estimated)
		assertDecimal(t, "1000.00", subtotals.Sum())
	})

	t.Run("fallback parts sum exactly after rounding", func(t *testing.T) {
		items := []models.ClassifiedItem{classified(models.CategoryProcedure, "0.00")}

		subtotals := aggregator.Subtotals(decimal.RequireFromString("0.07"), items)

		assertDecimal(t, "0.04", subtotals.Medication)
		assertDecimal(t, "0.02", subtotals.Material)
		assertDecimal(t, "0.01", subtotals.Fee)
		assertDecimal(t, "0.07", subtotals.Sum())
		assert.True(t, subtotals.Estimated)
	})

	t.Run("no fallback when declared total equals procedures", func(t *testing.T) {
		items := []models.ClassifiedItem{classified(models.CategoryProcedure, "300.00")}

		subtotals := aggregator.Subtotals(decimal.RequireFromString("300.00"), items)

		assert.False(t, subtotals.Estimated)
		assert.True(t, subtotals.Medication.IsZero())
	})

	t.Run("no fallback when another category is present", func(t *testing.T) {
		items := []models.ClassifiedItem{
			classified(models.CategoryProcedure, "300.00"),
			classified(models.CategoryFee, "10.00"),
		}

		subtotals := aggregator.Subtotals(decimal.RequireFromString("1000.00"), items)

		assert.False(t, subtotals.Estimated)
		assertDecimal(t, "10.00", subtotals.Fee)
		assert.True(t, subtotals.Medication.IsZero())
	})

	t.Run("no items and a declared total", func(t *testing.T) {
		subtotals := aggregator.Subtotals(decimal.RequireFromString("100.00"), nil)

		assert.True(t, subtotals.Estimated)
		assertDecimal(t, "60.00", subtotals.Medication)
		assertDecimal(t, "25.00", subtotals.Material)
		assertDecimal(t, "15.00", subtotals.Fee)
	})
}

func TestExceedsDeclared(t *testing.T) {
	subtotals := models.CategorySubtotals{
		Procedure:  decimal.RequireFromString("80"),
		Medication: decimal.RequireFromString("30"),
	}

	assert.True(t, ExceedsDeclared(decimal.RequireFromString("100"), subtotals))
	assert.False(t, ExceedsDeclared(decimal.RequireFromString("110"), subtotals))
}
