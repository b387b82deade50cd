package classification

import (
	"oncobilling-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_DefaultRules(t *testing.T) {
	classifier := NewDefaultClassifier()

	tests := []struct {
		name        string
		code        string
		description string
		expected    models.Category
	}{
		{"medication by code prefix", "90123", "", models.CategoryMedication},
		{"medication by description", "12345", "Medicamento quimioterápico", models.CategoryMedication},
		{"material by code prefix", "78001", "", models.CategoryMaterial},
		{"material by description", "11111", "MATERIAL descartável", models.CategoryMaterial},
		{"fee by code prefix", "60010", "", models.CategoryFee},
		{"fee by description", "22222", "Taxa de sala", models.CategoryFee},
		{"procedure when nothing matches", "10101012", "Consulta em oncologia", models.CategoryProcedure},
		{"empty input is procedure", "", "", models.CategoryProcedure},
		{"code with surrounding whitespace", "  90555 ", "", models.CategoryMedication},
		{"medication wins over material", "90111", "material", models.CategoryMedication},
		{"material wins over fee", "78111", "taxa", models.CategoryMaterial},
		{"medication description wins over fee code", "60111", "medicamento", models.CategoryMedication},
		{"prefix only at start", "19078", "", models.CategoryProcedure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.code, tt.description))
		})
	}
}

func TestClassifier_PriorityCodeTable(t *testing.T) {
	table := CodeTableRule{
		RuleName: "tuss",
		Table: map[string]models.Category{
			"90999": models.CategoryFee,
		},
	}
	classifier := NewDefaultClassifier().WithPriorityRules(table)

	assert.Equal(t, models.CategoryFee, classifier.Classify("90999", ""), "code table should take priority")
	assert.Equal(t, models.CategoryMedication, classifier.Classify("90123", ""), "heuristics still apply to unknown codes")
}

func TestClassifier_ClassifyItem(t *testing.T) {
	item := models.Item{ID: "i1", Code: "78002", Description: "Cateter"}

	classified := NewDefaultClassifier().ClassifyItem(item)

	assert.Equal(t, models.CategoryMaterial, classified.Category)
	assert.Equal(t, "i1", classified.ID)
}
