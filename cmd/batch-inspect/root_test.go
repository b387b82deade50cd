package main

import (
	"bytes"
	"testing"

	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/aggregation"
	"oncobilling-service/internal/app/services/billing/classification"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReconstruct(batchID string, items []models.Item) *hierarchy.Result {
	reconstructor := hierarchy.NewReconstructor(classification.NewDefaultClassifier(), aggregation.NewAggregator(), zap.NewNop())
	return reconstructor.Reconstruct(batchID, items)
}

const batchFile = `{
  "lote": {"_id": "L1", "numero_lote": "2024-0042", "competencia": "2024-03",
           "operadora": {"nome": "Unimed Teste", "registro_ans": "123456"}, "valor_total": "1000.00"},
  "itens": [
    {"_id": "G1", "lote_id": "L1", "tipo": "guia", "numero_guia_prestador": "ABC-123", "valor_total": "1000,00"},
    {"_id": "I1", "lote_id": "L1", "parent_id": "G1", "tipo": "procedimento", "codigo": "90123", "descricao": "Carboplatina", "valor_total": 600},
    {"_id": "I9", "lote_id": "L1", "parent_id": "G9", "tipo": "material", "codigo": "78000", "valor_total": 5}
  ]
}`

func TestDecodeBatchFile(t *testing.T) {
	t.Run("object with header", func(t *testing.T) {
		batch, items, err := decodeBatchFile([]byte(batchFile))

		require.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, "202403", batch.BillingPeriod)
		assert.Len(t, items, 3)
	})

	t.Run("bare item array", func(t *testing.T) {
		batch, items, err := decodeBatchFile([]byte(`[{"_id": "G1", "tipo": "guia"}]`))

		require.NoError(t, err)
		assert.Nil(t, batch)
		require.Len(t, items, 1)
		assert.Equal(t, "G1", items[0].ID)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, _, err := decodeBatchFile([]byte("lote"))
		assert.Error(t, err)
	})
}

func TestPrintTree(t *testing.T) {
	batch, items, err := decodeBatchFile([]byte(batchFile))
	require.NoError(t, err)

	inspected := &inspection{Batch: batch, Result: testReconstruct(batch.ID, items)}
	var output bytes.Buffer
	require.NoError(t, printTree(&output, inspected))

	assert.Contains(t, output.String(), "ABC-123")
	assert.Contains(t, output.String(), "medicamento")
	assert.Contains(t, output.String(), "Itens orfaos")
}

func TestResolveLookup(t *testing.T) {
	batch, items, err := decodeBatchFile([]byte(batchFile))
	require.NoError(t, err)

	result := testReconstruct(batch.ID, items)
	claim, ok := result.LookupClaim(" abc-123 ")

	require.True(t, ok)
	assert.Equal(t, "G1", claim.ID)
	require.Len(t, result.Orphans, 1)
	assert.Equal(t, "I9", result.Orphans[0].ID)
}

func TestResolveDispute(t *testing.T) {
	batch, items, err := decodeBatchFile([]byte(batchFile))
	require.NoError(t, err)

	t.Run("complete batch context", func(t *testing.T) {
		inspected := &inspection{Batch: batch, Result: testReconstruct(batch.ID, items)}

		request, err := resolveDispute(inspected, "abc-123")

		require.NoError(t, err)
		assert.Equal(t, "G1", request.ClaimID)
		assert.Equal(t, "L1", request.Batch.BatchID)
		assert.Equal(t, "2024-0042", request.Batch.BatchNumber)
		assert.Equal(t, "Unimed Teste", request.Batch.PayerName)
	})

	t.Run("missing batch header is refused", func(t *testing.T) {
		inspected := &inspection{Result: testReconstruct("L1", items)}

		_, err := resolveDispute(inspected, "ABC-123")

		require.Error(t, err)
		assert.Equal(t, exceptions.KindAmbiguousContext, exceptions.KindOf(err))
	})

	t.Run("claim found by scan when the index misses it", func(t *testing.T) {
		result := testReconstruct(batch.ID, items)
		result.Index = hierarchy.ClaimIndex{}
		inspected := &inspection{Batch: batch, Result: result}

		request, err := resolveDispute(inspected, " ABC-123 ")

		require.NoError(t, err)
		assert.Equal(t, "G1", request.ClaimID)
	})

	t.Run("unknown claim", func(t *testing.T) {
		inspected := &inspection{Batch: batch, Result: testReconstruct(batch.ID, items)}

		_, err := resolveDispute(inspected, "ZZZ999")

		assert.Error(t, err)
	})
}
