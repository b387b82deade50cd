// Package batchshape normalizes stored batch and item records into the
// canonical models. Batch records are written by several producers and the
// same field can live at the top level, under "lote" or under "cabecalho",
// under more than one name. The alias chains below are a migration shim:
// once every producer writes the canonical layout they can be reduced to the
// canonical names only.
package batchshape

import (
	"fmt"
	"oncobilling-service/internal/app/models"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a plain decoded document: nested documents are Record (or
// map[string]interface{}), arrays are []interface{}.
type Record = map[string]interface{}

// Containers searched for batch fields, in order.
var batchContainers = [][]string{
	nil,
	{"lote"},
	{"cabecalho"},
	{"lote", "cabecalho"},
}

var itemContainers = [][]string{
	nil,
	{"cabecalho"},
}

var (
	batchIDAliases         = []string{"_id", "id", "lote_id", "loteId"}
	batchNumberAliases     = []string{"numero_lote", "numeroLote", "numero", "lote_numero"}
	payerNameAliases       = []string{"operadora_nome", "nome_operadora", "operadora.nome", "operadoraNome"}
	payerRegistryAliases   = []string{"operadora_registro_ans", "registro_ans", "operadora.registro_ans", "registroANS"}
	billingPeriodAliases   = []string{"competencia", "mes_competencia", "competenciaLote"}
	declaredTotalAliases   = []string{"valor_total", "valorTotal", "valor_total_lote"}
	declaredCountAliases   = []string{"quantidade_guias", "qtd_guias", "total_guias"}
	batchStatusAliases     = []string{"status", "situacao"}
	submittedAtAliases     = []string{"data_envio", "dataEnvio"}
	billingFileKeyAliases  = []string{"arquivo_xml", "arquivoXml", "xml_key"}
	itemIDAliases          = []string{"_id", "id"}
	itemBatchIDAliases     = []string{"lote_id", "loteId", "batch_id"}
	itemParentIDAliases    = []string{"parent_id", "parentId", "guia_id"}
	itemKindAliases        = []string{"tipo", "type", "kind"}
	itemCodeAliases        = []string{"codigo", "codigo_procedimento", "codigo_item"}
	itemDescriptionAliases = []string{"descricao", "descricao_procedimento", "descricao_item"}
	itemAmountAliases      = []string{"valor_total", "valor", "valor_item"}
	itemStatusAliases      = []string{"status_pagamento", "statusPagamento"}
	providerClaimAliases   = []string{"numero_guia_prestador", "numeroGuiaPrestador", "numero_guia"}
	payerClaimAliases      = []string{"numero_guia_operadora", "numeroGuiaOperadora"}
	cardNumberAliases      = []string{"numero_carteira", "numeroCarteira", "carteira"}
	authorizationAliases   = []string{"data_autorizacao", "dataAutorizacao"}
	executionAliases       = []string{"data_execucao", "dataExecucao"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// InvalidField names a field whose stored text is present but cannot be
// parsed. The normalized model carries the zero value for it.
type InvalidField struct {
	Field string
	Value string
}

// NormalizeBatch maps a stored batch document into a models.Batch. Each
// field takes the first non-empty value found across the containers and
// aliases.
func NormalizeBatch(raw Record) models.Batch {
	batch, _ := NormalizeBatchChecked(raw)
	return batch
}

// NormalizeBatchChecked is NormalizeBatch plus the fields that were present
// but unparseable.
func NormalizeBatchChecked(raw Record) (models.Batch, []InvalidField) {
	var invalid []InvalidField
	declaredTotal, ok := firstDecimal(raw, batchContainers, declaredTotalAliases)
	if !ok {
		invalid = append(invalid, InvalidField{
			Field: declaredTotalAliases[0],
			Value: firstString(raw, batchContainers, declaredTotalAliases),
		})
	}

	batch := models.Batch{
		ID:              firstString(raw, batchContainers, batchIDAliases),
		BatchNumber:     firstString(raw, batchContainers, batchNumberAliases),
		PayerName:       firstString(raw, batchContainers, payerNameAliases),
		PayerRegistryID: firstString(raw, batchContainers, payerRegistryAliases),
		DeclaredTotal:   declaredTotal,
		Status:          models.BatchStatus(strings.ToLower(firstString(raw, batchContainers, batchStatusAliases))),
		SubmittedAt:     firstTime(raw, batchContainers, submittedAtAliases),
		BillingFileKey:  firstString(raw, batchContainers, billingFileKeyAliases),
	}

	period := firstString(raw, batchContainers, billingPeriodAliases)
	if normalized, err := models.ParseBillingPeriod(period); err == nil {
		period = normalized
	}
	batch.BillingPeriod = period

	if text := firstString(raw, batchContainers, declaredCountAliases); text != "" {
		if count, err := strconv.Atoi(text); err == nil {
			batch.DeclaredClaimCount = count
		} else {
			invalid = append(invalid, InvalidField{Field: declaredCountAliases[0], Value: text})
		}
	}
	return batch, invalid
}

// NormalizeItem maps a stored item document into a models.Item.
func NormalizeItem(raw Record) models.Item {
	item, _ := NormalizeItemChecked(raw)
	return item
}

// NormalizeItemChecked is NormalizeItem plus the fields that were present
// but unparseable.
func NormalizeItemChecked(raw Record) (models.Item, []InvalidField) {
	var invalid []InvalidField
	amount, ok := firstDecimal(raw, itemContainers, itemAmountAliases)
	if !ok {
		invalid = append(invalid, InvalidField{
			Field: itemAmountAliases[0],
			Value: firstString(raw, itemContainers, itemAmountAliases),
		})
	}

	item := models.Item{
		ID:                    firstString(raw, itemContainers, itemIDAliases),
		BatchID:               firstString(raw, itemContainers, itemBatchIDAliases),
		ParentID:              firstString(raw, itemContainers, itemParentIDAliases),
		Kind:                  models.ItemKind(strings.ToLower(firstString(raw, itemContainers, itemKindAliases))),
		Code:                  firstString(raw, itemContainers, itemCodeAliases),
		Description:           firstString(raw, itemContainers, itemDescriptionAliases),
		Amount:                amount,
		PaymentStatus:         models.PaymentStatus(strings.ToLower(firstString(raw, itemContainers, itemStatusAliases))),
		ProviderClaimNumber:   firstString(raw, itemContainers, providerClaimAliases),
		PayerClaimNumber:      firstString(raw, itemContainers, payerClaimAliases),
		BeneficiaryCardNumber: firstString(raw, itemContainers, cardNumberAliases),
		AuthorizationDate:     firstTime(raw, itemContainers, authorizationAliases),
		ExecutionDate:         firstTime(raw, itemContainers, executionAliases),
	}
	return item, invalid
}

// ItemStatusPaths returns the dotted document paths an item payment status
// is read from, in resolution order. The first path is the canonical one.
func ItemStatusPaths() []string {
	paths := make([]string, 0, len(itemContainers)*len(itemStatusAliases))
	for _, container := range itemContainers {
		for _, alias := range itemStatusAliases {
			path := append(append([]string{}, container...), alias)
			paths = append(paths, strings.Join(path, "."))
		}
	}
	return paths
}

func firstString(raw Record, containers [][]string, aliases []string) string {
	for _, container := range containers {
		scope, ok := descend(raw, container)
		if !ok {
			continue
		}
		for _, alias := range aliases {
			value, ok := descend(scope, strings.Split(alias, "."))
			if !ok {
				continue
			}
			if text := stringify(value); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstDecimal reports false when a value is present but not a number.
func firstDecimal(raw Record, containers [][]string, aliases []string) (decimal.Decimal, bool) {
	text := firstString(raw, containers, aliases)
	if text == "" {
		return decimal.Zero, true
	}
	value, err := parseAmount(text)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// parseAmount accepts both "1.234,56" and "1,234.56". When both separators
// appear the last one is the decimal separator; a lone comma is decimal.
func parseAmount(text string) (decimal.Decimal, error) {
	text = strings.Trim(strings.TrimSpace(text), `"'`)
	text = strings.ReplaceAll(text, " ", "")

	lastDot := strings.LastIndex(text, ".")
	lastComma := strings.LastIndex(text, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	case lastComma >= 0 && lastDot < 0:
		text = strings.ReplaceAll(text, ",", ".")
	default:
		text = strings.ReplaceAll(text, ",", "")
	}
	return decimal.NewFromString(text)
}

func firstTime(raw Record, containers [][]string, aliases []string) *time.Time {
	for _, container := range containers {
		scope, ok := descend(raw, container)
		if !ok {
			continue
		}
		for _, alias := range aliases {
			value, ok := descend(scope, strings.Split(alias, "."))
			if !ok {
				continue
			}
			if parsed := toTime(value); parsed != nil {
				return parsed
			}
		}
	}
	return nil
}

// descend walks path through nested documents. An empty path returns the
// value itself.
func descend(value interface{}, path []string) (interface{}, bool) {
	current := value
	for _, key := range path {
		document, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = document[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

func toTime(value interface{}) *time.Time {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		return v
	case string:
		text := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return &parsed
			}
		}
	}
	return nil
}
