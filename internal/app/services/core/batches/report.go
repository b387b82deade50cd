package batches

import (
	"io"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/hierarchy"

	"github.com/xuri/excelize/v2"
)

const (
	reportClaimsSheet  = "Guias"
	reportOrphansSheet = "Itens orfaos"
	reportMoneyFormat  = "#,##0.00"
)

var reportClaimsHeader = []interface{}{
	"Guia", "Numero guia prestador", "Numero guia operadora", "Carteira",
	"Valor declarado", "Procedimentos", "Medicamentos", "Materiais", "Taxas",
	"Subtotais estimados", "Status pagamento",
}

var reportOrphansHeader = []interface{}{
	"Item", "Guia informada", "Codigo", "Descricao", "Valor",
}

// writeBatchReport writes one row per claim and, when present, a second sheet
// with the orphan items.
func writeBatchReport(batch *models.Batch, result *hierarchy.Result, output io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportClaimsSheet); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Lote " + batch.BatchNumber,
		Subject: batch.BillingPeriod,
		Creator: "oncobilling-service",
	}); err != nil {
		return err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPointer(reportMoneyFormat)})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, reportClaimsSheet, 1, reportClaimsHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(reportClaimsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, claim := range result.Claims {
		row := []interface{}{
			claim.ID,
			claim.ProviderClaimNumber,
			claim.PayerClaimNumber,
			claim.BeneficiaryCardNumber,
			claim.DeclaredTotal.InexactFloat64(),
			claim.Subtotals.Procedure.InexactFloat64(),
			claim.Subtotals.Medication.InexactFloat64(),
			claim.Subtotals.Material.InexactFloat64(),
			claim.Subtotals.Fee.InexactFloat64(),
			yesNo(claim.Subtotals.Estimated),
			string(claim.PaymentStatus),
		}
		if err := writeRow(f, reportClaimsSheet, i+2, row); err != nil {
			return err
		}
	}
	if len(result.Claims) > 0 {
		if err := f.SetCellStyle(reportClaimsSheet, "E2", cellName(9, len(result.Claims)+1), moneyStyle); err != nil {
			return err
		}
	}

	if len(result.Orphans) > 0 {
		if _, err := f.NewSheet(reportOrphansSheet); err != nil {
			return err
		}
		if err := writeRow(f, reportOrphansSheet, 1, reportOrphansHeader); err != nil {
			return err
		}
		for i, item := range result.Orphans {
			row := []interface{}{item.ID, item.ParentID, item.Code, item.Description, item.Amount.InexactFloat64()}
			if err := writeRow(f, reportOrphansSheet, i+2, row); err != nil {
				return err
			}
		}
	}

	return f.Write(output)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	return f.SetSheetRow(sheet, cellName(1, row), &values)
}

func cellName(column, row int) string {
	name, _ := excelize.CoordinatesToCellName(column, row)
	return name
}

func yesNo(value bool) string {
	if value {
		return "sim"
	}
	return "nao"
}

func stringPointer(value string) *string {
	return &value
}
