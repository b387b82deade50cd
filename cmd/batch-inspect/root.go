package main

import (
	"fmt"
	"io"
	"os"

	"oncobilling-service/internal/app/drivers/logger"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/aggregation"
	"oncobilling-service/internal/app/services/billing/batchshape"
	"oncobilling-service/internal/app/services/billing/classification"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type inspectOptions struct {
	ItemsPath     string `validate:"required"`
	BatchID       string
	BillingPeriod string `validate:"competencia"`
	Format        string `validate:"oneof=text json"`
	LogLevel      string
}

var opts inspectOptions

var rootCmd = &cobra.Command{
	Use:           "batch-inspect",
	Short:         "Inspect a billing batch item list offline",
	Long:          "Reads the flat item list of a batch (JSON) and rebuilds the claim tree, category subtotals and claim-number index the service would compute.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.ItemsPath, "items", "", "Path to the JSON item list, or - for stdin")
	pf.StringVar(&opts.BatchID, "batch-id", "", "Batch ID (defaults to the lote_id of the first item)")
	pf.StringVar(&opts.BillingPeriod, "competencia", "", "Billing period (YYYYMM) to check against the batch header")
	pf.StringVar(&opts.Format, "format", "text", "Output format: text or json")
	pf.StringVar(&opts.LogLevel, "log-level", utils.GetEnvString("LOGGER_LEVEL", "info"), "Log level")
	_ = rootCmd.MarkPersistentFlagRequired("items")
}

// inspection is the batch file after normalization and reconstruction.
type inspection struct {
	Batch  *models.Batch     `json:"lote,omitempty"`
	Result *hierarchy.Result `json:"hierarquia"`
}

func newLogger() *logrus.Logger {
	return logger.NewLogrusLogger(utils.GetEnvString("APP_ENV", "development"), opts.LogLevel)
}

func loadInspection(log *logrus.Logger) (*inspection, error) {
	if err := utils.ValidateStruct(&opts); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	raw, err := readInput(opts.ItemsPath)
	if err != nil {
		return nil, err
	}

	batch, items, err := decodeBatchFile(raw)
	if err != nil {
		return nil, err
	}

	batchID := opts.BatchID
	if batchID == "" && batch != nil {
		batchID = batch.ID
	}
	if batchID == "" && len(items) > 0 {
		batchID = items[0].BatchID
	}
	if opts.BillingPeriod != "" && batch != nil {
		wanted, _ := models.ParseBillingPeriod(opts.BillingPeriod)
		if batch.BillingPeriod != wanted {
			log.WithFields(logrus.Fields{
				"batch_id":  batchID,
				"expected":  wanted,
				"in_header": batch.BillingPeriod,
			}).Warn("competencia differs from the batch header")
		}
	}

	zapLogger := zap.NewNop()
	if log.IsLevelEnabled(logrus.DebugLevel) {
		zapLogger, _ = zap.NewDevelopment()
	}
	reconstructor := hierarchy.NewReconstructor(classification.NewDefaultClassifier(), aggregation.NewAggregator(), zapLogger)
	result := reconstructor.Reconstruct(batchID, items)

	log.WithFields(logrus.Fields{
		"batch_id": batchID,
		"items":    len(items),
		"claims":   len(result.Claims),
		"orphans":  len(result.Orphans),
	}).Info("batch reconstructed")
	for _, orphan := range result.Orphans {
		log.WithFields(logrus.Fields{
			"item_id":   orphan.ID,
			"parent_id": orphan.ParentID,
		}).Warn("orphan item")
	}

	return &inspection{Batch: batch, Result: result}, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// decodeBatchFile accepts either a bare item array or an object carrying the
// batch header next to an "itens" array.
func decodeBatchFile(raw []byte) (*models.Batch, []models.Item, error) {
	var records []batchshape.Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return nil, normalizeItems(records), nil
	}

	var document batchshape.Record
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, nil, fmt.Errorf("decode batch file: %w", err)
	}

	rawItems, _ := document["itens"].([]interface{})
	records = make([]batchshape.Record, 0, len(rawItems))
	for _, rawItem := range rawItems {
		if record, ok := rawItem.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}

	batch := batchshape.NormalizeBatch(document)
	return &batch, normalizeItems(records), nil
}

func normalizeItems(records []batchshape.Record) []models.Item {
	items := make([]models.Item, 0, len(records))
	for _, record := range records {
		items = append(items, batchshape.NormalizeItem(record))
	}
	return items
}
