package batches

import (
	"context"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/batchshape"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	fieldID              = "_id"
	fieldItemBatchID     = "lote_id"
	fieldPaymentStatus   = "status_pagamento"
	fieldStatusUpdatedAt = "status_pagamento_atualizado_em"
)

type BatchMongoRepository struct {
	Batches *mongo.Collection
	Items   *mongo.Collection
	Log     *zap.Logger
}

func NewBatchMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.BatchRepository {
	return &BatchMongoRepository{
		Batches: db.Collection(constvars.MongoCollectionBatches),
		Items:   db.Collection(constvars.MongoCollectionBatchItems),
		Log:     logger,
	}
}

func (r *BatchMongoRepository) FindBatchByID(ctx context.Context, batchID string) (*models.Batch, error) {
	var raw bson.M
	err := r.Batches.FindOne(ctx, bson.M{fieldID: bson.M{"$in": idCandidates(batchID)}}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	batch, invalid := batchshape.NormalizeBatchChecked(plainDocument(raw))
	if batch.ID == "" {
		batch.ID = batchID
	}
	r.warnInvalidFields(ctx, "batch", batch.ID, invalid)
	return &batch, nil
}

// FindItemsByBatchID returns the flat item list in insertion order.
func (r *BatchMongoRepository) FindItemsByBatchID(ctx context.Context, batchID string) ([]models.Item, error) {
	filter := bson.M{fieldItemBatchID: bson.M{"$in": idCandidates(batchID)}}
	findOptions := options.Find().SetSort(bson.D{{Key: fieldID, Value: 1}})

	cursor, err := r.Items.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, exceptions.ErrMongoDBDecodeDocument(err)
		}
		item, invalid := batchshape.NormalizeItemChecked(plainDocument(raw))
		if item.BatchID == "" {
			item.BatchID = batchID
		}
		r.warnInvalidFields(ctx, "item", item.ID, invalid)
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return items, nil
}

// warnInvalidFields logs stored values that normalized to zero because they
// could not be parsed.
func (r *BatchMongoRepository) warnInvalidFields(ctx context.Context, kind, recordID string, invalid []batchshape.InvalidField) {
	if len(invalid) == 0 {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	for _, field := range invalid {
		r.Log.Warn("BatchMongoRepository unparseable stored value",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("record_kind", kind),
			zap.String("record_id", recordID),
			zap.String("field", field.Field),
			zap.String("value", field.Value),
		)
	}
}

func (r *BatchMongoRepository) PrepareStatusChange(ctx context.Context, cmd models.StatusCommand) (contracts.StatusTransaction, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("BatchMongoRepository.PrepareStatusChange called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, cmd.BatchID),
		zap.String(constvars.LoggingTargetIDKey, cmd.TargetID),
		zap.String(constvars.LoggingNewStatusKey, string(cmd.NewStatus)),
	)
	return &statusTransaction{repo: r, cmd: cmd}, nil
}

// statusTransaction writes the new status only while the stored status still
// equals the expected one, and can undo its own write the same way. The
// precondition reads the status the way batchshape does: first non-blank
// alias, case-insensitive. Writes normalize it to the canonical field and
// drop the aliases.
type statusTransaction struct {
	repo      *BatchMongoRepository
	cmd       models.StatusCommand
	committed bool
}

func (tx *statusTransaction) Commit(ctx context.Context) error {
	filter := tx.targetFilter(tx.cmd.Precondition.ExpectedStatus)
	update := statusUpdate(tx.cmd.NewStatus)

	result, err := tx.repo.Items.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConcurrentStatusChange(tx.cmd.TargetID)
	}
	tx.committed = true
	return nil
}

func (tx *statusTransaction) Rollback(ctx context.Context) error {
	if !tx.committed {
		return nil
	}

	filter := tx.targetFilter(tx.cmd.NewStatus)
	update := statusUpdate(tx.cmd.Precondition.ExpectedStatus)

	result, err := tx.repo.Items.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConcurrentStatusChange(tx.cmd.TargetID)
	}
	tx.committed = false
	return nil
}

func (tx *statusTransaction) targetFilter(status models.PaymentStatus) bson.M {
	return bson.M{
		fieldID:          bson.M{"$in": idCandidates(tx.cmd.TargetID)},
		fieldItemBatchID: bson.M{"$in": idCandidates(tx.cmd.BatchID)},
		"$or":            statusCondition(status),
	}
}

var blankStatus = bson.M{"$in": bson.A{nil, primitive.Regex{Pattern: `^\s*$`}}}

// statusCondition matches an item whose first non-blank status alias equals
// status, ignoring case. A missing or blank status is pendente.
func statusCondition(status models.PaymentStatus) bson.A {
	if status == "" {
		status = models.PaymentStatusPending
	}
	match := primitive.Regex{Pattern: `^\s*` + regexp.QuoteMeta(string(status)) + `\s*$`, Options: "i"}

	paths := batchshape.ItemStatusPaths()
	alternatives := bson.A{}
	for i, path := range paths {
		alternative := bson.M{path: match}
		for _, earlier := range paths[:i] {
			alternative[earlier] = blankStatus
		}
		alternatives = append(alternatives, alternative)
	}
	if status == models.PaymentStatusPending {
		unset := bson.M{}
		for _, path := range paths {
			unset[path] = blankStatus
		}
		alternatives = append(alternatives, unset)
	}
	return alternatives
}

// statusUpdate writes status to the canonical field and removes the aliases
// so later reads resolve to it.
func statusUpdate(status models.PaymentStatus) bson.M {
	update := bson.M{"$set": bson.M{
		fieldPaymentStatus:   string(status),
		fieldStatusUpdatedAt: time.Now().UTC(),
	}}
	aliases := bson.M{}
	for _, path := range batchshape.ItemStatusPaths() {
		if path != fieldPaymentStatus {
			aliases[path] = ""
		}
	}
	if len(aliases) > 0 {
		update["$unset"] = aliases
	}
	return update
}

// idCandidates matches IDs stored either as strings or as ObjectIDs.
func idCandidates(id string) bson.A {
	candidates := bson.A{id}
	if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, objectID)
	}
	return candidates
}

// plainDocument converts driver types into the plain values batchshape
// understands.
func plainDocument(document bson.M) batchshape.Record {
	record := make(batchshape.Record, len(document))
	for key, value := range document {
		record[key] = plainValue(value)
	}
	return record
}

func plainValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return plainDocument(v)
	case bson.D:
		return plainDocument(v.Map())
	case map[string]interface{}:
		return plainDocument(bson.M(v))
	case bson.A:
		values := make([]interface{}, len(v))
		for i, element := range v {
			values[i] = plainValue(element)
		}
		return values
	case primitive.ObjectID:
		return v.Hex()
	case primitive.Decimal128:
		return v.String()
	case primitive.DateTime:
		return v.Time().UTC()
	default:
		return v
	}
}
