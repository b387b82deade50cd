package batches

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"oncobilling-service/internal/app/config"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/aggregation"
	"oncobilling-service/internal/app/services/billing/classification"
	"oncobilling-service/internal/app/services/billing/hierarchy"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/dto/requests"
	"oncobilling-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*models.Batch, error) {
	args := m.Called(ctx, batchID)
	batch, _ := args.Get(0).(*models.Batch)
	return batch, args.Error(1)
}

func (m *MockBatchRepository) FindItemsByBatchID(ctx context.Context, batchID string) ([]models.Item, error) {
	args := m.Called(ctx, batchID)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

func (m *MockBatchRepository) PrepareStatusChange(ctx context.Context, cmd models.StatusCommand) (contracts.StatusTransaction, error) {
	args := m.Called(ctx, cmd)
	tx, _ := args.Get(0).(contracts.StatusTransaction)
	return tx, args.Error(1)
}

type MockStatusTransaction struct {
	mock.Mock
}

func (m *MockStatusTransaction) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStatusTransaction) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockHierarchyCache struct {
	mock.Mock
}

func (m *MockHierarchyCache) Get(ctx context.Context, batchID string) (*hierarchy.Result, error) {
	args := m.Called(ctx, batchID)
	result, _ := args.Get(0).(*hierarchy.Result)
	return result, args.Error(1)
}

func (m *MockHierarchyCache) Set(ctx context.Context, result *hierarchy.Result) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockHierarchyCache) Invalidate(ctx context.Context, batchID string) error {
	return m.Called(ctx, batchID).Error(0)
}

type MockLockerService struct {
	mock.Mock
}

func (m *MockLockerService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockLockerService) Unlock(ctx context.Context, key, lockValue string) error {
	return m.Called(ctx, key, lockValue).Error(0)
}

type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) UploadAttachment(ctx context.Context, objectPrefix string, file io.Reader, fileHeader *multipart.FileHeader) (*models.Attachment, error) {
	args := m.Called(ctx, objectPrefix, file, fileHeader)
	attachment, _ := args.Get(0).(*models.Attachment)
	return attachment, args.Error(1)
}

func (m *MockDocumentStorage) ListAttachments(ctx context.Context, objectPrefix string) ([]models.Attachment, error) {
	args := m.Called(ctx, objectPrefix)
	attachments, _ := args.Get(0).([]models.Attachment)
	return attachments, args.Error(1)
}

func (m *MockDocumentStorage) CountAttachments(ctx context.Context, objectPrefix string) (int, error) {
	args := m.Called(ctx, objectPrefix)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentStorage) GetBillingFile(ctx context.Context, objectName string) (io.ReadCloser, *models.StoredFile, error) {
	args := m.Called(ctx, objectName)
	content, _ := args.Get(0).(io.ReadCloser)
	file, _ := args.Get(1).(*models.StoredFile)
	return content, file, args.Error(2)
}

type MockDisputeCaseClient struct {
	mock.Mock
}

func (m *MockDisputeCaseClient) CreateDispute(ctx context.Context, request models.DisputeRequest) (*models.DisputeCase, error) {
	args := m.Called(ctx, request)
	disputeCase, _ := args.Get(0).(*models.DisputeCase)
	return disputeCase, args.Error(1)
}

func (m *MockDisputeCaseClient) FindDisputeByClaimID(ctx context.Context, batchID, claimID string) (*models.DisputeCase, error) {
	args := m.Called(ctx, batchID, claimID)
	disputeCase, _ := args.Get(0).(*models.DisputeCase)
	return disputeCase, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, event models.BillingStatusChangedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type usecaseMocks struct {
	repo      *MockBatchRepository
	cache     *MockHierarchyCache
	locker    *MockLockerService
	storage   *MockDocumentStorage
	disputes  *MockDisputeCaseClient
	publisher *MockEventPublisher
}

func (m usecaseMocks) assertExpectations(t *testing.T) {
	m.repo.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.locker.AssertExpectations(t)
	m.storage.AssertExpectations(t)
	m.disputes.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func testReconstructor() *hierarchy.Reconstructor {
	return hierarchy.NewReconstructor(classification.NewDefaultClassifier(), aggregation.NewAggregator(), zap.NewNop())
}

func newTestUsecase() (*batchUsecase, usecaseMocks) {
	mocks := usecaseMocks{
		repo:      new(MockBatchRepository),
		cache:     new(MockHierarchyCache),
		locker:    new(MockLockerService),
		storage:   new(MockDocumentStorage),
		disputes:  new(MockDisputeCaseClient),
		publisher: new(MockEventPublisher),
	}
	internalConfig := &config.InternalConfig{
		Billing: config.Billing{
			TransitionLockTTLInSeconds:  30,
			AttachmentMaxUploadSizeInMB: 1,
		},
	}
	uc := newBatchUsecase(
		mocks.repo,
		mocks.cache,
		mocks.locker,
		mocks.storage,
		mocks.disputes,
		mocks.publisher,
		testReconstructor(),
		internalConfig,
		zap.NewNop(),
	)
	return uc, mocks
}

func testBatch() *models.Batch {
	return &models.Batch{
		ID:                 "L1",
		BatchNumber:        "2024-0042",
		PayerName:          "Unimed Teste",
		PayerRegistryID:    "123456",
		BillingPeriod:      "2024-03",
		DeclaredTotal:      decimal.RequireFromString("1010"),
		DeclaredClaimCount: 2,
		Status:             models.BatchStatusSent,
		BillingFileKey:     "lotes/L1.xml",
	}
}

func testItems() []models.Item {
	return []models.Item{
		{ID: "G0", BatchID: "L1", Kind: models.ItemKindClaimHeader, ProviderClaimNumber: "FIRST-001", Amount: decimal.RequireFromString("10")},
		{ID: "G1", BatchID: "L1", Kind: models.ItemKindClaimHeader, ProviderClaimNumber: "ABC-123", Amount: decimal.RequireFromString("1000")},
		{ID: "I1", BatchID: "L1", ParentID: "G1", Kind: models.ItemKindProcedure, Code: "10101012", Description: "Consulta oncologica", Amount: decimal.RequireFromString("400")},
		{ID: "I2", BatchID: "L1", ParentID: "G1", Kind: models.ItemKindMedication, Code: "90123", Description: "Carboplatina", Amount: decimal.RequireFromString("600"), PaymentStatus: models.PaymentStatusDisputed},
		{ID: "I9", BatchID: "L1", ParentID: "G404", Kind: models.ItemKindMaterial, Code: "78000", Amount: decimal.RequireFromString("5")},
	}
}

func TestBatchUsecase_ReconstructHierarchy(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

	t.Run("builds claims and refreshes the claim index", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.MatchedBy(func(result *hierarchy.Result) bool {
			return result.BatchID == "L1" && len(result.Index) == 2
		})).Return(nil)

		response, err := uc.ReconstructHierarchy(ctx, "L1")

		require.NoError(t, err)
		assert.Equal(t, "2024-0042", response.Batch.BatchNumber)
		assert.Equal(t, 2, response.ClaimCount)
		assert.Equal(t, 3, response.ItemCount)
		require.Len(t, response.Orphans, 1)
		assert.Equal(t, "I9", response.Orphans[0].ID)
		mocks.assertExpectations(t)
	})

	t.Run("unknown batch", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L404").Return(nil, nil)

		_, err := uc.ReconstructHierarchy(ctx, "L404")

		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
		mocks.repo.AssertNotCalled(t, "FindItemsByBatchID", mock.Anything, mock.Anything)
	})

	t.Run("cache failure does not fail the load", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.Anything).Return(errors.New("redis down"))

		response, err := uc.ReconstructHierarchy(ctx, "L1")

		require.NoError(t, err)
		assert.Equal(t, 2, response.ClaimCount)
	})
}

func TestBatchUsecase_ReconcileBatch(t *testing.T) {
	ctx := context.Background()
	uc, mocks := newTestUsecase()
	mocks.cache.On("Invalidate", ctx, "L1").Return(nil)
	mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
	mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
	mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

	response, err := uc.ReconcileBatch(ctx, "L1")

	require.NoError(t, err)
	assert.Equal(t, 2, response.ClaimCount)
	mocks.assertExpectations(t)
}

func TestBatchUsecase_GetBatchSummary(t *testing.T) {
	ctx := context.Background()
	uc, mocks := newTestUsecase()
	mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
	mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
	mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

	summary, err := uc.GetBatchSummary(ctx, "L1")

	require.NoError(t, err)
	assert.True(t, summary.ClaimCountMatches)
	assert.True(t, summary.TotalMatches)
	assert.Equal(t, 1, summary.OrphanCount)
	assert.Equal(t, 1, summary.EstimatedClaimCount)
	assert.Equal(t, 2, summary.StatusCounts[models.PaymentStatusPending])
	assert.True(t, decimal.RequireFromString("400").Equal(summary.Subtotals.Procedure))
	assert.True(t, decimal.RequireFromString("606").Equal(summary.Subtotals.Medication))
}

func TestBatchUsecase_ResolveClaimForDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves from the cached index", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.cache.On("Get", ctx, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)

		resolved, err := uc.ResolveClaimForDispute(ctx, "L1", "abc123")

		require.NoError(t, err)
		assert.Equal(t, "G1", resolved.Claim.ID)
		assert.Equal(t, "index", resolved.ResolvedFrom)
		assert.Equal(t, "2024-0042", resolved.DisputeRequest.Batch.BatchNumber)
		assert.Equal(t, "1000.00", resolved.DisputeRequest.DisputedAmount)
		mocks.repo.AssertNotCalled(t, "FindItemsByBatchID", mock.Anything, mock.Anything)
	})

	t.Run("resolves after refetch when the index misses", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.cache.On("Get", ctx, "L1").Return(nil, nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

		resolved, err := uc.ResolveClaimForDispute(ctx, "L1", "ABC-123")

		require.NoError(t, err)
		assert.Equal(t, "G1", resolved.Claim.ID)
		assert.Equal(t, "refetch", resolved.ResolvedFrom)
		mocks.assertExpectations(t)
	})

	t.Run("unknown number never falls back to another claim", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.cache.On("Get", ctx, "L1").Return(nil, nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

		resolved, err := uc.ResolveClaimForDispute(ctx, "L1", "ZZZ-999")

		assert.Nil(t, resolved)
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})

	t.Run("incomplete batch context is rejected", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		batch := testBatch()
		batch.PayerRegistryID = ""
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(batch, nil)
		mocks.cache.On("Get", ctx, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)

		_, err := uc.ResolveClaimForDispute(ctx, "L1", "ABC-123")

		assert.True(t, exceptions.IsKind(err, exceptions.KindAmbiguousContext))
		assert.Contains(t, err.Error(), "operadora_registro_ans")
	})
}

func expectLock(mocks usecaseMocks, targetID string) {
	key := "billing:lock:L1:" + targetID
	mocks.locker.On("TryLock", mock.Anything, key, 30*time.Second).Return(true, "lock-token", nil)
	mocks.locker.On("Unlock", mock.Anything, key, "lock-token").Return(nil)
}

func expectFreshLoad(mocks usecaseMocks, batch *models.Batch) {
	mocks.repo.On("FindBatchByID", mock.Anything, "L1").Return(batch, nil)
	mocks.repo.On("FindItemsByBatchID", mock.Anything, "L1").Return(testItems(), nil)
}

func TestBatchUsecase_TransitionStatus(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-7")

	t.Run("glosado opens a dispute case and publishes the change", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		tx := new(MockStatusTransaction)
		expectLock(mocks, "G1")
		expectFreshLoad(mocks, testBatch())
		mocks.cache.On("Get", mock.Anything, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)
		mocks.repo.On("PrepareStatusChange", mock.Anything, mock.MatchedBy(func(cmd models.StatusCommand) bool {
			return cmd.TargetID == "G1" && cmd.Precondition.ExpectedStatus == models.PaymentStatusPending
		})).Return(tx, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		mocks.disputes.On("CreateDispute", mock.Anything, mock.MatchedBy(func(request models.DisputeRequest) bool {
			return request.ClaimID == "G1" && request.Batch.PayerRegistryID == "123456" && request.DisputedAmount == "1000.00"
		})).Return(&models.DisputeCase{ID: "RG-1", ClaimID: "G1", Status: "aberto"}, nil)
		mocks.cache.On("Invalidate", mock.Anything, "L1").Return(nil)
		mocks.publisher.On("PublishStatusChanged", mock.Anything, mock.MatchedBy(func(event models.BillingStatusChangedEvent) bool {
			return event.DisputeID == "RG-1" && event.RequestID == "req-7" && event.NewStatus == models.PaymentStatusDisputed
		})).Return(nil)

		response, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind:  "guia",
			TargetID:    "G1",
			NewStatus:   "glosado",
			ClaimNumber: "ABC-123",
		})

		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, response.PreviousStatus)
		require.NotNil(t, response.Dispute)
		assert.Equal(t, "RG-1", response.Dispute.ID)
		tx.AssertNotCalled(t, "Rollback", mock.Anything)
		mocks.assertExpectations(t)
	})

	t.Run("failed dispute creation rolls the status back", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		tx := new(MockStatusTransaction)
		expectLock(mocks, "I1")
		expectFreshLoad(mocks, testBatch())
		mocks.cache.On("Get", mock.Anything, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)
		mocks.repo.On("PrepareStatusChange", mock.Anything, mock.Anything).Return(tx, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		tx.On("Rollback", mock.Anything).Return(nil)
		mocks.disputes.On("CreateDispute", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		response, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind:  "item",
			TargetID:    "I1",
			NewStatus:   "glosado",
			ClaimNumber: "ABC-123",
			ItemID:      "I1",
		})

		assert.Nil(t, response)
		assert.True(t, exceptions.IsKind(err, exceptions.KindUpstreamUnavailable))
		tx.AssertExpectations(t)
		mocks.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		mocks.publisher.AssertNotCalled(t, "PublishStatusChanged", mock.Anything, mock.Anything)
	})

	t.Run("unresolvable batch context writes nothing", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		batch := testBatch()
		batch.BillingPeriod = ""
		expectLock(mocks, "G1")
		expectFreshLoad(mocks, batch)
		mocks.cache.On("Get", mock.Anything, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind:  "guia",
			TargetID:    "G1",
			NewStatus:   "glosado",
			ClaimNumber: "ABC-123",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindAmbiguousContext))
		mocks.repo.AssertNotCalled(t, "PrepareStatusChange", mock.Anything, mock.Anything)
		mocks.disputes.AssertNotCalled(t, "CreateDispute", mock.Anything, mock.Anything)
		mocks.locker.AssertExpectations(t)
	})

	t.Run("claim number naming another claim is rejected", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		expectLock(mocks, "G1")
		expectFreshLoad(mocks, testBatch())
		mocks.cache.On("Get", mock.Anything, "L1").Return(testReconstructor().Reconstruct("L1", testItems()), nil)

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind:  "guia",
			TargetID:    "G1",
			NewStatus:   "glosado",
			ClaimNumber: "FIRST-001",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindAmbiguousContext))
		mocks.repo.AssertNotCalled(t, "PrepareStatusChange", mock.Anything, mock.Anything)
	})

	t.Run("pago requires an attachment", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		expectLock(mocks, "G1")
		expectFreshLoad(mocks, testBatch())
		mocks.storage.On("CountAttachments", mock.Anything, "batches/L1/guia/G1/").Return(0, nil)

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "guia",
			TargetID:   "G1",
			NewStatus:  "pago",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
		mocks.repo.AssertNotCalled(t, "PrepareStatusChange", mock.Anything, mock.Anything)
		mocks.assertExpectations(t)
	})

	t.Run("glosado is terminal", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		expectLock(mocks, "I2")
		expectFreshLoad(mocks, testBatch())

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "item",
			TargetID:   "I2",
			NewStatus:  "em_analise",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
		mocks.repo.AssertNotCalled(t, "PrepareStatusChange", mock.Anything, mock.Anything)
	})

	t.Run("locked target", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.locker.On("TryLock", mock.Anything, "billing:lock:L1:G1", 30*time.Second).Return(false, "", nil)

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "guia",
			TargetID:   "G1",
			NewStatus:  "em_analise",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
		mocks.repo.AssertNotCalled(t, "FindBatchByID", mock.Anything, mock.Anything)
		mocks.locker.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown item", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		expectLock(mocks, "I404")
		expectFreshLoad(mocks, testBatch())

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "item",
			TargetID:   "I404",
			NewStatus:  "em_analise",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})

	t.Run("event failure does not fail the transition", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		tx := new(MockStatusTransaction)
		expectLock(mocks, "I1")
		expectFreshLoad(mocks, testBatch())
		mocks.repo.On("PrepareStatusChange", mock.Anything, mock.Anything).Return(tx, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		mocks.cache.On("Invalidate", mock.Anything, "L1").Return(nil)
		mocks.publisher.On("PublishStatusChanged", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

		response, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "item",
			TargetID:   "I1",
			NewStatus:  "em_analise",
		})

		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusInAnalysis, response.NewStatus)
		assert.Nil(t, response.Dispute)
		mocks.disputes.AssertNotCalled(t, "CreateDispute", mock.Anything, mock.Anything)
	})

	t.Run("concurrent change surfaces the commit error", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		tx := new(MockStatusTransaction)
		expectLock(mocks, "I1")
		expectFreshLoad(mocks, testBatch())
		mocks.repo.On("PrepareStatusChange", mock.Anything, mock.Anything).Return(tx, nil)
		tx.On("Commit", mock.Anything).Return(exceptions.ErrConcurrentStatusChange("I1"))

		_, err := uc.TransitionStatus(ctx, "L1", &requests.StatusTransition{
			TargetKind: "item",
			TargetID:   "I1",
			NewStatus:  "em_analise",
		})

		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
		mocks.publisher.AssertNotCalled(t, "PublishStatusChanged", mock.Anything, mock.Anything)
	})
}

func TestBatchUsecase_Attachments(t *testing.T) {
	ctx := context.Background()

	t.Run("upload stores under the target prefix", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		header := &multipart.FileHeader{Filename: "comprovante.pdf", Size: 1024}
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.Anything).Return(nil)
		mocks.storage.On("UploadAttachment", ctx, "batches/L1/item/I1/", mock.Anything, header).
			Return(&models.Attachment{ObjectName: "batches/L1/item/I1/x.pdf", OriginalName: "comprovante.pdf"}, nil)
		mocks.storage.On("CountAttachments", ctx, "batches/L1/item/I1/").Return(1, nil)

		response, err := uc.UploadAttachment(ctx, "L1", models.TargetKindItem, "I1", nil, header)

		require.NoError(t, err)
		assert.Equal(t, "comprovante.pdf", response.OriginalName)
		assert.Equal(t, 1, response.AttachmentCount)
		mocks.assertExpectations(t)
	})

	t.Run("upload over the size limit", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		header := &multipart.FileHeader{Filename: "big.pdf", Size: 2 * 1024 * 1024}

		_, err := uc.UploadAttachment(ctx, "L1", models.TargetKindItem, "I1", nil, header)

		require.Error(t, err)
		mocks.repo.AssertNotCalled(t, "FindBatchByID", mock.Anything, mock.Anything)
	})

	t.Run("list for an unknown claim", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
		mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

		_, err := uc.ListAttachments(ctx, "L1", models.TargetKindClaim, "G404")

		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
		mocks.storage.AssertNotCalled(t, "ListAttachments", mock.Anything, mock.Anything)
	})
}

func TestBatchUsecase_GetBillingFile(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the stored file", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.storage.On("GetBillingFile", ctx, "lotes/L1.xml").
			Return(io.NopCloser(bytes.NewBufferString("<lote/>")), &models.StoredFile{Name: "lotes/L1.xml"}, nil)

		content, file, err := uc.GetBillingFile(ctx, "L1")

		require.NoError(t, err)
		defer content.Close()
		assert.Equal(t, "lotes/L1.xml", file.Name)
	})

	t.Run("missing object", func(t *testing.T) {
		uc, mocks := newTestUsecase()
		mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
		mocks.storage.On("GetBillingFile", ctx, "lotes/L1.xml").Return(nil, nil, nil)

		_, _, err := uc.GetBillingFile(ctx, "L1")

		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})
}

func TestBatchUsecase_GetClaimDispute(t *testing.T) {
	ctx := context.Background()
	uc, mocks := newTestUsecase()
	mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
	mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
	mocks.cache.On("Set", ctx, mock.Anything).Return(nil)
	mocks.disputes.On("FindDisputeByClaimID", ctx, "L1", "G0").Return(nil, nil)
	mocks.disputes.On("FindDisputeByClaimID", ctx, "L1", "G1").Return(&models.DisputeCase{ID: "RG-1", ClaimID: "G1"}, nil)

	dispute, err := uc.GetClaimDispute(ctx, "L1", "G0")
	require.NoError(t, err)
	assert.Nil(t, dispute)

	dispute, err = uc.GetClaimDispute(ctx, "L1", "G1")
	require.NoError(t, err)
	assert.Equal(t, "RG-1", dispute.ID)

	_, err = uc.GetClaimDispute(ctx, "L1", "G404")
	assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
}

func TestBatchUsecase_ExportReport(t *testing.T) {
	ctx := context.Background()
	uc, mocks := newTestUsecase()
	mocks.repo.On("FindBatchByID", ctx, "L1").Return(testBatch(), nil)
	mocks.repo.On("FindItemsByBatchID", ctx, "L1").Return(testItems(), nil)
	mocks.cache.On("Set", ctx, mock.Anything).Return(nil)

	var output bytes.Buffer
	err := uc.ExportReport(ctx, "L1", &output)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(&output)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(reportClaimsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ABC-123", rows[2][1])

	orphans, err := workbook.GetRows(reportOrphansSheet)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)
}
