package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"oncobilling-service/internal/app/config"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/dto/requests"
	"oncobilling-service/internal/pkg/exceptions"
	"oncobilling-service/internal/pkg/utils"
	"path"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type BatchController struct {
	Log            *zap.Logger
	BatchUsecase   contracts.BatchUsecase
	InternalConfig *config.InternalConfig
}

var (
	batchControllerInstance *BatchController
	onceBatchController     sync.Once
)

func NewBatchController(logger *zap.Logger, batchUsecase contracts.BatchUsecase, internalConfig *config.InternalConfig) *BatchController {
	onceBatchController.Do(func() {
		instance := &BatchController{
			Log:            logger,
			BatchUsecase:   batchUsecase,
			InternalConfig: internalConfig,
		}
		batchControllerInstance = instance
	})
	return batchControllerInstance
}

func (ctrl *BatchController) GetBatchClaims(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.GetBatchClaims requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.GetBatchClaims called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.ReconstructHierarchy(ctx, batchID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.GetBatchClaims", requestID, err)
		return
	}

	ctrl.Log.Info("BatchController.GetBatchClaims succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingClaimCountKey, response.ClaimCount),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBatchClaimsSuccessMessage, response)
}

func (ctrl *BatchController) GetBatchSummary(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.GetBatchSummary requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.GetBatchSummary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.GetBatchSummary(ctx, batchID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.GetBatchSummary", requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBatchSummarySuccessMessage, response)
}

func (ctrl *BatchController) ReconcileBatch(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.ReconcileBatch requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.ReconcileBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.ReconcileBatch(ctx, batchID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.ReconcileBatch", requestID, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "batch_reconciled", requestID,
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.Int(constvars.LoggingClaimCountKey, response.ClaimCount),
		zap.Int(constvars.LoggingOrphanCountKey, len(response.Orphans)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReconcileBatchSuccessMessage, response)
}

func (ctrl *BatchController) ResolveClaim(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.ResolveClaim requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := &requests.ResolveClaim{
		BatchID:     chi.URLParam(r, constvars.URLParamBatchID),
		ClaimNumber: r.URL.Query().Get(constvars.QueryParamClaimNumber),
	}
	ctrl.Log.Info("BatchController.ResolveClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, request.BatchID),
		zap.String(constvars.LoggingClaimNumberKey, request.ClaimNumber),
	)

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("BatchController.ResolveClaim validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.ResolveClaimForDispute(ctx, request.BatchID, request.ClaimNumber)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.ResolveClaim", requestID, err)
		return
	}

	ctrl.Log.Info("BatchController.ResolveClaim succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, response.Claim.ID),
		zap.String("resolved_from", response.ResolvedFrom),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResolveClaimSuccessMessage, response)
}

func (ctrl *BatchController) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.TransitionStatus requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.TransitionStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	request := new(requests.StatusTransition)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("BatchController.TransitionStatus error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("BatchController.TransitionStatus validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.TransitionStatus(ctx, batchID, request)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.TransitionStatus", requestID, err)
		return
	}

	fields := []zap.Field{
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingTargetKindKey, string(response.TargetKind)),
		zap.String(constvars.LoggingTargetIDKey, response.TargetID),
		zap.String(constvars.LoggingPreviousStatusKey, string(response.PreviousStatus)),
		zap.String(constvars.LoggingNewStatusKey, string(response.NewStatus)),
	}
	if response.Dispute != nil {
		fields = append(fields, zap.String(constvars.LoggingDisputeIDKey, response.Dispute.ID))
	}
	utils.LogBusinessEvent(ctrl.Log, "payment_status_changed", requestID, fields...)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TransitionStatusSuccessMessage, response)
}

func (ctrl *BatchController) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.UploadAttachment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	target := attachmentTargetFromURL(r)
	ctrl.Log.Info("BatchController.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, target.BatchID),
		zap.String(constvars.LoggingTargetKindKey, target.TargetKind),
		zap.String(constvars.LoggingTargetIDKey, target.TargetID),
	)

	if err := utils.ValidateStruct(target); err != nil {
		ctrl.Log.Error("BatchController.UploadAttachment validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	maxSizeInMB := ctrl.InternalConfig.Billing.AttachmentMaxUploadSizeInMB
	r.Body = http.MaxBytesReader(w, r.Body, maxSizeInMB*1024*1024+1024*1024)
	if err := r.ParseMultipartForm(maxSizeInMB * 1024 * 1024); err != nil {
		ctrl.Log.Error("BatchController.UploadAttachment error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrFileTooLarge(maxSizeInMB))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	file, fileHeader, err := r.FormFile(constvars.FormFieldAttachmentFile)
	if err != nil {
		ctrl.Log.Error("BatchController.UploadAttachment error reading form file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.UploadAttachment(ctx, target.BatchID, models.TargetKind(target.TargetKind), target.TargetID, file, fileHeader)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.UploadAttachment", requestID, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "supporting_document_uploaded", requestID,
		zap.String(constvars.LoggingBatchIDKey, target.BatchID),
		zap.String(constvars.LoggingTargetIDKey, target.TargetID),
		zap.String(constvars.LoggingObjectNameKey, response.ObjectName),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UploadAttachmentSuccessMessage, response)
}

func (ctrl *BatchController) ListAttachments(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.ListAttachments requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	target := attachmentTargetFromURL(r)
	ctrl.Log.Info("BatchController.ListAttachments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, target.BatchID),
		zap.String(constvars.LoggingTargetIDKey, target.TargetID),
	)

	if err := utils.ValidateStruct(target); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.ListAttachments(ctx, target.BatchID, models.TargetKind(target.TargetKind), target.TargetID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.ListAttachments", requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ListAttachmentsSuccessMessage, response)
}

func (ctrl *BatchController) GetClaimDispute(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.GetClaimDispute requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	claimID := chi.URLParam(r, constvars.URLParamClaimID)
	ctrl.Log.Info("BatchController.GetClaimDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	response, err := ctrl.BatchUsecase.GetClaimDispute(ctx, batchID, claimID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.GetClaimDispute", requestID, err)
		return
	}

	if response == nil {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDisputeNotFoundMessage, nil)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDisputeSuccessMessage, response)
}

// GetBillingFile streams the original billing file of the batch.
func (ctrl *BatchController) GetBillingFile(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.GetBillingFile requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.GetBillingFile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	content, file, err := ctrl.BatchUsecase.GetBillingFile(ctx, batchID)
	if err != nil {
		ctrl.handleUsecaseError(w, "BatchController.GetBillingFile", requestID, err)
		return
	}
	defer content.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = constvars.MIMEApplicationXML
	}
	w.Header().Set(constvars.HeaderContentType, contentType)
	w.Header().Set(constvars.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(file.Name)))
	w.WriteHeader(constvars.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		ctrl.Log.Error("BatchController.GetBillingFile error streaming file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

// ExportReport renders the workbook in memory first so a failure can still
// be reported as a JSON error.
func (ctrl *BatchController) ExportReport(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BatchController.ExportReport requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	batchID := chi.URLParam(r, constvars.URLParamBatchID)
	ctrl.Log.Info("BatchController.ExportReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	var report bytes.Buffer
	if err := ctrl.BatchUsecase.ExportReport(ctx, batchID, &report); err != nil {
		ctrl.handleUsecaseError(w, "BatchController.ExportReport", requestID, err)
		return
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationXLSX)
	w.Header().Set(constvars.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf(constvars.BatchReportFileNameFormat, batchID)))
	w.WriteHeader(constvars.StatusOK)
	if _, err := report.WriteTo(w); err != nil {
		ctrl.Log.Error("BatchController.ExportReport error writing response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func (ctrl *BatchController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}

func (ctrl *BatchController) handleUsecaseError(w http.ResponseWriter, method, requestID string, err error) {
	ctrl.Log.Error(method+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

func attachmentTargetFromURL(r *http.Request) *requests.AttachmentTarget {
	return &requests.AttachmentTarget{
		BatchID:    chi.URLParam(r, constvars.URLParamBatchID),
		TargetKind: chi.URLParam(r, constvars.URLParamTargetKind),
		TargetID:   chi.URLParam(r, constvars.URLParamTargetID),
	}
}
