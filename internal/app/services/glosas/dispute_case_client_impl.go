// Package glosas is the HTTP client of the dispute (recurso de glosa)
// case-management service.
package glosas

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxErrorBodyBytes = 2048

var (
	disputeCaseClientInstance contracts.DisputeCaseClient
	onceDisputeCaseClient     sync.Once
)

type disputeCaseClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewDisputeCaseClient(baseUrl string, timeout time.Duration, logger *zap.Logger) contracts.DisputeCaseClient {
	onceDisputeCaseClient.Do(func() {
		disputeCaseClientInstance = newDisputeCaseClient(baseUrl, timeout, logger)
	})
	return disputeCaseClientInstance
}

func newDisputeCaseClient(baseUrl string, timeout time.Duration, logger *zap.Logger) *disputeCaseClient {
	return &disputeCaseClient{
		BaseUrl:    strings.TrimSuffix(baseUrl, "/") + constvars.GlosasResourceCases,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        logger,
	}
}

func (c *disputeCaseClient) CreateDispute(ctx context.Context, request models.DisputeRequest) (*models.DisputeCase, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("disputeCaseClient.CreateDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, request.ClaimID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
	)

	body, err := json.Marshal(request)
	if err != nil {
		c.Log.Error("disputeCaseClient.CreateDispute error marshaling request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewReader(body))
	if err != nil {
		c.Log.Error("disputeCaseClient.CreateDispute error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	c.setHeaders(req, requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("disputeCaseClient.CreateDispute error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err, constvars.CollaboratorCaseManagement)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		responseBody := readErrorBody(resp.Body)
		c.Log.Error("disputeCaseClient.CreateDispute unexpected response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.String(constvars.LoggingResponseKey, responseBody),
		)
		return nil, exceptions.ErrUnexpectedResponse(resp.StatusCode, responseBody, constvars.CollaboratorCaseManagement)
	}

	var disputeCase models.DisputeCase
	err = json.NewDecoder(resp.Body).Decode(&disputeCase)
	if err != nil {
		c.Log.Error("disputeCaseClient.CreateDispute error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.CollaboratorCaseManagement)
	}
	if disputeCase.ID == "" {
		c.Log.Error("disputeCaseClient.CreateDispute response without case id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrUnexpectedResponse(resp.StatusCode, "case id missing", constvars.CollaboratorCaseManagement)
	}

	c.Log.Info("disputeCaseClient.CreateDispute succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDisputeIDKey, disputeCase.ID),
	)
	return &disputeCase, nil
}

// FindDisputeByClaimID returns the most recent case of the claim. A 404 or an
// empty list means the claim has no case.
func (c *disputeCaseClient) FindDisputeByClaimID(ctx context.Context, batchID, claimID string) (*models.DisputeCase, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("disputeCaseClient.FindDisputeByClaimID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBatchIDKey, batchID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	query := url.Values{}
	query.Set("lote_id", batchID)
	query.Set("guia_id", claimID)
	endpoint := c.BaseUrl + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		c.Log.Error("disputeCaseClient.FindDisputeByClaimID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	c.setHeaders(req, requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("disputeCaseClient.FindDisputeByClaimID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err, constvars.CollaboratorCaseManagement)
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		c.Log.Info("disputeCaseClient.FindDisputeByClaimID no case found",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClaimIDKey, claimID),
		)
		return nil, nil
	}
	if resp.StatusCode != constvars.StatusOK {
		responseBody := readErrorBody(resp.Body)
		c.Log.Error("disputeCaseClient.FindDisputeByClaimID unexpected response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.String(constvars.LoggingResponseKey, responseBody),
		)
		return nil, exceptions.ErrUnexpectedResponse(resp.StatusCode, responseBody, constvars.CollaboratorCaseManagement)
	}

	var cases []models.DisputeCase
	err = json.NewDecoder(resp.Body).Decode(&cases)
	if err != nil {
		c.Log.Error("disputeCaseClient.FindDisputeByClaimID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.CollaboratorCaseManagement)
	}
	if len(cases) == 0 {
		return nil, nil
	}

	latest := cases[0]
	for _, candidate := range cases[1:] {
		if candidate.CreatedAt != nil && (latest.CreatedAt == nil || candidate.CreatedAt.After(*latest.CreatedAt)) {
			latest = candidate
		}
	}

	c.Log.Info("disputeCaseClient.FindDisputeByClaimID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDisputeIDKey, latest.ID),
	)
	return &latest, nil
}

func (c *disputeCaseClient) setHeaders(req *http.Request, requestID string) {
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}
}

func readErrorBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
