package constvars

const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

const (
	MIMEApplicationJSON   = "application/json"
	MIMEApplicationXML    = "application/xml"
	MIMEOctetStream       = "application/octet-stream"
	MIMEMultipartFormData = "multipart/form-data"
	MIMEApplicationXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderAccept             = "Accept"
	HeaderAuthorization      = "Authorization"
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderXRequestID         = "X-Request-ID"
	HeaderXCSRFToken         = "X-CSRF-Token"
)

const (
	URLParamBatchID    = "batchID"
	URLParamClaimID    = "claimID"
	URLParamTargetKind = "targetKind"
	URLParamTargetID   = "targetID"

	QueryParamClaimNumber = "number"

	FormFieldAttachmentFile = "file"
)
