package models

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pendente"
	PaymentStatusInAnalysis PaymentStatus = "em_analise"
	PaymentStatusPaid       PaymentStatus = "pago"
	PaymentStatusDisputed   PaymentStatus = "glosado"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusInAnalysis, PaymentStatusPaid, PaymentStatusDisputed:
		return true
	}
	return false
}

type TargetKind string

const (
	TargetKindClaim TargetKind = "guia"
	TargetKindItem  TargetKind = "item"
)

func (k TargetKind) IsValid() bool {
	return k == TargetKindClaim || k == TargetKindItem
}

// StatusCommand describes one requested payment status change. It is executed
// against the batch repository through a commit/rollback handle.
type StatusCommand struct {
	BatchID      string        `json:"lote_id"`
	TargetKind   TargetKind    `json:"target_kind"`
	TargetID     string        `json:"target_id"`
	NewStatus    PaymentStatus `json:"new_status"`
	Precondition Precondition  `json:"precondition"`
}

// Precondition is the state a command was validated against. ExpectedStatus
// is checked again at commit time to detect concurrent writers.
type Precondition struct {
	ExpectedStatus  PaymentStatus `json:"expected_status"`
	AttachmentCount int           `json:"attachment_count"`
	DisputeID       string        `json:"dispute_id,omitempty"`
}
