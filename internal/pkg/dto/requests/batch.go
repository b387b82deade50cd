package requests

// StatusTransition asks for a payment status change on a claim (target_kind
// "guia") or an item. claim_number is the human-facing claim number and is
// required when opening a glosa. item_id, when sent, must repeat target_id.
type StatusTransition struct {
	TargetKind  string `json:"target_kind" validate:"required,oneof=guia item"`
	TargetID    string `json:"target_id" validate:"required"`
	NewStatus   string `json:"new_status" validate:"required,oneof=pendente em_analise pago glosado"`
	ClaimNumber string `json:"claim_number,omitempty" validate:"required_if=NewStatus glosado"`
	ItemID      string `json:"item_id,omitempty" validate:"omitempty,eqfield=TargetID"`
}

type ResolveClaim struct {
	BatchID     string `validate:"required"`
	ClaimNumber string `validate:"required"`
}

// AttachmentTarget is read from the URL of the attachment endpoints.
type AttachmentTarget struct {
	BatchID    string `validate:"required"`
	TargetKind string `validate:"required,oneof=guia item"`
	TargetID   string `validate:"required"`
}
