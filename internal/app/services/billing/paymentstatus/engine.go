// Package paymentstatus validates payment status transitions for claims and
// items.
package paymentstatus

import (
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/exceptions"
)

const (
	reasonUnknownStatus   = "unknown payment status"
	reasonUnknownTarget   = "unknown target kind"
	reasonDisputeTerminal = "disputed targets are resolved through their dispute case"
	reasonNoReturnPending = "pendente is only the initial status"
)

// Validate checks a command against the current status of its target.
// Attachments are only counted for pago. A valid glosado command still has to
// be executed together with the creation of its dispute case.
func Validate(current models.PaymentStatus, cmd models.StatusCommand) error {
	if current == "" {
		current = models.PaymentStatusPending
	}
	if !cmd.TargetKind.IsValid() {
		return exceptions.ErrInvalidTransition(string(current), string(cmd.NewStatus), reasonUnknownTarget)
	}
	if !cmd.NewStatus.IsValid() || !current.IsValid() {
		return exceptions.ErrInvalidTransition(string(current), string(cmd.NewStatus), reasonUnknownStatus)
	}
	if current == models.PaymentStatusDisputed {
		return exceptions.ErrInvalidTransition(string(current), string(cmd.NewStatus), reasonDisputeTerminal)
	}

	switch cmd.NewStatus {
	case models.PaymentStatusPending:
		return exceptions.ErrInvalidTransition(string(current), string(cmd.NewStatus), reasonNoReturnPending)
	case models.PaymentStatusPaid:
		if cmd.Precondition.AttachmentCount < 1 {
			return exceptions.ErrAttachmentRequired(cmd.TargetID)
		}
	}
	return nil
}

// RequiresDispute reports whether executing cmd has to open a dispute case.
func RequiresDispute(cmd models.StatusCommand) bool {
	return cmd.NewStatus == models.PaymentStatusDisputed
}
