package routers

import (
	"oncobilling-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachBatchRoutes(router chi.Router, batchController *controllers.BatchController) {
	router.Route("/{batchID}", func(r chi.Router) {
		r.Get("/claims", batchController.GetBatchClaims)
		r.Get("/claims/resolve", batchController.ResolveClaim)
		r.Get("/claims/{claimID}/dispute", batchController.GetClaimDispute)
		r.Get("/summary", batchController.GetBatchSummary)
		r.Post("/reconcile", batchController.ReconcileBatch)
		r.Post("/status-transitions", batchController.TransitionStatus)
		r.Get("/billing-file", batchController.GetBillingFile)
		r.Get("/report.xlsx", batchController.ExportReport)
		r.Post("/{targetKind}/{targetID}/attachments", batchController.UploadAttachment)
		r.Get("/{targetKind}/{targetID}/attachments", batchController.ListAttachments)
	})
}
