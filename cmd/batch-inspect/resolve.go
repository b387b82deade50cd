package main

import (
	"fmt"

	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/app/services/billing/disputes"
	"oncobilling-service/internal/pkg/utils"

	"github.com/spf13/cobra"
)

var claimNumber string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Look a claim up by its number and print the dispute payload it would produce",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&claimNumber, "number", "", "Claim number (numero_guia_prestador)")
	_ = resolveCmd.MarkFlagRequired("number")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	log := newLogger()

	inspected, err := loadInspection(log)
	if err != nil {
		log.WithError(err).Error("inspection failed")
		return err
	}

	request, err := resolveDispute(inspected, claimNumber)
	if err != nil {
		log.WithError(err).Error("claim cannot be disputed")
		return err
	}
	return writeJSON(cmd.OutOrStdout(), request)
}

// resolveDispute builds the payload a dispute for claimNumber would carry.
// It fails the same way the service does when the batch context is
// incomplete.
func resolveDispute(inspected *inspection, number string) (models.DisputeRequest, error) {
	claim, ok := findClaim(inspected, number)
	if !ok {
		return models.DisputeRequest{}, fmt.Errorf("claim number %q not found in batch %s", number, inspected.Result.BatchID)
	}

	snapshot, err := disputes.BuildSnapshot(inspected.Batch, inspected.Result.BatchID, claim)
	if err != nil {
		return models.DisputeRequest{}, err
	}
	return disputes.BuildRequest(claim, nil, snapshot), nil
}

// findClaim tries the claim index, then scans the claims by normalized and
// finally by exact number.
func findClaim(inspected *inspection, number string) (*models.Claim, bool) {
	if claim, ok := inspected.Result.LookupClaim(number); ok {
		return claim, true
	}

	claims := inspected.Result.Claims
	normalized := utils.NormalizeClaimNumber(number)
	if normalized != "" {
		for i := range claims {
			if utils.NormalizeClaimNumber(claims[i].ProviderClaimNumber) == normalized {
				return &claims[i], true
			}
		}
	}
	for i := range claims {
		if claims[i].ProviderClaimNumber != "" && claims[i].ProviderClaimNumber == number {
			return &claims[i], true
		}
	}
	return nil, false
}
