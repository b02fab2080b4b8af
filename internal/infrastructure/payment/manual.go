package payment

import (
	"context"
	"fmt"

	"bottega-backend/internal/domain"
	"bottega-backend/pkg/logger"

	"github.com/google/uuid"
)

// ManualProvider issues payment session references settled out of band
// (bank transfer, invoice). The session ID is the reference the back office
// reconciles against; no external gateway is involved.
type ManualProvider struct{}

func NewManualProvider() *ManualProvider {
	return &ManualProvider{}
}

func (p *ManualProvider) CreateShippingCheckout(ctx context.Context, line domain.ShippingLine) (string, error) {
	sessionID := fmt.Sprintf("pay_%s", uuid.New().String())
	logger.Get().Info().
		Str("session_id", sessionID).
		Int64("cost", line.Cost).
		Str("currency", line.Currency).
		Msg("Created manual shipping payment session")
	return sessionID, nil
}

func (p *ManualProvider) CreateRecurringCheckout(ctx context.Context, line domain.RecurringLine) (string, error) {
	sessionID := fmt.Sprintf("sub_%s", uuid.New().String())
	logger.Get().Info().
		Str("session_id", sessionID).
		Str("plan_id", line.PlanID).
		Str("zone", line.Zone).
		Str("cadence", line.Cadence).
		Int("quantity", line.Quantity).
		Msg("Created manual recurring payment session")
	return sessionID, nil
}
