package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/pricing"
)

func newAdminUC(repo *fakeConfigRepo, archive ConfigArchiver) (*ConfigAdminUsecase, *ShippingUsecase) {
	shipping := newShippingUC(repo)
	return NewConfigAdminUsecase(repo, shipping, archive), shipping
}

func TestConfigAdmin_ReplaceValidCandidate(t *testing.T) {
	repo := &fakeConfigRepo{active: validConfig()}
	archive := &fakeArchiver{}
	uc, _ := newAdminUC(repo, archive)

	candidate := validConfig()
	candidate.ID = ""
	candidate.Domestic.StandardCost = 790

	stored, violations, err := uc.ReplaceConfiguration(context.Background(), candidate)
	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotNil(t, stored)

	assert.True(t, stored.IsActive)
	assert.Equal(t, int64(790), stored.Domestic.StandardCost)
	assert.Equal(t, stored, repo.active)

	// The retired version went to the archive.
	require.Len(t, archive.archived, 1)
	assert.Equal(t, "configs/cfg-1.json", archive.archived[0])
}

func TestConfigAdmin_InvalidCandidateLeavesActiveUntouched(t *testing.T) {
	active := validConfig()
	repo := &fakeConfigRepo{active: active}
	uc, _ := newAdminUC(repo, nil)

	candidate := validConfig()
	candidate.Tiers[1].LowerGrams = 1500 // gap after tier 0

	stored, violations, err := uc.ReplaceConfiguration(context.Background(), candidate)
	require.NoError(t, err)
	assert.Nil(t, stored)
	require.NotEmpty(t, violations)

	found := false
	for _, v := range violations {
		if v.Code == pricing.CodeNonContiguous {
			found = true
		}
	}
	assert.True(t, found, "expected a non-contiguous-tiers violation")

	// The previously active configuration remains in force.
	assert.Equal(t, active, repo.active)
	assert.Empty(t, repo.retired)
}

func TestConfigAdmin_ReplaceBustsReadCache(t *testing.T) {
	repo := &fakeConfigRepo{active: validConfig()}
	uc, shipping := newAdminUC(repo, nil)

	// Warm the storefront cache.
	out := shipping.Quote(context.Background(), pricing.QuoteInput{
		ZoneKey:          domain.ZoneEurope,
		TotalWeightGrams: 500,
		AllWeightsKnown:  true,
	})
	require.Equal(t, int64(500), out.Cost)

	candidate := validConfig()
	candidate.ID = ""
	candidate.WeightCosts[domain.ZoneEurope][0] = 650

	_, violations, err := uc.ReplaceConfiguration(context.Background(), candidate)
	require.NoError(t, err)
	require.Empty(t, violations)

	out = shipping.Quote(context.Background(), pricing.QuoteInput{
		ZoneKey:          domain.ZoneEurope,
		TotalWeightGrams: 500,
		AllWeightsKnown:  true,
	})
	assert.Equal(t, int64(650), out.Cost, "storefront must see the new configuration immediately")
}

func TestConfigAdmin_ArchiveFailureDoesNotBlockReplace(t *testing.T) {
	repo := &fakeConfigRepo{active: validConfig()}
	archive := &fakeArchiver{err: assert.AnError}
	uc, _ := newAdminUC(repo, archive)

	candidate := validConfig()
	candidate.ID = ""

	stored, violations, err := uc.ReplaceConfiguration(context.Background(), candidate)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.NotNil(t, stored)
}

func TestConfigAdmin_History(t *testing.T) {
	repo := &fakeConfigRepo{active: validConfig()}
	uc, _ := newAdminUC(repo, nil)

	for i := 0; i < 3; i++ {
		candidate := validConfig()
		candidate.ID = ""
		_, violations, err := uc.ReplaceConfiguration(context.Background(), candidate)
		require.NoError(t, err)
		require.Empty(t, violations)
	}

	history, err := uc.History(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	for _, cfg := range history {
		assert.False(t, cfg.IsActive)
	}
}
