package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottega-backend/internal/domain"
)

func codes(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Code
	}
	return out
}

func TestValidateConfiguration_ValidCandidate(t *testing.T) {
	vs := ValidateConfiguration(testConfig())
	assert.Empty(t, vs)
}

func TestValidateConfiguration_NoTiers(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers = nil
	cfg.WeightCosts = nil

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeNoTiers)
}

func TestValidateConfiguration_TierGap(t *testing.T) {
	cfg := testConfig()
	// Open a gap between tier 0's upper bound and tier 1's lower bound.
	cfg.Tiers[1].LowerGrams = 1500

	vs := ValidateConfiguration(cfg)
	require.NotEmpty(t, vs)
	assert.Contains(t, codes(vs), CodeNonContiguous)
}

func TestValidateConfiguration_OverlappingTiers(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[1].LowerGrams = 800

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeNonContiguous)
}

func TestValidateConfiguration_FirstTierMustStartAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[0].LowerGrams = 100

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeFirstLowerNonzero)
}

func TestValidateConfiguration_InvertedBounds(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[1].UpperGrams = 900 // below its own lower bound of 1000

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeBoundsInverted)
}

func TestValidateConfiguration_UnboundedTierMustBeLast(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[1].UpperGrams = 0

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeUnboundedNotLast)
}

func TestValidateConfiguration_DuplicateLabels(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[2].Label = cfg.Tiers[1].Label

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeDuplicateLabel)
}

func TestValidateConfiguration_MissingCostEntries(t *testing.T) {
	cfg := testConfig()
	delete(cfg.WeightCosts[domain.ZoneEurope], 2)
	delete(cfg.WeightCosts, domain.ZoneAmericas)

	vs := ValidateConfiguration(cfg)

	// One missing tier for europe plus three for the dropped americas table.
	missing := 0
	for _, v := range vs {
		if v.Code == CodeMissingCostEntry {
			missing++
		}
	}
	assert.Equal(t, 4, missing)
}

func TestValidateConfiguration_DomesticZoneInCostTable(t *testing.T) {
	cfg := testConfig()
	cfg.WeightCosts[domain.ZoneItaly] = map[int]int64{0: 500}

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeDomesticInTable)
}

func TestValidateConfiguration_UnknownZoneAndStaleIndex(t *testing.T) {
	cfg := testConfig()
	cfg.WeightCosts["narnia"] = map[int]int64{0: 100}
	cfg.WeightCosts[domain.ZoneEurope][9] = 2500

	vs := ValidateConfiguration(cfg)
	assert.Contains(t, codes(vs), CodeUnknownZoneInTable)
	assert.Contains(t, codes(vs), CodeStaleTierIndex)
}

func TestValidateConfiguration_NegativeAmounts(t *testing.T) {
	cfg := testConfig()
	cfg.Domestic.StandardCost = -1
	cfg.Domestic.FreeThreshold = -500
	cfg.WeightCosts[domain.ZoneEurope][0] = -10

	vs := ValidateConfiguration(cfg)

	got := codes(vs)
	assert.Contains(t, got, CodeNegativeCost)
	negativeAmounts := 0
	for _, c := range got {
		if c == CodeNegativeAmount {
			negativeAmounts++
		}
	}
	assert.Equal(t, 2, negativeAmounts)
}

// All violations are collected in one pass rather than failing fast.
func TestValidateConfiguration_CollectsEveryViolation(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[0].LowerGrams = 50     // first tier not at zero + gap behavior
	cfg.Tiers[1].LowerGrams = 1500   // gap after tier 0
	cfg.Tiers[2].Label = "0-1kg"     // duplicate label
	cfg.Domestic.FreeThreshold = -10 // negative amount
	delete(cfg.WeightCosts[domain.ZoneRestOfWorld], 0)

	vs := ValidateConfiguration(cfg)

	got := codes(vs)
	assert.Contains(t, got, CodeFirstLowerNonzero)
	assert.Contains(t, got, CodeNonContiguous)
	assert.Contains(t, got, CodeDuplicateLabel)
	assert.Contains(t, got, CodeNegativeAmount)
	assert.Contains(t, got, CodeMissingCostEntry)
	assert.GreaterOrEqual(t, len(vs), 5)
}

// Validation never mutates the candidate, and tier ordering in the input
// does not matter.
func TestValidateConfiguration_PureAndOrderInsensitive(t *testing.T) {
	cfg := testConfig()
	cfg.Tiers[0], cfg.Tiers[2] = cfg.Tiers[2], cfg.Tiers[0]
	shuffled := make([]domain.WeightTier, len(cfg.Tiers))
	copy(shuffled, cfg.Tiers)

	vs := ValidateConfiguration(cfg)

	assert.Empty(t, vs)
	assert.Equal(t, shuffled, cfg.Tiers)
}
