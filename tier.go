package tierbank

import (
	"github.com/shopspring/decimal"
)

// Tier is a member ranking. Each tier carries a fixed quota bundle from
// which an account's Limits row is initialized at creation time.
type Tier int

const (
	TierStandard Tier = iota
	TierMetal
	TierPro
	TierUltimate
)

var tierNames = map[Tier]string{
	TierStandard: "STANDARD",
	TierMetal:    "METAL",
	TierPro:      "PRO",
	TierUltimate: "ULTIMATE",
}

func (t Tier) String() string {
	return tierNames[t]
}

func ParseTier(s string) (Tier, bool) {
	for t, n := range tierNames {
		if n == s {
			return t, true
		}
	}
	return TierStandard, false
}

// TierQuota is the static quota bundle of a tier: a single-transaction cap
// and the daily/weekly/monthly period totals that deposit/withdraw
// sub-caps are derived from.
type TierQuota struct {
	TransactionCap decimal.Decimal
	DailyTotal     decimal.Decimal
	WeeklyTotal    decimal.Decimal
	MonthlyTotal   decimal.Decimal
}

var tierQuotas = map[Tier]TierQuota{
	TierStandard: {
		TransactionCap: decimal.NewFromInt(300),
		DailyTotal:     decimal.NewFromInt(1000),
		WeeklyTotal:    decimal.NewFromInt(5000),
		MonthlyTotal:   decimal.NewFromInt(20000),
	},
	TierMetal: {
		TransactionCap: decimal.NewFromInt(600),
		DailyTotal:     decimal.NewFromInt(2000),
		WeeklyTotal:    decimal.NewFromInt(10000),
		MonthlyTotal:   decimal.NewFromInt(40000),
	},
	TierPro: {
		TransactionCap: decimal.NewFromInt(1500),
		DailyTotal:     decimal.NewFromInt(5000),
		WeeklyTotal:    decimal.NewFromInt(25000),
		MonthlyTotal:   decimal.NewFromInt(100000),
	},
	TierUltimate: {
		TransactionCap: decimal.NewFromInt(3000),
		DailyTotal:     decimal.NewFromInt(10000),
		WeeklyTotal:    decimal.NewFromInt(50000),
		MonthlyTotal:   decimal.NewFromInt(200000),
	},
}

// Quota returns the tier's static quota bundle.
func (t Tier) Quota() TierQuota {
	return tierQuotas[t]
}

var (
	two = decimal.NewFromInt(2)

	metalFloor    = decimal.NewFromInt(5000)
	proFloor      = decimal.NewFromInt(100000)
	ultimateFloor = decimal.NewFromInt(200000)
)

// SplitPeriodTotal halves a period total into its deposit or withdraw
// sub-cap, rounding half-up to cents. Sub-caps are only valid when derived
// together with their parent total; editing one without the other breaks
// the invariant.
func SplitPeriodTotal(total decimal.Decimal) decimal.Decimal {
	return total.Div(two).Round(2)
}

// ClassifyBalance maps a balance to a tier. Bounds are inclusive on the
// lower tier's upper end.
func ClassifyBalance(balance decimal.Decimal) Tier {
	switch {
	case balance.LessThanOrEqual(metalFloor):
		return TierStandard
	case balance.LessThanOrEqual(proFloor):
		return TierMetal
	case balance.LessThanOrEqual(ultimateFloor):
		return TierPro
	default:
		return TierUltimate
	}
}
