package checkout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/internal/entitlement"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
)

// splitTolerance is the rounding slack allowed when checking that a payment
// split covers the order total.
const splitTolerance = 0.01

// Line is one cart line with everything the payment rules need.
type Line struct {
	ProductID        uuid.UUID
	Name             string
	Category         string
	Quantity         int
	UnitPrice        float64
	Stock            int
	WalletEligible   bool
	RewardsEligible  bool
	BenefitProgramID *string
}

// Split is the final three-way division of an order total.
type Split struct {
	Wallet  float64 `json:"wallet"`
	Rewards float64 `json:"rewards"`
	Cash    float64 `json:"cash"`
}

// orderTotals aggregates the amounts the validation rules compare against.
type orderTotals struct {
	Total             float64
	WalletIneligible  float64
	RewardsIneligible float64
}

func computeTotals(lines []Line) orderTotals {
	var totals orderTotals
	for _, line := range lines {
		lineTotal := line.UnitPrice * float64(line.Quantity)
		totals.Total += lineTotal
		if !line.WalletEligible {
			totals.WalletIneligible += lineTotal
		}
		if !line.RewardsEligible {
			totals.RewardsIneligible += lineTotal
		}
	}
	return totals
}

// computeLocalSplit validates the requested wallet/rewards amounts against
// stock, per-item eligibility, and balances, and returns the local split.
// Checks run in a fixed order and the first failing class wins; stock
// problems are collected across every line before reporting.
func computeLocalSplit(lines []Line, useWallet, useRewards, walletBalance, rewardsBalance float64) (Split, error) {
	var stockErrors []string
	for _, line := range lines {
		if line.Stock < line.Quantity {
			stockErrors = append(stockErrors, fmt.Sprintf("Insufficient stock for %q. Available: %d", line.Name, line.Stock))
		}
	}
	if len(stockErrors) > 0 {
		return Split{}, pkgerrors.New(pkgerrors.CodeOutOfStock, "Stock validation failed").WithDetails(stockErrors)
	}

	totals := computeTotals(lines)

	maxWalletAllowed := totals.Total - totals.WalletIneligible
	if useWallet > maxWalletAllowed {
		return Split{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Only ₹%s of this order is wallet-eligible.", formatAmount(maxWalletAllowed))
	}

	maxRewardsAllowed := totals.Total - totals.RewardsIneligible
	if useRewards > maxRewardsAllowed {
		return Split{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Only ₹%s of this order is rewards-eligible.", formatAmount(maxRewardsAllowed))
	}

	if useWallet > walletBalance {
		return Split{}, pkgerrors.New(pkgerrors.CodeValidation, "Insufficient wallet balance.")
	}
	if useRewards > rewardsBalance {
		return Split{}, pkgerrors.New(pkgerrors.CodeValidation, "Insufficient rewards balance.")
	}

	cash := totals.Total - useWallet - useRewards
	if cash < 0 {
		return Split{}, pkgerrors.New(pkgerrors.CodeValidation, "Payment credits exceed order total.")
	}

	return Split{Wallet: useWallet, Rewards: useRewards, Cash: cash}, nil
}

// applyAuthorityDecision folds the authority's approved amounts over the
// requested split. Omitted amounts fall back to the requested values; the
// cash default keeps the split covering the total. The result must be
// finite, non-negative, and sum to the order total within tolerance.
func applyAuthorityDecision(total float64, requested Split, decision *entitlement.Decision) (Split, error) {
	if decision == nil {
		return Split{}, fmt.Errorf("authority decision is empty")
	}

	wallet := requested.Wallet
	if decision.ApprovedWalletAmount != nil {
		wallet = *decision.ApprovedWalletAmount
	}
	rewards := requested.Rewards
	if decision.ApprovedRewardsAmount != nil {
		rewards = *decision.ApprovedRewardsAmount
	}
	cash := math.Max(0, total-wallet-rewards)
	if decision.ApprovedCashAmount != nil {
		cash = *decision.ApprovedCashAmount
	}

	for _, amount := range []float64{wallet, rewards, cash} {
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return Split{}, fmt.Errorf("authority response contains non-numeric approved amounts")
		}
	}
	if wallet < 0 || rewards < 0 || cash < 0 {
		return Split{}, fmt.Errorf("authority response contains negative approved amounts")
	}
	if math.Abs(wallet+rewards+cash-total) > splitTolerance {
		return Split{}, fmt.Errorf("authority approved split does not match order total")
	}

	return Split{Wallet: wallet, Rewards: rewards, Cash: cash}, nil
}

// formatAmount renders a rupee amount the way the storefront shows it:
// no trailing zeros, no scientific notation.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
