package checkout

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/internal/entitlement"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
)

func line(name string, price float64, qty, stock int, wallet, rewards bool) Line {
	return Line{
		ProductID:       uuid.New(),
		Name:            name,
		Category:        "supplements",
		Quantity:        qty,
		UnitPrice:       price,
		Stock:           stock,
		WalletEligible:  wallet,
		RewardsEligible: rewards,
	}
}

func f(v float64) *float64 { return &v }

func TestComputeLocalSplitHappyPath(t *testing.T) {
	lines := []Line{
		line("Vitamin D3", 250, 2, 10, true, true),
		line("Knee Brace", 500, 1, 3, true, false),
	}

	split, err := computeLocalSplit(lines, 600, 200, 1000, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.Wallet != 600 || split.Rewards != 200 || split.Cash != 200 {
		t.Fatalf("unexpected split: %+v", split)
	}
}

func TestComputeLocalSplitCollectsAllStockErrors(t *testing.T) {
	lines := []Line{
		line("Vitamin D3", 250, 5, 2, true, true),
		line("Knee Brace", 500, 2, 0, true, true),
		line("Foam Roller", 800, 1, 1, true, true),
	}

	_, err := computeLocalSplit(lines, 0, 0, 0, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}

	details, ok := typed.Details().([]string)
	if !ok {
		t.Fatalf("expected []string details, got %T", typed.Details())
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 stock errors, got %d: %v", len(details), details)
	}
	if details[0] != `Insufficient stock for "Vitamin D3". Available: 2` {
		t.Fatalf("unexpected first detail: %s", details[0])
	}
	if details[1] != `Insufficient stock for "Knee Brace". Available: 0` {
		t.Fatalf("unexpected second detail: %s", details[1])
	}
}

func TestComputeLocalSplitStockBeatsEverything(t *testing.T) {
	// Out of stock AND over-requested credits: stock wins.
	lines := []Line{line("Vitamin D3", 100, 2, 1, false, false)}

	_, err := computeLocalSplit(lines, 9999, 9999, 0, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out-of-stock error first, got %v", err)
	}
}

func TestComputeLocalSplitWalletEligibilityCap(t *testing.T) {
	lines := []Line{
		line("Eligible", 300, 1, 5, true, true),
		line("Ineligible", 200, 1, 5, false, true),
	}

	_, err := computeLocalSplit(lines, 301, 0, 1000, 1000)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Only ₹300 of this order is wallet-eligible." {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestComputeLocalSplitAcceptsRequestAtEligibilityCap(t *testing.T) {
	lines := []Line{
		line("Eligible", 300, 1, 5, true, true),
		line("Ineligible", 200, 1, 5, false, false),
	}

	// Requests equal to the caps are within them, not over.
	split, err := computeLocalSplit(lines, 300, 0, 1000, 1000)
	if err != nil {
		t.Fatalf("wallet at cap should pass, got %v", err)
	}
	if split.Wallet != 300 || split.Rewards != 0 || split.Cash != 200 {
		t.Fatalf("unexpected split: %+v", split)
	}

	split, err = computeLocalSplit(lines, 0, 300, 1000, 1000)
	if err != nil {
		t.Fatalf("rewards at cap should pass, got %v", err)
	}
	if split.Wallet != 0 || split.Rewards != 300 || split.Cash != 200 {
		t.Fatalf("unexpected split: %+v", split)
	}
}

func TestComputeLocalSplitRewardsEligibilityCap(t *testing.T) {
	lines := []Line{
		line("Eligible", 150.5, 1, 5, true, true),
		line("Ineligible", 200, 1, 5, true, false),
	}

	_, err := computeLocalSplit(lines, 0, 151, 1000, 1000)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Only ₹150.5 of this order is rewards-eligible." {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestComputeLocalSplitBalanceChecks(t *testing.T) {
	lines := []Line{line("Vitamin D3", 500, 1, 5, true, true)}

	_, err := computeLocalSplit(lines, 300, 0, 299.99, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "Insufficient wallet balance." {
		t.Fatalf("expected wallet balance error, got %v", err)
	}

	_, err = computeLocalSplit(lines, 0, 100, 0, 99)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Message() != "Insufficient rewards balance." {
		t.Fatalf("expected rewards balance error, got %v", err)
	}
}

func TestComputeLocalSplitWalletCapBeforeBalance(t *testing.T) {
	// Wallet request exceeds both the eligibility cap and the balance:
	// the cap message must win.
	lines := []Line{
		line("Eligible", 100, 1, 5, true, true),
		line("Ineligible", 400, 1, 5, false, true),
	}

	_, err := computeLocalSplit(lines, 200, 0, 50, 0)
	typed := pkgerrors.As(err)
	if typed == nil || !strings.Contains(typed.Message(), "wallet-eligible") {
		t.Fatalf("expected eligibility cap error, got %v", err)
	}
}

func TestComputeLocalSplitOverpayment(t *testing.T) {
	lines := []Line{line("Vitamin D3", 100, 1, 5, true, true)}

	_, err := computeLocalSplit(lines, 60, 50, 1000, 1000)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "Payment credits exceed order total." {
		t.Fatalf("expected overpayment error, got %v", err)
	}
}

func TestComputeLocalSplitZeroCreditsAllCash(t *testing.T) {
	lines := []Line{line("Vitamin D3", 250, 2, 5, false, false)}

	split, err := computeLocalSplit(lines, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.Wallet != 0 || split.Rewards != 0 || split.Cash != 500 {
		t.Fatalf("unexpected split: %+v", split)
	}
}

func TestApplyAuthorityDecisionOverridesAmounts(t *testing.T) {
	requested := Split{Wallet: 300, Rewards: 100, Cash: 100}

	split, err := applyAuthorityDecision(500, requested, &entitlement.Decision{
		ApprovedWalletAmount:  f(250),
		ApprovedRewardsAmount: f(100),
		ApprovedCashAmount:    f(150),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.Wallet != 250 || split.Rewards != 100 || split.Cash != 150 {
		t.Fatalf("unexpected split: %+v", split)
	}
}

func TestApplyAuthorityDecisionDefaultsOmittedAmounts(t *testing.T) {
	requested := Split{Wallet: 300, Rewards: 100, Cash: 100}

	// Wallet lowered, cash omitted: cash absorbs the difference.
	split, err := applyAuthorityDecision(500, requested, &entitlement.Decision{
		ApprovedWalletAmount: f(200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split.Wallet != 200 || split.Rewards != 100 || split.Cash != 200 {
		t.Fatalf("unexpected split: %+v", split)
	}

	// Everything omitted: requested split passes through.
	split, err = applyAuthorityDecision(500, requested, &entitlement.Decision{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if split != requested {
		t.Fatalf("expected passthrough, got %+v", split)
	}
}

func TestApplyAuthorityDecisionToleratesRounding(t *testing.T) {
	requested := Split{Wallet: 300, Rewards: 100, Cash: 100}

	if _, err := applyAuthorityDecision(500, requested, &entitlement.Decision{
		ApprovedWalletAmount:  f(300),
		ApprovedRewardsAmount: f(100),
		ApprovedCashAmount:    f(100.009),
	}); err != nil {
		t.Fatalf("expected rounding within tolerance to pass, got %v", err)
	}

	if _, err := applyAuthorityDecision(500, requested, &entitlement.Decision{
		ApprovedWalletAmount:  f(300),
		ApprovedRewardsAmount: f(100),
		ApprovedCashAmount:    f(100.02),
	}); err == nil {
		t.Fatal("expected mismatch beyond tolerance to fail")
	}
}

func TestApplyAuthorityDecisionRejectsNegative(t *testing.T) {
	requested := Split{Wallet: 300, Rewards: 100, Cash: 100}

	if _, err := applyAuthorityDecision(500, requested, &entitlement.Decision{
		ApprovedWalletAmount: f(-1),
	}); err == nil {
		t.Fatal("expected negative amount rejection")
	}
}

func TestApplyAuthorityDecisionRejectsNil(t *testing.T) {
	if _, err := applyAuthorityDecision(500, Split{}, nil); err == nil {
		t.Fatal("expected nil decision rejection")
	}
}
