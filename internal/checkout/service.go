package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aventra-health/benefits-store-backend/internal/accounts"
	"github.com/aventra-health/benefits-store-backend/internal/cart"
	"github.com/aventra-health/benefits-store-backend/internal/catalog"
	"github.com/aventra-health/benefits-store-backend/internal/entitlement"
	"github.com/aventra-health/benefits-store-backend/internal/orders"
	"github.com/aventra-health/benefits-store-backend/pkg/config"
	"github.com/aventra-health/benefits-store-backend/pkg/db"
	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
	"github.com/aventra-health/benefits-store-backend/pkg/metrics"
)

// AuthorityClient is the outbound surface of the entitlement authority.
type AuthorityClient interface {
	Validate(ctx context.Context, req entitlement.Request) (*entitlement.Decision, error)
}

// EventPublisher announces committed orders to downstream consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}

// PlaceOrderInput is the checkout request payload.
type PlaceOrderInput struct {
	ShippingAddress string  `json:"shippingAddress"`
	WalletAmount    float64 `json:"walletAmount"`
	RewardsAmount   float64 `json:"rewardsAmount"`
	Beneficiary     string  `json:"beneficiary"`
	PaymentMethod   string  `json:"paymentMethod"`
}

// PlaceOrderResult reports the committed order and its final payment split.
type PlaceOrderResult struct {
	OrderID uuid.UUID `json:"orderId"`
	Split   Split     `json:"split"`
}

// Service runs the checkout transaction: lock, validate, authorize, commit.
type Service struct {
	db        *db.Client
	carts     *cart.Repository
	products  *catalog.Repository
	accounts  *accounts.Repository
	orders    *orders.Repository
	authority AuthorityClient
	mode      string
	publisher EventPublisher
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	clock     func() time.Time
}

// NewService wires the checkout service. The authority client may be nil when
// no external validation endpoint is configured.
func NewService(
	dbClient *db.Client,
	carts *cart.Repository,
	products *catalog.Repository,
	accountsRepo *accounts.Repository,
	ordersRepo *orders.Repository,
	authority *entitlement.Client,
	mode string,
	publisher EventPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) *Service {
	s := &Service{
		db:        dbClient,
		carts:     carts,
		products:  products,
		accounts:  accountsRepo,
		orders:    ordersRepo,
		mode:      mode,
		publisher: publisher,
		metrics:   checkoutMetrics,
		logg:      logg,
		clock:     time.Now,
	}
	if authority != nil {
		s.authority = authority
	}
	return s
}

// PlaceOrder converts the user's active cart into a paid order. Every read
// and write happens inside one transaction; the first failed check aborts
// with nothing mutated.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	start := s.clock()

	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Shipping address is required.")
	}
	if input.WalletAmount < 0 || input.RewardsAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Credit amounts must be non-negative.")
	}

	beneficiary := strings.TrimSpace(input.Beneficiary)
	if beneficiary == "" {
		beneficiary = "Self"
	}

	paymentMethod := enums.PaymentMethodCOD
	if raw := strings.TrimSpace(input.PaymentMethod); raw != "" {
		parsed, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid payment method.")
		}
		paymentMethod = parsed
	}

	var result PlaceOrderResult

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartsTx := s.carts.WithTx(tx)

		activeCart, err := cartsTx.LockActiveCart(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "No active cart found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking cart")
		}
		ctx := s.logg.WithCartID(ctx, activeCart.ID.String())

		user, err := s.accounts.WithTx(tx).LockBalances(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking balances")
		}

		cartLines, err := cartsTx.ItemsForUpdate(ctx, activeCart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
		}
		if len(cartLines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty.")
		}

		lines := make([]Line, 0, len(cartLines))
		for _, cl := range cartLines {
			lines = append(lines, Line{
				ProductID:        cl.Product.ID,
				Name:             cl.Product.Name,
				Category:         cl.Product.Category,
				Quantity:         cl.Item.Quantity,
				UnitPrice:        cl.Product.Price,
				Stock:            cl.Product.StockQuantity,
				WalletEligible:   cl.Product.WalletEligible,
				RewardsEligible:  cl.Product.RewardsEligible,
				BenefitProgramID: cl.Product.BenefitProgramID,
			})
		}

		localSplit, err := computeLocalSplit(lines, input.WalletAmount, input.RewardsAmount, user.WalletBalance, user.RewardsBalance)
		if err != nil {
			return err
		}
		total := computeTotals(lines).Total

		finalSplit, err := s.authorize(ctx, userID, user, total, localSplit, lines)
		if err != nil {
			return err
		}

		if err := s.accounts.WithTx(tx).DebitBalances(ctx, userID, finalSplit.Wallet, finalSplit.Rewards); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting balances")
		}

		order := &models.Order{
			UserID:          userID,
			TotalAmount:     total,
			WalletAmount:    finalSplit.Wallet,
			RewardsAmount:   finalSplit.Rewards,
			CashAmount:      finalSplit.Cash,
			Status:          enums.OrderStatusPaid,
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			PaymentMethod:   paymentMethod,
			BeneficiaryName: beneficiary,
		}
		ordersTx := s.orders.WithTx(tx)
		if err := ordersTx.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:             order.ID,
				ProductID:           line.ProductID,
				Quantity:            line.Quantity,
				PriceAtPurchase:     line.UnitPrice,
				ProductNameSnapshot: line.Name,
			})
		}
		if err := ordersTx.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}

		productsTx := s.products.WithTx(tx)
		for _, line := range lines {
			if err := productsTx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}
		}

		if err := cartsTx.MarkConverted(ctx, activeCart.ID, s.clock()); err != nil {
			if errors.Is(err, cart.ErrCartAlreadyConverted) {
				return pkgerrors.New(pkgerrors.CodeConflict, "Cart already processed.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "converting cart")
		}

		result = PlaceOrderResult{OrderID: order.ID, Split: finalSplit}
		return nil
	})

	if txErr != nil {
		s.metrics.ObserveDuration(checkoutOutcome(txErr), s.clock().Sub(start))
		return nil, txErr
	}

	s.metrics.IncOrdersPlaced()
	s.metrics.ObserveDuration(metrics.CheckoutOutcomeCommitted, s.clock().Sub(start))

	ctx = s.logg.WithOrderID(ctx, result.OrderID.String())
	s.logg.Info(ctx, "order placed")

	s.publishOrderPlaced(ctx, userID, result)

	return &result, nil
}

// authorize runs the optional external entitlement check. Strict mode turns
// any authority failure into an abort; permissive mode falls back to the
// locally computed split.
func (s *Service) authorize(ctx context.Context, userID uuid.UUID, user *models.User, total float64, local Split, lines []Line) (Split, error) {
	if s.authority == nil {
		return local, nil
	}

	req := entitlement.Request{
		UserID:       userID,
		EmployerID:   user.EmployerID,
		EmployerName: user.EmployerName,
		Totals: entitlement.Totals{
			OrderTotal:       total,
			RequestedWallet:  local.Wallet,
			RequestedRewards: local.Rewards,
		},
		Items: make([]entitlement.Item, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, entitlement.Item{
			ProductID:        line.ProductID,
			Name:             line.Name,
			Category:         line.Category,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			WalletEligible:   line.WalletEligible,
			RewardsEligible:  line.RewardsEligible,
			BenefitProgramID: line.BenefitProgramID,
		})
	}

	decision, err := s.authority.Validate(ctx, req)
	if err == nil {
		var approved Split
		approved, err = applyAuthorityDecision(total, local, decision)
		if err == nil {
			s.metrics.IncEntitlement(metrics.EntitlementApproved)
			return approved, nil
		}
	}

	if s.mode == config.EnforcementStrict {
		s.metrics.IncEntitlement(metrics.EntitlementFailedStrict)
		return Split{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Benefit validation service unavailable. Please try again.").
			WithDetails(err.Error())
	}

	s.metrics.IncEntitlement(metrics.EntitlementFailedFallback)
	s.logg.Warn(s.logg.WithField(ctx, "fallback_reason", err.Error()), "entitlement validation failed, using local split")
	return local, nil
}

func (s *Service) publishOrderPlaced(ctx context.Context, userID uuid.UUID, result PlaceOrderResult) {
	if s.publisher == nil {
		return
	}
	event := OrderPlacedEvent{
		OrderID:     result.OrderID,
		UserID:      userID,
		TotalAmount: result.Split.Wallet + result.Split.Rewards + result.Split.Cash,
		Split:       result.Split,
		PlacedAt:    s.clock().UTC(),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		// The order is already committed; event delivery is best effort.
		s.logg.Warn(s.logg.WithField(ctx, "publish_error", err.Error()), "order event publish failed")
	}
}

func checkoutOutcome(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.CheckoutOutcomeRejected
	}
	if typed.Code() == pkgerrors.CodeDependency {
		return metrics.CheckoutOutcomeUnavailable
	}
	return metrics.CheckoutOutcomeRejected
}
