package orders

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"pokePortMarket/business/card"
	"pokePortMarket/business/user"
	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/metrics"
	"pokePortMarket/pkg/utils"

	"github.com/shopspring/decimal"
)

type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// FindByID loads the order with its card and user, either of which may
	// be nil when the referenced row is gone.
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	// FindByIDForUpdate locks the order row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (domain.Order, error)
	FindAll(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Confirm(ctx context.Context, id uint, transactionHash string) error
}

// Repositories hands out repositories bound to one database handle, either
// the pool or an open transaction.
type Repositories interface {
	Users() user.UserRepository
	Cards() card.CardRepository
	Orders() OrdersRepository
}

// Transactor runs fn inside a single transaction. Returning an error from fn
// rolls back every write made through the given repositories.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) (err error)
}

const (
	SubjectOrderConfirmed   = "Order #%d confirmed"
	EmailBodyOrderConfirmed = `Order #%d was confirmed.</br></br>Card: %s (#%d)</br>Quantity: %d</br>Total: %s ETH</br>Buyer: %s</br>Transaction: %s`
)

type OrdersService struct {
	tx         Transactor
	repos      Repositories
	cache      card.CatalogCache
	notifRepo  NotificationRepository
	adminEmail string
	now        func() time.Time
}

// NewOrdersService wires the workflow. cache and notifRepo may be nil; with
// no adminEmail no notification is sent.
func NewOrdersService(tx Transactor, repos Repositories, cache card.CatalogCache, notifRepo NotificationRepository, adminEmail string) *OrdersService {
	return &OrdersService{
		tx:         tx,
		repos:      repos,
		cache:      cache,
		notifRepo:  notifRepo,
		adminEmail: adminEmail,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder reserves stock and records a pending order in one transaction.
// The buyer is created on first sight of their wallet.
func (s *OrdersService) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error) {
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return domain.Order{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidRequest)
	}
	if input.CardID == 0 {
		return domain.Order{}, fmt.Errorf("%w: card_id is required", domain.ErrInvalidRequest)
	}

	var created domain.Order
	err := s.tx.WithinTransaction(ctx, func(r Repositories) error {
		c, err := r.Cards().FindByID(ctx, input.CardID)
		if err != nil {
			return err
		}

		if !c.IsActive {
			metrics.OrdersRejected.Inc()
			return fmt.Errorf("%w: card is not available", domain.ErrInvalidRequest)
		}
		if c.StockQuantity < qty {
			metrics.OrdersRejected.Inc()
			return fmt.Errorf("%w: insufficient stock", domain.ErrInvalidRequest)
		}

		buyer, err := user.FindOrCreateByWallet(ctx, r.Users(), input.BuyerWalletAddress, input.Email, s.now())
		if err != nil {
			return err
		}

		total := c.PriceEth.Mul(decimal.NewFromInt(int64(qty)))

		// the stock check above is advisory; this update is the one that
		// decides under concurrent orders
		ok, err := r.Cards().DecrementStock(ctx, c.ID, qty)
		if err != nil {
			return err
		}
		if !ok {
			metrics.OrdersRejected.Inc()
			return fmt.Errorf("%w: insufficient stock", domain.ErrInvalidRequest)
		}

		order := domain.Order{
			UserID:             buyer.ID,
			CardID:             c.ID,
			Quantity:           qty,
			TotalPriceEth:      total,
			Status:             domain.OrderStatusPending,
			BuyerWalletAddress: buyer.WalletAddress,
			CustomerInfo:       input.CustomerInfo,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		logger.Error("Failed to create order", "card_id", input.CardID, "quantity", qty, "error", err)
		return domain.Order{}, err
	}

	card.InvalidateCatalog(ctx, s.cache)
	metrics.OrdersCreated.Inc()
	logger.Info("order created", "order_id", created.ID, "card_id", created.CardID, "quantity", qty, "total_price_eth", created.TotalPriceEth.String())

	return s.reload(ctx, created), nil
}

// ConfirmOrder records the client-supplied transaction hash and marks the
// order confirmed, whatever its current status.
func (s *OrdersService) ConfirmOrder(ctx context.Context, id uint, transactionHash string) (domain.Order, error) {
	transactionHash = strings.TrimSpace(transactionHash)
	if transactionHash == "" {
		return domain.Order{}, fmt.Errorf("%w: transaction_hash is required", domain.ErrInvalidRequest)
	}

	if err := s.repos.Orders().Confirm(ctx, id, transactionHash); err != nil {
		logger.Error("Failed to confirm order", "order_id", id, "error", err)
		return domain.Order{}, err
	}

	order, err := s.repos.Orders().FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	metrics.OrderStatusChanges.WithLabelValues(domain.OrderStatusConfirmed).Inc()
	logger.Info("order confirmed", "order_id", id, "transaction_hash", transactionHash)

	s.notifyAdmin(ctx, order)

	return order, nil
}

// SetStatus accepts any status of the closed set. Moving into cancelled from
// another status returns the order quantity to the card's stock, unless the
// card no longer exists.
func (s *OrdersService) SetStatus(ctx context.Context, id uint, status string) (domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidRequest, status)
	}

	return s.transition(ctx, id, status, nil)
}

// CancelOrder is the buyer-facing cancel. Only a pending order can be
// cancelled; its quantity goes back to stock like any other cancellation.
func (s *OrdersService) CancelOrder(ctx context.Context, id uint) (domain.Order, error) {
	return s.transition(ctx, id, domain.OrderStatusCancelled, func(current domain.Order) error {
		if current.Status != domain.OrderStatusPending {
			return fmt.Errorf("%w: only pending orders can be cancelled", domain.ErrInvalidRequest)
		}
		return nil
	})
}

// transition moves an order into status under a row lock. allow, when set,
// sees the locked row and can refuse the move.
func (s *OrdersService) transition(ctx context.Context, id uint, status string, allow func(domain.Order) error) (domain.Order, error) {
	restored := 0
	err := s.tx.WithinTransaction(ctx, func(r Repositories) error {
		current, err := r.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if allow != nil {
			if err := allow(current); err != nil {
				return err
			}
		}

		if status == domain.OrderStatusCancelled && current.Status != domain.OrderStatusCancelled {
			ok, err := r.Cards().IncrementStock(ctx, current.CardID, current.Quantity)
			if err != nil {
				return err
			}
			if ok {
				restored = current.Quantity
			} else {
				logger.Warn("card missing, stock not restored", "order_id", id, "card_id", current.CardID)
			}
		}

		return r.Orders().UpdateStatus(ctx, id, status)
	})
	if err != nil {
		logger.Error("Failed to update order status", "order_id", id, "status", status, "error", err)
		return domain.Order{}, err
	}

	if restored > 0 {
		card.InvalidateCatalog(ctx, s.cache)
		metrics.StockRestored.Add(float64(restored))
	}
	metrics.OrderStatusChanges.WithLabelValues(status).Inc()
	logger.Info("order status updated", "order_id", id, "status", status, "restored", restored)

	return s.repos.Orders().FindByID(ctx, id)
}

func (s *OrdersService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	if id == 0 {
		return domain.Order{}, fmt.Errorf("%w: invalid order id", domain.ErrInvalidRequest)
	}

	return s.repos.Orders().FindByID(ctx, id)
}

// ListOrders returns orders newest first.
func (s *OrdersService) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.Page) (domain.PageResult[domain.Order], error) {
	items, total, err := s.repos.Orders().FindAll(ctx, filter, page)
	if err != nil {
		logger.Error("Failed to list orders", err)
		return domain.PageResult[domain.Order]{}, err
	}

	return domain.NewPageResult(items, total, page), nil
}

// ListOrdersForWallet yields an empty page for wallets that never signed in,
// malformed ones included.
func (s *OrdersService) ListOrdersForWallet(ctx context.Context, wallet string, page domain.Page) (domain.PageResult[domain.Order], error) {
	normalized, err := utils.NormalizeWallet(wallet)
	if err != nil {
		// no user can hold a malformed wallet
		return domain.NewPageResult([]domain.Order{}, 0, page), nil
	}

	buyer, err := s.repos.Users().FindByWallet(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewPageResult([]domain.Order{}, 0, page), nil
	}
	if err != nil {
		return domain.PageResult[domain.Order]{}, err
	}

	return s.ListOrders(ctx, domain.OrderFilter{UserID: buyer.ID}, page)
}

func (s *OrdersService) reload(ctx context.Context, order domain.Order) domain.Order {
	full, err := s.repos.Orders().FindByID(ctx, order.ID)
	if err != nil {
		logger.Warn("failed to reload order", "order_id", order.ID, "error", err)
		return order
	}

	return full
}

// notifyAdmin mails the admin about a confirmed order. The body is HTML, so
// every caller-supplied value is escaped.
func (s *OrdersService) notifyAdmin(ctx context.Context, order domain.Order) {
	if s.notifRepo == nil || s.adminEmail == "" {
		return
	}

	cardName := "unknown card"
	if order.Card != nil {
		cardName = order.Card.Name
	}

	hash := ""
	if order.TransactionHash != nil {
		hash = *order.TransactionHash
	}

	body := fmt.Sprintf(EmailBodyOrderConfirmed,
		order.ID, html.EscapeString(cardName), order.CardID, order.Quantity, order.TotalPriceEth.String(),
		html.EscapeString(order.BuyerWalletAddress), html.EscapeString(hash))

	if err := s.notifRepo.SendEmail(ctx, "Admin", s.adminEmail, fmt.Sprintf(SubjectOrderConfirmed, order.ID), body); err != nil {
		logger.Warn("Failed to send order notification", "order_id", order.ID, "error", err)
	}
}
