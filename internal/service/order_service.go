package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService drives the customer-order lifecycle:
// pending → confirmed → dispatched → delivered, with cancellation allowed
// before dispatch. Stock leaves inventory at dispatch time, not at creation.
type OrderService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Confirm(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
	Dispatch(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
	MarkDelivered(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, tenantID, userID, id uuid.UUID, req dto.VerifyPaymentRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*dto.OrderResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	stockRepo    repository.StockMovementRepository
	accountRepo  repository.AccountRepository
	locker       LockManager
	dispatcher   *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockMovementRepository,
	accountRepo repository.AccountRepository,
	locker LockManager,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		accountRepo:  accountRepo,
		locker:       locker,
		dispatcher:   dispatcher,
	}
}

func (s *orderService) withLock(ctx context.Context, key string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	return s.locker.WithLock(ctx, key, fn)
}

func (s *orderService) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %w", err)
	}
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, errors.New("customer not found")
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		if _, err := s.productRepo.FindByID(ctx, tenantID, productID); err != nil {
			return nil, fmt.Errorf("product %s not found", it.ProductID)
		}
		var variantID *uuid.UUID
		if it.VariantID != nil {
			vid, err := uuid.Parse(*it.VariantID)
			if err != nil {
				return nil, fmt.Errorf("invalid variant_id: %w", err)
			}
			variantID = &vid
		}
		if it.UnitPrice.Sign() < 0 {
			return nil, errors.New("unit price cannot be negative")
		}
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty)))
		items = append(items, model.OrderItem{
			ProductID: productID,
			VariantID: variantID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	var order model.Order
	txErr := s.withLock(ctx, "order-seq:"+tenantID.String(), func() error {
		number, err := s.repo.NextOrderNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			order = model.Order{
				TenantID:    tenantID,
				OrderNumber: number,
				CustomerID:  customerID,
				Status:      model.OrderPending,
				Total:       total,
				Notes:       req.Notes,
				CreatedBy:   userID,
				Items:       items,
			}
			return s.repo.CreateTx(tx, &order)
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(ctx, tenantID, customer, "order_created", map[string]string{
		"order_number": order.OrderNumber,
		"total":        order.Total.StringFixed(2),
	})
	order.Customer = customer
	return orderToResponse(&order), nil
}

func (s *orderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *orderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status != model.OrderPending {
		return nil, fmt.Errorf("cannot confirm an order in status %s", order.Status)
	}
	order.Status = model.OrderConfirmed
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.notify(ctx, tenantID, order.Customer, "order_confirmed", map[string]string{
		"order_number": order.OrderNumber,
	})
	return orderToResponse(order), nil
}

// Dispatch moves the order to dispatched and takes the stock out, recording a
// movement per line. Fails when any line would drive stock negative.
func (s *orderService) Dispatch(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status != model.OrderConfirmed {
		return nil, fmt.Errorf("cannot dispatch an order in status %s", order.Status)
	}
	if !order.PaymentVerified {
		return nil, errors.New("payment must be verified before dispatch")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range order.Items {
			before, err := s.productRepo.AdjustStockTx(tx, tenantID, item.ProductID, item.VariantID, -item.Qty)
			if err != nil {
				return err
			}
			if before < item.Qty {
				return fmt.Errorf("insufficient stock for product %s", item.ProductID)
			}
			ref := order.ID
			if err := s.stockRepo.CreateTx(tx, &model.StockMovement{
				TenantID:    tenantID,
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				Type:        "order_dispatch",
				Qty:         -item.Qty,
				StockBefore: before,
				StockAfter:  before - item.Qty,
				Note:        "Dispatched order " + order.OrderNumber,
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}
		now := time.Now()
		order.Status = model.OrderDispatched
		order.DispatchedAt = &now
		return s.repo.UpdateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(ctx, tenantID, order.Customer, "order_dispatched", map[string]string{
		"order_number": order.OrderNumber,
	})
	return orderToResponse(order), nil
}

func (s *orderService) MarkDelivered(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status != model.OrderDispatched {
		return nil, fmt.Errorf("cannot deliver an order in status %s", order.Status)
	}
	now := time.Now()
	order.Status = model.OrderDelivered
	order.DeliveredAt = &now
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

// VerifyPayment posts the customer's payment into the chosen account and
// flags the order ready for dispatch.
func (s *orderService) VerifyPayment(ctx context.Context, tenantID, userID, id uuid.UUID, req dto.VerifyPaymentRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status == model.OrderCancelled {
		return nil, errors.New("cannot verify payment on a cancelled order")
	}
	if order.PaymentVerified {
		return nil, errors.New("payment is already verified")
	}
	if req.Amount.Sign() <= 0 {
		return nil, errors.New("payment amount must be positive")
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id: %w", err)
	}
	if _, err := s.accountRepo.FindByID(ctx, tenantID, accountID); err != nil {
		return nil, errors.New("payment account not found")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := order.ID
		if _, err := s.accountRepo.PostTx(tx, tenantID, accountID,
			req.Amount, "order_payment",
			"Payment for order "+order.OrderNumber, &ref, userID); err != nil {
			return err
		}
		now := time.Now()
		order.PaymentVerified = true
		order.PaymentAmount = req.Amount
		order.PaymentAccountID = &accountID
		order.PaymentVerifiedBy = &userID
		order.PaymentVerifiedAt = &now
		return s.repo.UpdateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(ctx, tenantID, order.Customer, "payment_verified", map[string]string{
		"order_number": order.OrderNumber,
		"amount":       req.Amount.StringFixed(2),
	})
	return orderToResponse(order), nil
}

// Cancel is allowed before dispatch only. A dispatched order has stock on a
// rider; cancelling it is a manual return flow, not an API call.
func (s *orderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status != model.OrderPending && order.Status != model.OrderConfirmed {
		return nil, fmt.Errorf("cannot cancel an order in status %s", order.Status)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// A verified payment is reversed out of the account it landed in.
		if order.PaymentVerified && order.PaymentAccountID != nil {
			ref := order.ID
			if _, err := s.accountRepo.PostTx(tx, tenantID, *order.PaymentAccountID,
				order.PaymentAmount.Neg(), "order_payment",
				"Reversal for cancelled order "+order.OrderNumber, &ref, order.CreatedBy); err != nil {
				return err
			}
		}
		order.Status = model.OrderCancelled
		order.CancelReason = &reason
		return s.repo.UpdateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(ctx, tenantID, order.Customer, "order_cancelled", map[string]string{
		"order_number": order.OrderNumber,
		"reason":       reason,
	})
	return orderToResponse(order), nil
}

func (s *orderService) notify(ctx context.Context, tenantID uuid.UUID, customer *model.Customer, event string, params map[string]string) {
	if s.dispatcher == nil || customer == nil || customer.Phone == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotification(ctx, worker.NotificationJob{
		TenantID:  tenantID.String(),
		Recipient: *customer.Phone,
		Event:     event,
		Params:    params,
	})
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		var variantID *string
		if it.VariantID != nil {
			v := it.VariantID.String()
			variantID = &v
		}
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID: it.ProductID.String(),
			VariantID: variantID,
			Product:   name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	customerName := ""
	if o.Customer != nil {
		customerName = o.Customer.Name
	}
	resp := &dto.OrderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID.String(),
		CustomerName:    customerName,
		Status:          o.Status,
		Total:           o.Total,
		PaymentVerified: o.PaymentVerified,
		PaymentAmount:   o.PaymentAmount,
		Items:           items,
		CreatedAt:       o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if o.DispatchedAt != nil {
		v := o.DispatchedAt.Format("2006-01-02T15:04:05Z")
		resp.DispatchedAt = &v
	}
	if o.DeliveredAt != nil {
		v := o.DeliveredAt.Format("2006-01-02T15:04:05Z")
		resp.DeliveredAt = &v
	}
	return resp
}
