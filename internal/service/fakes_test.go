package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOrderRepo keeps orders in memory and honors the same transition
// contracts as the database-backed repository.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order

	// carts mirrors the production coupling: finalizing a paid order clears
	// the owner's active cart.
	carts *fakeCartRepo

	finalizeCalls int
	deleteCalls   int

	insertErr       error
	getErr          error
	setAuthorityErr error
}

func newFakeOrderRepo(carts *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[uuid.UUID]*domain.Order{},
		carts:  carts,
	}
}

func (f *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return domain.Order{}, f.insertErr
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = &order

	return order, nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return *order, nil
}

func (f *fakeOrderRepo) GetOrderByAuthority(_ context.Context, authority string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.Order{}, f.getErr
	}

	for _, order := range f.orders {
		if order.PaymentID == authority {
			return *order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) ListOrders(_ context.Context, ownerID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Order
	for _, order := range f.orders {
		if order.OwnerID == ownerID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) SetPaymentAuthority(_ context.Context, orderID uuid.UUID, authority string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setAuthorityErr != nil {
		return f.setAuthorityErr
	}

	order, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.PaymentID = authority
	return nil
}

func (f *fakeOrderRepo) FinalizePaid(ctx context.Context, orderID uuid.UUID, trackingCode string, paidAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finalizeCalls++

	order, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderFinalized
	}

	order.Status = domain.OrderStatusPaid
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.PaymentDate = &paidAt
	if order.TrackingCode == nil {
		order.TrackingCode = &trackingCode
	}

	if f.carts != nil {
		f.carts.clearAndDeactivate(order.OwnerID)
	}
	return nil
}

func (f *fakeOrderRepo) MarkCancelled(_ context.Context, orderID uuid.UUID, paymentStatus domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderFinalized
	}

	order.Status = domain.OrderStatusCancelled
	order.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls++

	if _, ok := f.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderRepo) single() domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		return *order
	}
	return domain.Order{}
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.orders)
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart

	clearCalls int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*domain.Cart{}}
}

func (f *fakeCartRepo) put(ownerID string, items ...domain.CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.carts[ownerID] = &domain.Cart{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		IsActive: true,
		Items:    items,
	}
}

func (f *fakeCartRepo) itemCount(ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.carts[ownerID]
	if !ok {
		return 0
	}
	return len(cart.Items)
}

func (f *fakeCartRepo) clearAndDeactivate(ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clearCalls++
	if cart, ok := f.carts[ownerID]; ok {
		cart.Items = nil
		cart.IsActive = false
	}
}

func (f *fakeCartRepo) GetActiveCart(_ context.Context, ownerID string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.carts[ownerID]
	if !ok || !cart.IsActive {
		fresh := &domain.Cart{ID: uuid.New(), OwnerID: ownerID, IsActive: true}
		f.carts[ownerID] = fresh
		return *fresh, nil
	}
	return *cart, nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, ownerID string, stoneID uuid.UUID, quantity int, finish, thickness, notes string) (domain.CartItem, error) {
	return domain.CartItem{}, errors.New("not used in these tests")
}

func (f *fakeCartRepo) UpdateItemQuantity(_ context.Context, ownerID string, itemID uuid.UUID, quantity int) error {
	return errors.New("not used in these tests")
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, ownerID string, itemID uuid.UUID) (bool, error) {
	return false, errors.New("not used in these tests")
}

func (f *fakeCartRepo) ClearItems(_ context.Context, ownerID string) error {
	f.clearAndDeactivate(ownerID)
	return nil
}

// fakeGateway replays scripted results.
type fakeGateway struct {
	requestResult domain.PaymentRequestResult
	verifyResult  domain.PaymentVerification

	requestCalls int
	verifyCalls  int
	lastRequest  domain.PaymentRequest
}

func (f *fakeGateway) CreatePaymentRequest(_ context.Context, req domain.PaymentRequest) domain.PaymentRequestResult {
	f.requestCalls++
	f.lastRequest = req
	return f.requestResult
}

func (f *fakeGateway) VerifyPayment(_ context.Context, authority string, amount int64) domain.PaymentVerification {
	f.verifyCalls++
	return f.verifyResult
}

func pricedItem(nameEN, price string, quantity int) domain.CartItem {
	money := domain.NewMoney(decimal.RequireFromString(price))

	return domain.CartItem{
		ID:       uuid.New(),
		Quantity: quantity,
		Stone: domain.Stone{
			ID:     uuid.New(),
			NameEN: nameEN,
			Price:  &money,
		},
	}
}

func unpricedItem(nameEN string, quantity int) domain.CartItem {
	return domain.CartItem{
		ID:       uuid.New(),
		Quantity: quantity,
		Stone: domain.Stone{
			ID:     uuid.New(),
			NameEN: nameEN,
		},
	}
}
