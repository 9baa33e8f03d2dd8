package handler_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mahdibiabani/stone-store/internal/domain"
)

// stubUserRepo resolves a single pre-issued token to a single user, which is
// all the authenticated routes need.
type stubUserRepo struct {
	user  domain.User
	token string
}

func (r *stubUserRepo) CreateUser(_ context.Context, _ domain.User, _ domain.Profile) (domain.User, error) {
	return domain.User{}, errors.New("not used in these tests")
}

func (r *stubUserRepo) GetUserByUsername(_ context.Context, _ string) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	if userID == r.user.ID {
		return r.user, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (domain.Profile, error) {
	return domain.Profile{UserID: userID}, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, _ domain.Profile) error {
	return nil
}

func (r *stubUserRepo) InsertToken(_ context.Context, token string, _ uuid.UUID) error {
	r.token = token
	return nil
}

func (r *stubUserRepo) GetUserByToken(_ context.Context, token string) (domain.User, error) {
	if token == r.token && token != "" {
		return r.user, nil
	}
	return domain.User{}, domain.ErrTokenNotFound
}

// stubCartRepo serves one fixed cart; mutations are out of scope here.
type stubCartRepo struct {
	cart domain.Cart
}

func (r *stubCartRepo) GetActiveCart(_ context.Context, ownerID string) (domain.Cart, error) {
	if ownerID != r.cart.OwnerID {
		return domain.Cart{OwnerID: ownerID, IsActive: true}, nil
	}
	return r.cart, nil
}

func (r *stubCartRepo) AddItem(_ context.Context, _ string, _ uuid.UUID, _ int, _, _, _ string) (domain.CartItem, error) {
	return domain.CartItem{}, errors.New("not used in these tests")
}

func (r *stubCartRepo) UpdateItemQuantity(_ context.Context, _ string, _ uuid.UUID, _ int) error {
	return errors.New("not used in these tests")
}

func (r *stubCartRepo) RemoveItem(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return false, errors.New("not used in these tests")
}

func (r *stubCartRepo) ClearItems(_ context.Context, _ string) error {
	return nil
}

// stubOrderRepo keeps orders in a map and implements the pending-only state
// transitions the callback flow relies on.
type stubOrderRepo struct {
	orders map[uuid.UUID]domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (r *stubOrderRepo) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentStatusPending
	}
	r.orders[order.ID] = order
	return order, nil
}

func (r *stubOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *stubOrderRepo) GetOrderByAuthority(_ context.Context, authority string) (domain.Order, error) {
	for _, order := range r.orders {
		if order.PaymentID == authority {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) ListOrders(_ context.Context, ownerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range r.orders {
		if order.OwnerID == ownerID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) SetPaymentAuthority(_ context.Context, orderID uuid.UUID, authority string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.PaymentID = authority
	r.orders[orderID] = order
	return nil
}

func (r *stubOrderRepo) FinalizePaid(_ context.Context, orderID uuid.UUID, trackingCode string, paidAt time.Time) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderFinalized
	}
	order.Status = domain.OrderStatusPaid
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.PaymentDate = &paidAt
	order.TrackingCode = &trackingCode
	r.orders[orderID] = order
	return nil
}

func (r *stubOrderRepo) MarkCancelled(_ context.Context, orderID uuid.UUID, paymentStatus domain.PaymentStatus) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderFinalized
	}
	order.Status = domain.OrderStatusCancelled
	order.PaymentStatus = paymentStatus
	r.orders[orderID] = order
	return nil
}

func (r *stubOrderRepo) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	delete(r.orders, orderID)
	return nil
}

type stubGateway struct {
	requestResult domain.PaymentRequestResult
	verifyResult  domain.PaymentVerification
}

func (g *stubGateway) CreatePaymentRequest(_ context.Context, _ domain.PaymentRequest) domain.PaymentRequestResult {
	return g.requestResult
}

func (g *stubGateway) VerifyPayment(_ context.Context, _ string, _ int64) domain.PaymentVerification {
	return g.verifyResult
}
