package rest

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"pokePortMarket/domain"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrdersService struct {
	input      domain.CreateOrderInput
	filter     domain.OrderFilter
	wallet     string
	confirmed  string
	status     string
	createErr  error
	confirmErr error
	statusErr  error
	walletErr  error
	cancelled  uint
	cancelErr  error
}

func (f *fakeOrdersService) CreateOrder(_ context.Context, input domain.CreateOrderInput) (domain.Order, error) {
	f.input = input
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}
	return domain.Order{
		ID:                 1,
		CardID:             input.CardID,
		Quantity:           input.Quantity,
		TotalPriceEth:      decimal.RequireFromString("1.0").Mul(decimal.NewFromInt(int64(input.Quantity))),
		Status:             domain.OrderStatusPending,
		BuyerWalletAddress: input.BuyerWalletAddress,
		CustomerInfo:       input.CustomerInfo,
	}, nil
}

func (f *fakeOrdersService) ConfirmOrder(_ context.Context, id uint, hash string) (domain.Order, error) {
	f.confirmed = hash
	if f.confirmErr != nil {
		return domain.Order{}, f.confirmErr
	}
	return domain.Order{ID: id, Status: domain.OrderStatusConfirmed, TransactionHash: &hash}, nil
}

func (f *fakeOrdersService) SetStatus(_ context.Context, id uint, status string) (domain.Order, error) {
	f.status = status
	if f.statusErr != nil {
		return domain.Order{}, f.statusErr
	}
	return domain.Order{ID: id, Status: status}, nil
}

func (f *fakeOrdersService) CancelOrder(_ context.Context, id uint) (domain.Order, error) {
	f.cancelled = id
	if f.cancelErr != nil {
		return domain.Order{}, f.cancelErr
	}
	return domain.Order{ID: id, Status: domain.OrderStatusCancelled}, nil
}

func (f *fakeOrdersService) GetOrder(_ context.Context, id uint) (domain.Order, error) {
	if id != 1 {
		return domain.Order{}, domain.ErrNotFound
	}
	return domain.Order{ID: 1, Status: domain.OrderStatusPending}, nil
}

func (f *fakeOrdersService) ListOrders(_ context.Context, filter domain.OrderFilter, page domain.Page) (domain.PageResult[domain.Order], error) {
	f.filter = filter
	return domain.NewPageResult([]domain.Order{{ID: 2}, {ID: 1}}, 2, page), nil
}

func (f *fakeOrdersService) ListOrdersForWallet(_ context.Context, wallet string, page domain.Page) (domain.PageResult[domain.Order], error) {
	f.wallet = wallet
	if f.walletErr != nil {
		return domain.PageResult[domain.Order]{}, f.walletErr
	}
	return domain.NewPageResult[domain.Order](nil, 0, page), nil
}

func newOrdersServer(svc OrdersService) *echo.Echo {
	h := NewOrdersHandler(svc, 5*time.Second)
	e := echo.New()
	e.POST("/orders", h.CreateOrder)
	e.GET("/orders", h.GetAllOrders)
	e.GET("/orders/user/:wallet_address", h.GetOrdersByWallet)
	e.GET("/orders/:id", h.GetOrderByID)
	e.POST("/orders/:id/confirm", h.ConfirmOrder)
	e.PUT("/orders/:id/status", h.UpdateStatus)
	e.POST("/orders/:id/cancel", h.CancelOrder)
	return e
}

const testWallet = "0x742d35cc6634c0532925a3b8d4c9db96c4b5da5a"

func TestCreateOrder(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	body := fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s","quantity":2,"customer_info":{"name":"Ash"}}`, testWallet)
	rec := doRequest(e, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, uint(3), svc.input.CardID)
	assert.Equal(t, 2, svc.input.Quantity)
	assert.Equal(t, testWallet, svc.input.BuyerWalletAddress)
	assert.JSONEq(t, `{"name":"Ash"}`, string(svc.input.CustomerInfo))
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Contains(t, rec.Body.String(), `"total_price_eth":2`)
}

func TestCreateOrderDefaultsQuantity(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodPost, "/orders", fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s","customer_info":null}`, testWallet))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.input.Quantity)
	assert.Nil(t, svc.input.CustomerInfo)
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing card", fmt.Sprintf(`{"buyer_wallet_address":"%s"}`, testWallet), nil, http.StatusBadRequest},
		{"missing wallet", `{"card_id":3}`, nil, http.StatusBadRequest},
		{"zero quantity", fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s","quantity":0}`, testWallet), nil, http.StatusBadRequest},
		{"bad email", fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s","email":"nope"}`, testWallet), nil, http.StatusBadRequest},
		{"insufficient stock", fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s"}`, testWallet), fmt.Errorf("%w: insufficient stock", domain.ErrInvalidRequest), http.StatusBadRequest},
		{"unknown card", fmt.Sprintf(`{"card_id":3,"buyer_wallet_address":"%s"}`, testWallet), domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newOrdersServer(&fakeOrdersService{createErr: tt.err})
			rec := doRequest(e, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetAllOrdersFilters(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodGet, "/orders?status=pending&user_id=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderFilter{UserID: 5, Status: "pending"}, svc.filter)
	assert.Contains(t, rec.Body.String(), `"orders":[`)
	assert.Contains(t, rec.Body.String(), `"total":2`)

	rec = doRequest(e, http.MethodGet, "/orders?user_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderByID(t *testing.T) {
	e := newOrdersServer(&fakeOrdersService{})

	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/orders/1", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/orders/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/orders/x", "").Code)
}

func TestConfirmOrder(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodPost, "/orders/1/confirm", `{"transaction_hash":"0xabc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xabc", svc.confirmed)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = doRequest(e, http.MethodPost, "/orders/1/confirm", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmOrderDuplicateHash(t *testing.T) {
	e := newOrdersServer(&fakeOrdersService{confirmErr: fmt.Errorf("%w: transaction hash already used", domain.ErrConflict)})

	rec := doRequest(e, http.MethodPost, "/orders/1/confirm", `{"transaction_hash":"0xabc"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodPut, "/orders/1/status", `{"status":"cancelled"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", svc.status)

	e = newOrdersServer(&fakeOrdersService{statusErr: fmt.Errorf("%w: invalid status", domain.ErrInvalidRequest)})
	rec = doRequest(e, http.MethodPut, "/orders/1/status", `{"status":"refunded"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrdersByWallet(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodGet, "/orders/user/"+testWallet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testWallet, svc.wallet)
	assert.JSONEq(t, `{"orders":[],"total":0,"pages":0,"current_page":1}`, rec.Body.String())

	e = newOrdersServer(&fakeOrdersService{walletErr: fmt.Errorf("%w: invalid wallet", domain.ErrInvalidRequest)})
	rec = doRequest(e, http.MethodGet, "/orders/user/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrder(t *testing.T) {
	svc := &fakeOrdersService{}
	e := newOrdersServer(svc)

	rec := doRequest(e, http.MethodPost, "/orders/7/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, svc.cancelled)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{"bad id", "/orders/abc/cancel", nil, http.StatusBadRequest},
		{"not pending", "/orders/7/cancel", fmt.Errorf("%w: only pending orders can be cancelled", domain.ErrInvalidRequest), http.StatusBadRequest},
		{"missing", "/orders/7/cancel", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newOrdersServer(&fakeOrdersService{cancelErr: tt.err})
			rec := doRequest(e, http.MethodPost, tt.target, "")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
