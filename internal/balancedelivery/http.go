// Package balancedelivery exposes the session balance over http.
package balancedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-transfer/internal/amount"
	"github.com/go-petr/pet-transfer/pkg/currencypkg"
	"github.com/go-petr/pet-transfer/pkg/web"
)

// Service provides service layer interface needed by balance delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package balancedelivery
type Service interface {
	Balance(ctx context.Context) decimal.Decimal
}

// Handler facilitates balance delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns balance handler.
func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

type data struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

// Get handles http request to read the current balance.
func (h *Handler) Get(gctx *gin.Context) {
	balance := amount.Format(h.service.Balance(gctx.Request.Context()))

	gctx.JSON(http.StatusOK, web.Response{
		Data: data{
			Balance:  balance,
			Currency: currencypkg.EUR,
			Display:  currencypkg.Symbol(currencypkg.EUR) + balance,
		},
	})
}
