// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-transfer/internal/domain"
	"github.com/go-petr/pet-transfer/internal/reporter"
	"github.com/go-petr/pet-transfer/pkg/errorspkg"
	"github.com/go-petr/pet-transfer/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Review(ctx context.Context, form domain.TransferForm) (domain.TransferRequest, error)
	Submit(ctx context.Context, form domain.TransferForm) (domain.Attempt, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Attempt, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type request struct {
	Recipient string `json:"recipient" binding:"max=64"`
	Amount    any    `json:"amount"`
}

func (r request) form() domain.TransferForm {
	return domain.TransferForm{Recipient: r.Recipient, Amount: r.Amount}
}

type reviewData struct {
	Request domain.TransferRequest `json:"request"`
}

type attemptData struct {
	Attempt domain.Attempt `json:"attempt"`
}

// invalid writes the response for a rejected form. It reports false when
// err is not a validation failure.
func invalid(gctx *gin.Context, err error) bool {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		return false
	}

	gctx.JSON(http.StatusBadRequest, web.Response{
		Error:  reporter.Message(fe),
		Fields: fe.Map(),
	})

	return true
}

// Review handles http request to normalize and validate a transfer without sending it.
func (h *Handler) Review(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	result, err := h.service.Review(ctx, req.form())
	if err != nil {
		if invalid(gctx, err) {
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: reviewData{result}})
}

// Create handles http request to submit a transfer. The transfer is accepted
// and keeps running after the response is written.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	attempt, err := h.service.Submit(ctx, req.form())
	if err != nil {
		if invalid(gctx, err) {
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusAccepted, web.Response{Data: attemptData{attempt}})
}

// getRequest is parsed with uuid.MustParse once the uuid tag has passed.
type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get a transfer attempt and, once known, its outcome.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	attempt, err := h.service.Get(ctx, uuid.MustParse(req.ID))
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: attemptData{attempt}})
}
