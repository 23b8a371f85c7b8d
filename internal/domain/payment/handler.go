package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/payments", h.List)
	api.POST("/payments", h.Create, auth.RequireRole(auth.RolePatient))
	api.GET("/payments/:id", h.Get)
	api.POST("/payments/:id/pay", h.Pay, auth.RequireRole(auth.RolePatient))
	api.POST("/payments/:id/fail", h.Fail, auth.RequireRole(auth.RolePatient))
	api.GET("/payments/:id/receipt", h.Receipt)
	api.GET("/doctors/:id/stats", h.Stats, auth.RequireRole(auth.RoleDoctor))
	api.GET("/doctors/:id/statement", h.Statement, auth.RequireRole(auth.RoleDoctor))
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "payment not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotPaid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type createPayload struct {
	AppointmentID string `json:"appointment_id"`
}

func (h *Handler) Create(c echo.Context) error {
	var p createPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	apptID, err := uuid.Parse(p.AppointmentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment_id")
	}
	pay, err := h.svc.Create(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), apptID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, pay)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Pay(c echo.Context) error {
	return h.settle(c, h.svc.Pay)
}

func (h *Handler) Fail(c echo.Context) error {
	return h.settle(c, h.svc.Fail)
}

func (h *Handler) settle(c echo.Context, fn func(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Payment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := fn(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Receipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pdf, err := h.svc.Receipt(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) Stats(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	stats, err := h.svc.StatsForDoctor(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

const dateLayout = "2006-01-02"

func (h *Handler) Statement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	// Default period: the current calendar month.
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)
	if v := c.QueryParam("from"); v != "" {
		from, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		to, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
		}
	}

	pdf, err := h.svc.Statement(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
