package admin

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/admin/dashboard", h.Dashboard, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Dashboard(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	d, err := h.svc.Dashboard(c.Request().Context(), actor)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, d)
}
