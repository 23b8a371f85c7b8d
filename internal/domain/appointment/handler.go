package appointment

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
	api.GET("/appointments", h.List)
	api.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	api.GET("/appointments/:id", h.Get)
	api.PUT("/appointments/:id", h.Update, auth.RequireRole(auth.RolePatient))
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole(auth.RolePatient))
	api.POST("/appointments/:id/approve", h.Approve, auth.RequireRole(auth.RoleAdmin))
	api.POST("/appointments/:id/deny", h.Deny, auth.RequireRole(auth.RoleAdmin))
	api.POST("/appointments/:id/schedule", h.Schedule, auth.RequireRole(auth.RoleAdmin))
	api.POST("/appointments/:id/complete", h.Complete, auth.RequireRole(auth.RoleDoctor))
	api.POST("/appointments/:id/cancel", h.Cancel)
}

// httpError maps the package's sentinel errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMessageRequired),
		errors.Is(err, ErrTimePassed), errors.Is(err, ErrSameDayCancel):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

const dateLayout = "2006-01-02"

type bookPayload struct {
	PatientID     string  `json:"patient_id"`
	DoctorID      string  `json:"doctor_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Reason        string  `json:"reason"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

func (h *Handler) Book(c echo.Context) error {
	var p bookPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req := BookRequest{
		Time:          p.Time,
		Reason:        p.Reason,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
	}
	if p.PatientID != "" {
		id, err := uuid.Parse(p.PatientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		req.PatientID = id
	}
	if p.DoctorID != "" {
		id, err := uuid.Parse(p.DoctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		req.DoctorID = id
	}
	if p.Date != "" {
		d, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		req.Date = d
	}

	a, err := h.svc.Book(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	q, err := queryFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), q, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// queryFromRequest reads the optional list filters. "range" is a convenience
// alias for from/to: today, week or month, anchored on the current day.
func queryFromRequest(c echo.Context) (Query, error) {
	q := Query{Search: c.QueryParam("search")}
	if st := c.QueryParam("status"); st != "" {
		s := Status(st)
		if !s.Valid() {
			return Query{}, errors.New("invalid status filter")
		}
		q.Status = s
	}
	if from := c.QueryParam("from"); from != "" {
		d, err := time.Parse(dateLayout, from)
		if err != nil {
			return Query{}, errors.New("invalid from date, want YYYY-MM-DD")
		}
		q.From = d
	}
	if to := c.QueryParam("to"); to != "" {
		d, err := time.Parse(dateLayout, to)
		if err != nil {
			return Query{}, errors.New("invalid to date, want YYYY-MM-DD")
		}
		q.To = d
	}
	switch c.QueryParam("range") {
	case "":
	case "today":
		now := time.Now()
		q.From, q.To = now, now
	case "week":
		now := time.Now()
		q.From, q.To = now, now.AddDate(0, 0, 7)
	case "month":
		now := time.Now()
		q.From, q.To = now, now.AddDate(0, 1, 0)
	default:
		return Query{}, errors.New("invalid range, want today, week or month")
	}
	return q, nil
}

type updatePayload struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Reason  string `json:"reason"`
	Version int    `json:"version"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p updatePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req := UpdateRequest{Time: p.Time, Reason: p.Reason, Version: p.Version}
	if p.Date != "" {
		d, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		req.Date = d
	}
	a, err := h.svc.Update(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Approve(c echo.Context) error  { return h.runTransition(c, h.svc.Approve) }
func (h *Handler) Deny(c echo.Context) error     { return h.runTransition(c, h.svc.Deny) }
func (h *Handler) Schedule(c echo.Context) error { return h.runTransition(c, h.svc.Schedule) }
func (h *Handler) Complete(c echo.Context) error { return h.runTransition(c, h.svc.Complete) }

func (h *Handler) runTransition(c echo.Context, fn func(ctx context.Context, actor auth.Identity, id uuid.UUID) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := fn(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type cancelPayload struct {
	Message string `json:"message"`
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p cancelPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Cancel(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id, p.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), auth.IdentityFromContext(c.Request().Context()), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
