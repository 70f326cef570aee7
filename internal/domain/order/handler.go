package order

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lims/lims/internal/platform/apperror"
	"github.com/lims/lims/internal/platform/auth"
	"github.com/lims/lims/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api, admin *echo.Group) {
	// Orders are placed at reception and worked by technicians, so the
	// full staff set can read and write.
	group := api.Group("", auth.RequireRole("admin", "technician", "receptionist"))
	group.GET("/orders", h.List)
	group.GET("/orders/:id", h.Get)
	group.POST("/orders", h.Create)
	group.PUT("/orders/:id", h.Update)
	group.DELETE("/orders/:id", h.Delete)

	// Raw lookup that also returns soft-deleted orders
	admin.GET("/orders/:id", h.GetAny)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return httpError(err)
	}
	o, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) GetAny(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.GetAny(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) List(c echo.Context) error {
	f := ListFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.PatientID = &id
	}
	if v := c.QueryParam("min_total_cost"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_total_cost")
		}
		f.MinTotalCost = &d
	}
	if v := c.QueryParam("max_total_cost"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_total_cost")
		}
		f.MaxTotalCost = &d
	}
	if v := c.QueryParam("ready_date_from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ready_date_from")
		}
		f.ReadyDateFrom = &ts
	}
	if v := c.QueryParam("ready_date_to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ready_date_to")
		}
		f.ReadyDateTo = &ts
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, pg)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return httpError(err)
	}
	o, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// httpError converts a service error into an echo HTTP error using the
// apperror kind for the status code. Validation errors carry their
// field map in the body.
func httpError(err error) *echo.HTTPError {
	if fields := apperror.FieldsOf(err); len(fields) > 0 {
		return echo.NewHTTPError(apperror.Status(err), map[string]interface{}{
			"message": err.Error(),
			"fields":  fields,
		})
	}
	return echo.NewHTTPError(apperror.Status(err), err.Error())
}
