package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"carviz/internal/dashboard"
	"carviz/internal/engine"
	"carviz/internal/models"
	"carviz/internal/render"
	"carviz/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Handler struct {
	session *dashboard.Session
	store   *engine.ColumnStore
	page    web.Page

	imageWidth, imageHeight int
}

type Options struct {
	Title       string
	Debug       bool
	ImageWidth  int
	ImageHeight int
}

func NewHandler(session *dashboard.Session, store *engine.ColumnStore, opts Options) *Handler {
	return &Handler{
		session:     session,
		store:       store,
		page:        web.Page{Title: opts.Title, Debug: opts.Debug},
		imageWidth:  opts.ImageWidth,
		imageHeight: opts.ImageHeight,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.StaticFS("/static", web.Static())

	api := e.Group("/api")
	api.GET("/layout", h.GetLayout)
	api.POST("/widgets/:id", h.UpdateWidget)
	api.GET("/charts/:id", h.GetChart)
	api.GET("/charts/:id/image.png", h.GetChartImage)
	api.GET("/dataset", h.GetDataset)
	api.GET("/dataset/rows", h.GetRows)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func getSize(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v <= 0 || v > 4096 {
		return def
	}
	return v
}

// toHTTPError maps session errors onto status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrUnknownWidget), errors.Is(err, dashboard.ErrUnknownChart):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrInvalidOption):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	log.Errorf("request failed: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Index(c echo.Context) error {
	var b bytes.Buffer
	if err := web.RenderIndex(&b, h.page); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, b.Bytes())
}

func (h *Handler) GetLayout(c echo.Context) error {
	layout, err := h.session.Layout(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, layout)
}

type widgetUpdate struct {
	Value string `json:"value"`
}

func (h *Handler) UpdateWidget(c echo.Context) error {
	var req widgetUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.session.Dispatch(c.Request().Context(), c.Param("id"), req.Value)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"updated": updated,
	})
}

func (h *Handler) GetChart(c echo.Context) error {
	chart, err := h.session.Chart(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, chart)
}

func (h *Handler) GetChartImage(c echo.Context) error {
	chart, err := h.session.Chart(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	img, err := render.PNG(chart, getSize(c, "w", h.imageWidth), getSize(c, "h", h.imageHeight))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Blob(http.StatusOK, "image/png", img)
}

func (h *Handler) GetDataset(c echo.Context) error {
	return c.JSON(http.StatusOK, models.DatasetInfo{
		Rows:        h.store.Len(),
		Columns:     h.store.Columns(),
		Categorical: h.store.Categorical(),
		Numerical:   h.store.Numerical(),
	})
}

func (h *Handler) GetRows(c echo.Context) error {
	total := h.store.Len()
	limit, offset := getPaginationParams(c, 20)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   h.store.Rows(offset, limit),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
