package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carviz/internal/dashboard"
	"carviz/internal/engine"
	"carviz/internal/models"

	"github.com/labstack/echo/v4"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	store, err := engine.Load("../engine/testdata/carprice_sample.csv", "car_ID")
	if err != nil {
		t.Fatal(err)
	}
	session, err := dashboard.New(store, "Car Price Visualization", dashboard.DefaultSelection())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)
	t.Cleanup(cancel)

	e := echo.New()
	NewHandler(session, store, Options{Title: "Car Price Visualization", ImageWidth: 200, ImageHeight: 150}).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Car Price Visualization</title>") {
		t.Error("page title missing")
	}

	rec = do(e, http.MethodGet, "/static/app.js", "")
	if rec.Code != http.StatusOK {
		t.Errorf("static app.js: expected 200, got %d", rec.Code)
	}
}

func TestGetLayout(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var layout models.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Widgets) != 5 || len(layout.Charts) != 4 {
		t.Fatalf("Expected 5 widgets and 4 charts, got %d and %d", len(layout.Widgets), len(layout.Charts))
	}
	if layout.Charts[1].Heatmap == nil {
		t.Error("heatmap payload missing")
	}
}

func TestUpdateWidget(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/widgets/numerical_axis_histbox", `{"value":"citympg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Updated []models.Chart `json:"updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Updated) != 2 {
		t.Fatalf("Expected histogram and box plot, got %d charts", len(resp.Updated))
	}
	if resp.Updated[0].ID != "histogram_plot" || resp.Updated[0].XAxis != "citympg" || resp.Updated[0].ColorBy != "carbody" {
		t.Errorf("Unexpected histogram %s %s/%s", resp.Updated[0].ID, resp.Updated[0].XAxis, resp.Updated[0].ColorBy)
	}

	// the stored chart follows the change
	rec = do(e, http.MethodGet, "/api/charts/histogram_plot", "")
	var hist models.Chart
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if hist.XAxis != "citympg" {
		t.Errorf("Expected stored histogram on citympg, got %s", hist.XAxis)
	}
}

func TestUpdateWidgetErrors(t *testing.T) {
	e := newServer(t)

	cases := []struct {
		target, body string
		code         int
	}{
		{"/api/widgets/scatter_x_axis", `{"value":"carbody"}`, http.StatusBadRequest},
		{"/api/widgets/nope", `{"value":"price"}`, http.StatusNotFound},
		{"/api/widgets/scatter_x_axis", `{"value":`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := do(e, http.MethodPost, c.target, c.body)
		if rec.Code != c.code {
			t.Errorf("POST %s %s: expected %d, got %d", c.target, c.body, c.code, rec.Code)
		}
	}
}

func TestGetChartNotFound(t *testing.T) {
	e := newServer(t)
	if rec := do(e, http.MethodGet, "/api/charts/pie", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetChartImage(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodGet, "/api/charts/box_plot/image.png?w=300", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestDatasetEndpoints(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/dataset", "")
	var info models.DatasetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Rows != 12 || len(info.Numerical)+len(info.Categorical) != len(info.Columns) {
		t.Errorf("Unexpected dataset info %+v", info)
	}

	rec = do(e, http.MethodGet, "/api/dataset/rows?limit=5&offset=10", "")
	var page struct {
		Data   []map[string]interface{} `json:"data"`
		Total  int                      `json:"total"`
		Offset int                      `json:"offset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 12 || page.Offset != 10 || len(page.Data) != 2 {
		t.Errorf("Unexpected page total=%d offset=%d rows=%d", page.Total, page.Offset, len(page.Data))
	}
}
