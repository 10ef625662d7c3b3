package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carviz/internal/models"

	"github.com/labstack/gommon/log"
)

var (
	ErrUnknownWidget = errors.New("unknown widget")
	ErrInvalidOption = errors.New("value is not one of the widget options")
	ErrUnknownChart  = errors.New("unknown chart")
	ErrClosed        = errors.New("session is not running")
	ErrRenderPanic   = errors.New("chart update panicked")
)

// UpdateFunc builds a chart from the current values of a binding's inputs,
// passed in the order the inputs were declared.
type UpdateFunc func(values ...string) (*models.Chart, error)

// Binding declares that Output is recomputed by Update whenever any of
// Inputs changes. A binding without inputs is rendered once.
type Binding struct {
	Output string
	Inputs []string
	Update UpdateFunc
}

// Session owns the selection state and the current charts of one user.
// All state is touched only from the goroutine running Run.
type Session struct {
	title string

	widgets     []*models.Widget
	widgetByID  map[string]*models.Widget
	bindings    []Binding
	subscribers map[string][]int // widget id -> binding indexes
	charts      map[string]*models.Chart

	ops     chan func()
	stopped chan struct{}
}

func NewSession(title string) *Session {
	return &Session{
		title:       title,
		widgetByID:  make(map[string]*models.Widget),
		subscribers: make(map[string][]int),
		charts:      make(map[string]*models.Chart),
		ops:         make(chan func()),
		stopped:     make(chan struct{}),
	}
}

// AddWidget registers a widget. Its value must be one of its options.
func (s *Session) AddWidget(w models.Widget) error {
	if _, ok := s.widgetByID[w.ID]; ok {
		return fmt.Errorf("widget %q registered twice", w.ID)
	}
	if !contains(w.Options, w.Value) {
		return fmt.Errorf("widget %q default %q: %w", w.ID, w.Value, ErrInvalidOption)
	}
	w.Options = append([]string(nil), w.Options...)
	s.widgets = append(s.widgets, &w)
	s.widgetByID[w.ID] = &w
	return nil
}

// Bind adds a subscription and renders its output with the current values.
func (s *Session) Bind(b Binding) error {
	if _, ok := s.charts[b.Output]; ok {
		return fmt.Errorf("output %q bound twice", b.Output)
	}
	for _, in := range b.Inputs {
		if _, ok := s.widgetByID[in]; !ok {
			return fmt.Errorf("output %q input %q: %w", b.Output, in, ErrUnknownWidget)
		}
	}

	chart, err := s.render(b)
	if err != nil {
		return err
	}
	idx := len(s.bindings)
	s.bindings = append(s.bindings, b)
	for _, in := range b.Inputs {
		s.subscribers[in] = append(s.subscribers[in], idx)
	}
	s.charts[b.Output] = chart
	return nil
}

// render runs on the event loop, so a panicking update is reported as an
// error and the loop keeps serving.
func (s *Session) render(b Binding) (chart *models.Chart, err error) {
	values := make([]string, len(b.Inputs))
	for i, in := range b.Inputs {
		values[i] = s.widgetByID[in].Value
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("render %s %v: panic: %v", b.Output, values, r)
			chart, err = nil, fmt.Errorf("render %s: %w: %v", b.Output, ErrRenderPanic, r)
		}
	}()
	chart, err = b.Update(values...)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", b.Output, err)
	}
	chart.ID = b.Output
	return chart, nil
}

// Run processes events one at a time until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-s.ops:
			op()
		}
	}
}

// do executes op on the event loop and waits for it to finish.
func (s *Session) do(ctx context.Context, op func()) error {
	done := make(chan struct{})
	select {
	case s.ops <- func() { op(); close(done) }:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch applies a widget change and returns the charts it re-rendered,
// in binding order. Either every dependent chart is re-rendered or the
// change is rolled back.
func (s *Session) Dispatch(ctx context.Context, widgetID, value string) ([]*models.Chart, error) {
	var (
		updated []*models.Chart
		opErr   error
	)
	err := s.do(ctx, func() {
		updated, opErr = s.apply(widgetID, value)
	})
	if err != nil {
		return nil, err
	}
	return updated, opErr
}

func (s *Session) apply(widgetID, value string) ([]*models.Chart, error) {
	w, ok := s.widgetByID[widgetID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", widgetID, ErrUnknownWidget)
	}
	if !contains(w.Options, value) {
		return nil, fmt.Errorf("%q for %s: %w", value, widgetID, ErrInvalidOption)
	}
	if w.Value == value {
		return []*models.Chart{}, nil
	}

	start := time.Now()
	prev := w.Value
	w.Value = value

	updated := make([]*models.Chart, 0, len(s.subscribers[widgetID]))
	for _, idx := range s.subscribers[widgetID] {
		chart, err := s.render(s.bindings[idx])
		if err != nil {
			w.Value = prev
			return nil, err
		}
		updated = append(updated, chart)
	}
	for _, c := range updated {
		s.charts[c.ID] = c
	}

	log.Debugf("%s: %s -> %s re-rendered %d chart(s) in %v", widgetID, prev, value, len(updated), time.Since(start))
	return updated, nil
}

// Layout snapshots the widgets and every chart in binding order.
func (s *Session) Layout(ctx context.Context) (models.Layout, error) {
	var layout models.Layout
	err := s.do(ctx, func() {
		layout = models.Layout{
			Title:   s.title,
			Widgets: make([]models.Widget, len(s.widgets)),
			Charts:  make([]*models.Chart, len(s.bindings)),
		}
		for i, w := range s.widgets {
			layout.Widgets[i] = *w
		}
		for i, b := range s.bindings {
			layout.Charts[i] = s.charts[b.Output]
		}
	})
	return layout, err
}

// Chart returns the current chart for an output.
func (s *Session) Chart(ctx context.Context, id string) (*models.Chart, error) {
	var (
		chart *models.Chart
		ok    bool
	)
	if err := s.do(ctx, func() { chart, ok = s.charts[id] }); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownChart)
	}
	return chart, nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
