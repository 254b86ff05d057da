package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	billapp "github.com/billed/backend/internal/application/bill"
	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/route"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/logger"
	"github.com/billed/backend/internal/interfaces/http/dto"
	"github.com/billed/backend/internal/interfaces/http/middleware"
	"github.com/billed/backend/internal/interfaces/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const htmlContentType = "text/html; charset=utf-8"

// StoreFactory returns the bill store a session may list from
type StoreFactory func(s session.Context) billapp.Store

// URLResolver turns a stored justification reference into a URL the
// browser can load
type URLResolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// BillsHandler serves the employee bills page and its JSON twin
type BillsHandler struct {
	BaseHandler
	stores        StoreFactory
	resolver      URLResolver
	observer      billapp.RetrievalObserver
	defaultLocale string
}

// BillsHandlerOption configures a BillsHandler
type BillsHandlerOption func(*BillsHandler)

// WithURLResolver sets how preview URLs are resolved
func WithURLResolver(r URLResolver) BillsHandlerOption {
	return func(h *BillsHandler) {
		h.resolver = r
	}
}

// WithRetrievalObserver reports every bill retrieval to o
func WithRetrievalObserver(o billapp.RetrievalObserver) BillsHandlerOption {
	return func(h *BillsHandler) {
		h.observer = o
	}
}

// WithDefaultLocale sets the locale used when the request names none
func WithDefaultLocale(locale string) BillsHandlerOption {
	return func(h *BillsHandler) {
		if locale != "" {
			h.defaultLocale = locale
		}
	}
}

// NewBillsHandler creates a new BillsHandler
func NewBillsHandler(stores StoreFactory, opts ...BillsHandlerOption) *BillsHandler {
	h := &BillsHandler{
		stores:        stores,
		defaultLocale: "fr",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// controller builds the per-request controller for the signed-in session.
// navigator and presenter may be nil.
func (h *BillsHandler) controller(c *gin.Context, nav billapp.Navigator, presenter billapp.PreviewPresenter, formatter *billapp.Formatter) *billapp.Controller {
	s, _ := middleware.GetSession(c)
	var store billapp.Store
	if h.stores != nil {
		store = h.stores(s)
	}
	opts := []billapp.ControllerOption{
		billapp.WithFormatter(formatter),
		billapp.WithLogger(logger.L(c.Request.Context())),
	}
	if h.observer != nil {
		opts = append(opts, billapp.WithObserver(h.observer))
	}
	return billapp.NewController(store, nav, presenter, s, opts...)
}

// formatter picks the display locale: ?locale= wins over Accept-Language,
// which wins over the configured default.
func (h *BillsHandler) formatter(c *gin.Context, q dto.BillsQuery) *billapp.Formatter {
	switch {
	case q.Locale != "":
		return billapp.NewFormatterForLocale(q.Locale)
	case c.GetHeader("Accept-Language") != "":
		return billapp.NewFormatter(billapp.MatchLocale(c.GetHeader("Accept-Language")))
	default:
		return billapp.NewFormatterForLocale(h.defaultLocale)
	}
}

// ListBills returns the session's bills, latest first
// GET /api/v1/bills
func (h *BillsHandler) ListBills(c *gin.Context) {
	var q dto.BillsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	bills, err := h.controller(c, nil, nil, h.formatter(c, q)).GetBills(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view.SortByDateDesc(bills))
}

// BillsPage renders the bills page. A store failure renders the error
// state with the failure's status.
// GET /employee/bills
func (h *BillsHandler) BillsPage(c *gin.Context) {
	// An unsupported ?locale= falls back to Accept-Language and the default
	// locale: the page still renders where the JSON API answers 400.
	var q dto.BillsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = dto.BillsQuery{}
	}
	formatter := h.formatter(c, q)
	props := view.Props{Lang: langOf(formatter.Locale())}

	status := http.StatusOK
	bills, err := h.controller(c, nil, nil, formatter).GetBills(c.Request.Context())
	if err != nil {
		te := bill.AsTransportError(err)
		if !billapp.IsTransportFailure(err) {
			logger.L(c.Request.Context()).Error("Failed to load bills page", zap.Error(err))
		}
		status = te.StatusCode
		props.Error = te.Message
	} else {
		props.Data = view.SortByDateDesc(bills)
	}

	h.renderHTML(c, status, func(buf *bytes.Buffer) error {
		return view.Render(buf, props)
	})
}

// NewBill sends the user to the new bill form
// POST /employee/bills/new
func (h *BillsHandler) NewBill(c *gin.Context) {
	dest := route.Bills
	nav := billapp.NavigatorFunc(func(to route.ID) { dest = to })

	h.controller(c, nav, nil, billapp.NewFormatterForLocale(h.defaultLocale)).HandleClickNewBill()
	c.Redirect(http.StatusSeeOther, PagePath(dest))
}

// NewBillPage renders the page HandleClickNewBill navigates to
// GET /employee/bill/new
func (h *BillsHandler) NewBillPage(c *gin.Context) {
	lang := langOf(h.formatter(c, dto.BillsQuery{}).Locale())
	h.renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return view.RenderNewBill(buf, lang)
	})
}

// Preview renders the justification modal for the clicked bill. The file
// must belong to one of the bills the session can list.
// GET /employee/bills/preview?url=
func (h *BillsHandler) Preview(c *gin.Context) {
	var q dto.PreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	if q.URL != "" {
		owned, err := h.ownsFile(c, q.URL)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if !owned {
			logger.L(c.Request.Context()).Warn("Justification preview refused",
				zap.String("ref", q.URL),
			)
			h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Justification not found")
			return
		}
	}

	var shown string
	presenter := billapp.PresenterFunc(func(url string) { shown = url })
	icon := billapp.Attributes{}
	if q.URL != "" {
		icon[billapp.BillURLAttribute] = q.URL
	}
	h.controller(c, nil, presenter, billapp.NewFormatterForLocale(h.defaultLocale)).HandleClickIconEye(icon)

	if shown != "" && h.resolver != nil {
		resolved, err := h.resolver.ResolveURL(c.Request.Context(), shown)
		if err != nil {
			logger.L(c.Request.Context()).Warn("Failed to resolve justification URL",
				zap.String("ref", shown),
				zap.Error(err),
			)
			h.HandleError(c, err)
			return
		}
		shown = resolved
	}

	h.renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return view.RenderModal(buf, shown)
	})
}

// ownsFile reports whether ref is the file of a bill visible to the session
func (h *BillsHandler) ownsFile(c *gin.Context, ref string) (bool, error) {
	if h.stores == nil {
		return false, nil
	}
	s, _ := middleware.GetSession(c)
	store := h.stores(s)
	if store == nil {
		return false, nil
	}
	bills, err := store.List(c.Request.Context())
	if err != nil {
		return false, err
	}
	for _, b := range bills {
		if b.FileURL == ref {
			return true, nil
		}
	}
	return false, nil
}

// renderHTML buffers the page so a template failure can still answer 500
func (h *BillsHandler) renderHTML(c *gin.Context, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.L(c.Request.Context()).Error("Failed to render page", zap.Error(err))
		h.InternalError(c)
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

// PagePath maps a navigation route to the server page serving it,
// e.g. "#employee/bill/new" to "/employee/bill/new".
func PagePath(id route.ID) string {
	p := id.Path()
	if rest, ok := strings.CutPrefix(p, "#"); ok {
		return "/" + rest
	}
	return p
}

func langOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
