package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/identigo/backend/api/transport"
	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/i18n"
	"github.com/identigo/backend/pkg/httpcontext"
)

// identityHeader carries the authenticated user id attached by the auth
// middleware. Handlers treat an empty value as "not authenticated".
const identityHeader = "X-User-ID"

type baseHandler struct {
	adapter *httpcontext.Adapter
	catalog *i18n.Catalog
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, catalog *i18n.Catalog, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, catalog: catalog, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	var stdCtx context.Context
	var cancel context.CancelFunc
	if h.adapter != nil {
		stdCtx, cancel = h.adapter.Attach(ctx)
	} else {
		stdCtx, cancel = context.WithCancel(context.Background())
	}
	stdCtx = httpcontext.WithLocale(stdCtx, h.locale(ctx).String())
	return stdCtx, cancel
}

// locale negotiates the response language from the Accept-Language header.
func (h baseHandler) locale(ctx *fasthttp.RequestCtx) language.Tag {
	if h.catalog == nil {
		return language.English
	}
	return h.catalog.Match(string(ctx.Request.Header.Peek(fasthttp.HeaderAcceptLanguage)))
}

func (h baseHandler) authenticatedID(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek(identityHeader))
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondMessage renders a message key in the negotiated locale.
func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, status int, key string) {
	msg := h.resolve(key, h.locale(ctx))
	h.respondJSON(ctx, status, transport.MessageResponse{Message: msg})
}

// respondError translates any failure into the uniform error body. Locale
// selection changes only the rendered text; status codes and field keys are
// locale-independent.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	tag := h.locale(ctx)

	body := transport.ErrorResponse{
		Path:      string(ctx.Path()),
		Timestamp: time.Now().UnixMilli(),
		Message:   h.resolve(domain.MessageKey(err), tag),
	}

	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Code == domain.ErrCodeValidation {
		for _, fe := range dErr.Fields {
			body.ValidationErrors = append(body.ValidationErrors, transport.FieldError{
				Field:   fe.Field,
				Message: h.resolve(fe.Key, tag),
			})
		}
	}

	if domain.IsDomainError(err, domain.ErrCodeInternal) || dErr == nil {
		h.logger.Error("request failed", zap.String("path", body.Path), zap.Error(err))
	}

	h.respondJSON(ctx, statusFor(err), body)
}

func (h baseHandler) resolve(key string, tag language.Tag) string {
	if h.catalog == nil {
		return key
	}
	return h.catalog.Resolve(key, tag)
}

// statusFor maps the domain error taxonomy onto HTTP statuses. Absent and
// invalid credentials are both forbidden; this API does not use 401.
func statusFor(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeValidation),
		domain.IsDomainError(err, domain.ErrCodeActivation),
		domain.IsDomainError(err, domain.ErrCodeInvalid),
		domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeDelivery):
		return http.StatusBadGateway
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized),
		domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
