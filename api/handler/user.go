package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/identigo/backend/api/transport"
	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/i18n"
	"github.com/identigo/backend/pkg/httpcontext"
	registrationUC "github.com/identigo/backend/usecase/registration"
	usersUC "github.com/identigo/backend/usecase/users"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type UserHandler struct {
	baseHandler
	registration *registrationUC.UseCase
	users        *usersUC.UseCase
}

func NewUserHandler(registration *registrationUC.UseCase, users *usersUC.UseCase, adapter *httpcontext.Adapter, catalog *i18n.Catalog, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler:  newBaseHandler(adapter, catalog, logger),
		registration: registration,
		users:        users,
	}
}

// @Summary Register a new account
// @Tags users
// @Router /api/1.0/users [post]
func (h *UserHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	err := h.registration.Register(stdCtx, registrationUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "user_create_success")
}

// @Summary Activate an account with its activation token
// @Tags users
// @Router /api/1.0/users/token/{token} [post]
func (h *UserHandler) Activate(ctx *fasthttp.RequestCtx) {
	token, _ := ctx.UserValue("token").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.registration.Activate(stdCtx, token); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "account_activation_success")
}

// @Summary List active users
// @Tags users
// @Router /api/1.0/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	authID := h.authenticatedID(ctx)
	if authID == "" {
		h.respondError(ctx, domain.ErrAuthenticationFailed)
		return
	}

	page := parseInt(string(ctx.QueryArgs().Peek("page")), 0)
	size := parseInt(string(ctx.QueryArgs().Peek("size")), defaultPageSize)
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.users.List(stdCtx, page, size, authID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := transport.PageResponse{
		Content:    make([]transport.UserResponse, 0, len(result.Users)),
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages,
	}
	for _, user := range result.Users {
		resp.Content = append(resp.Content, publicUser(&user))
	}
	h.respondJSON(ctx, http.StatusOK, resp)
}

// @Summary Look up an active user by id
// @Tags users
// @Router /api/1.0/users/{id} [get]
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.users.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, publicUser(user))
}

// @Summary Update own profile
// @Tags users
// @Router /api/1.0/users/{id} [put]
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	authID := h.authenticatedID(ctx)

	var req transport.UpdateUserRequest
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			h.respondError(ctx, domain.ErrInvalidPayload)
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.users.UpdateUsername(stdCtx, authID, id, req.Username); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusOK)
}

func publicUser(user *domain.User) transport.UserResponse {
	return transport.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
