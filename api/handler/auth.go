package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/identigo/backend/api/transport"
	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/i18n"
	"github.com/identigo/backend/pkg/httpcontext"
	authUC "github.com/identigo/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	auth *authUC.UseCase
}

func NewAuthHandler(auth *authUC.UseCase, adapter *httpcontext.Adapter, catalog *i18n.Catalog, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, catalog, logger),
		auth:        auth,
	}
}

// @Summary Issue a bearer token for a credential pair
// @Tags auth
// @Router /api/1.0/auth [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.CredentialsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.auth.IssueToken(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondJSON(ctx, http.StatusOK, transport.TokenResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}
