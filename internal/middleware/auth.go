package middleware

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/pkg/httpcontext"
)

const identityHeader = "X-User-ID"

// CredentialVerifier checks an email/password pair and returns the matched user.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
}

// TokenVerifier resolves an opaque bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// BasicAuth attaches the authenticated user's id when the request carries a
// valid Basic credential pair. It never rejects: handlers decide what an
// anonymous request is allowed to do. The identity header is always stripped
// first so clients cannot smuggle one in.
func BasicAuth(verifier CredentialVerifier, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(identityHeader)

			email, pass, ok := basicCredentials(ctx)
			if ok {
				stdCtx, cancel := adapter.Attach(ctx)
				user, err := verifier.VerifyCredentials(stdCtx, email, pass)
				cancel()
				if err == nil {
					ctx.Request.Header.Set(identityHeader, user.ID)
				} else if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Warn("credential verification failed", zap.Error(err))
				}
			}

			next(ctx)
		}
	}
}

// BearerAuth attaches the user id owning a presented bearer token. Like
// BasicAuth it is pass-through on failure.
func BearerAuth(verifier TokenVerifier, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(identityHeader)

			token := bearerToken(ctx)
			if token != "" {
				stdCtx, cancel := adapter.Attach(ctx)
				userID, err := verifier.VerifyToken(stdCtx, token)
				cancel()
				if err == nil {
					ctx.Request.Header.Set(identityHeader, userID)
				} else if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Warn("token verification failed", zap.Error(err))
				}
			}

			next(ctx)
		}
	}
}

func basicCredentials(ctx *fasthttp.RequestCtx) (string, string, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}
	email, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return email, pass, true
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
