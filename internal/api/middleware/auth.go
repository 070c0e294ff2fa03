package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type subjectKey struct{}

var errMissingBearer = errors.New("missing or malformed Authorization header")

// Auth verifies the HS256 bearer token and stores its sub claim as the
// request subject.
func Auth(secret string) func(next http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := verifyBearer(parser, keyFunc, r.Header.Get("Authorization"))
			if err != nil {
				ctxzap.Warn(r.Context(), "request rejected", zap.Error(err))
				response.Fail(w, http.StatusUnauthorized, entity.ErrUnauthorized.Error())
				return
			}

			ctx := WithSubject(r.Context(), subject)
			ctx = logger.WithSubject(ctx, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyBearer(parser *jwt.Parser, keyFunc jwt.Keyfunc, header string) (string, error) {
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenStr) == "" {
		return "", errMissingBearer
	}

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(strings.TrimSpace(tokenStr), claims, keyFunc); err != nil {
		return "", err
	}
	return subjectClaim(claims)
}

// subjectClaim reads sub as a string. Numeric ids issued by older clients
// decode as float64.
func subjectClaim(claims jwt.MapClaims) (string, error) {
	switch v := claims["sub"].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	}
	return "", errors.New("token has no usable sub claim")
}

// WithSubject stores the authenticated subject id in ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the subject id stored by Auth.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}
