package middleware

import (
	"Inventaris/internal/model"
	"Inventaris/internal/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName: имя cookie с JWT.
const CookieName = "auth_token"

// TokenTTL: срок жизни токена.
const TokenTTL = 24 * time.Hour

type ctxKey int

const callerKey ctxKey = iota

// Claims: содержимое JWT.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64      `json:"uid"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
}

// IssueToken подписывает JWT для пользователя (HS256).
func IssueToken(u *model.User, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: u.ID,
		Name:   u.Name,
		Role:   u.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SetLoginCookie выпускает токен и кладёт его в cookie. Токен возвращается для тела ответа.
func SetLoginCookie(w http.ResponseWriter, u *model.User, secret string) (string, error) {
	token, err := IssueToken(u, secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TokenTTL),
	})
	return token, nil
}

// ClearLoginCookie стирает cookie.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

func parseToken(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(raw)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithAuth читает JWT из заголовка Authorization: Bearer или из cookie.
// Без токена или с плохим токеном запрос идёт дальше анонимным.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := parseToken(raw, secret)
			if err != nil {
				logDebug("rejected auth token", "error", err, "request_id", chimw.GetReqID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}
			caller := service.Caller{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
		})
	}
}

// RequireAuth отвечает 401, если запрос анонимный.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetCallerFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":      "authentication required",
				"code":       "UNAUTHORIZED",
				"request_id": chimw.GetReqID(r.Context()),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCallerFromContext достаёт вызывающего, положенного WithAuth.
func GetCallerFromContext(ctx context.Context) (service.Caller, bool) {
	c, ok := ctx.Value(callerKey).(service.Caller)
	return c, ok
}

// GetUserIDFromContext: только id вызывающего.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	c, ok := GetCallerFromContext(ctx)
	return c.UserID, ok
}

// WithCaller кладёт вызывающего в контекст (для тестов обработчиков).
func WithCaller(ctx context.Context, c service.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}
