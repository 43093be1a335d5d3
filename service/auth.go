package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/parsegen/cache"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey int

const ctxKeyAdmin ctxKey = iota

// generateJWT signs a token for u, good for an hour. The sign key mixes in
// the stored password hash and last-logout time so that a password change
// or logout invalidates every token issued before it.
func (s *Service) generateJWT(u cache.AdminUser) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "parsegen",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": u.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(s.signKey(u))
}

func (s *Service) signKey(u cache.AdminUser) []byte {
	var key []byte
	key = append(key, s.jwtSecret...)
	key = append(key, []byte(u.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", u.LastLogoutTime.Unix()))...)
	return key
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func (s *Service) validateJWT(ctx context.Context, tokStr string) (cache.AdminUser, error) {
	var user cache.AdminUser

	_, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}
		user, err = s.store.GetAdminByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("subject could not be validated")
		}
		return s.signKey(user), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("parsegen"), jwt.WithLeeway(time.Minute))

	if err != nil {
		return cache.AdminUser{}, err
	}
	return user, nil
}

// requireAdmin is middleware that rejects any request without a valid
// bearer token for an admin account, attaching the resolved cache.AdminUser
// to the request context on success.
func (s *Service) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			Unauthorized("", "%s", err.Error()).WriteResponse(w, s.log)
			time.Sleep(s.unauthDelay)
			return
		}
		user, err := s.validateJWT(req.Context(), tok)
		if err != nil {
			Unauthorized("", "%s", err.Error()).WriteResponse(w, s.log)
			time.Sleep(s.unauthDelay)
			return
		}
		ctx := context.WithValue(req.Context(), ctxKeyAdmin, user)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func adminFromContext(ctx context.Context) (cache.AdminUser, bool) {
	u, ok := ctx.Value(ctxKeyAdmin).(cache.AdminUser)
	return u, ok
}
