package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/tandem/internal/models"
)

var (
	errMissingToken     = errors.New("missing auth token")
	errInvalidToken     = errors.New("invalid token")
	errNotCoupleMember  = errors.New("user is not a member of the token couple")
	errIncompleteClaims = errors.New("token is missing uid or cid")
)

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return strings.TrimSpace(c.Cookies(authCookieName))
}

func (handler *Handler) parseAuthToken(raw string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return handler.secretKey, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.UserID == 0 || claims.CoupleID == 0 {
		return nil, errIncompleteClaims
	}
	return claims, nil
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, uint, error) {
	raw := bearerToken(c)
	if raw == "" {
		return nil, 0, errMissingToken
	}

	claims, err := handler.parseAuthToken(raw)
	if err != nil {
		return nil, 0, err
	}

	member, err := handler.repositories.Users.FindMember(c.UserContext(), claims.CoupleID, claims.UserID)
	if err != nil {
		return nil, 0, errNotCoupleMember
	}
	return &member, claims.CoupleID, nil
}
