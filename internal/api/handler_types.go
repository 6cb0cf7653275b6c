package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/tandem/internal/db"
	"github.com/terraincognita07/tandem/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db                *gorm.DB
	secretKey         []byte
	location          *time.Location
	clock             services.Clock
	repositories      *db.Repositories
	routineService    *services.RoutineService
	occurrenceService *services.OccurrenceService
	statsService      *services.RoutineStatsService
}

// authClaims is the token shape issued by the identity service.
type authClaims struct {
	UserID   uint `json:"uid"`
	CoupleID uint `json:"cid"`
	jwt.RegisteredClaims
}
