package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"eventspark/src/config"
	"eventspark/src/types"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const ticketNumberMaxLength = 40

var ErrInvalidToken = errors.New("invalid token")

func GenerateJWT(user types.CurrentUser) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email: user.Email,
		Name:  user.Name,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.GetJWTTTL())),
			Issuer:    "eventspark",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.GetJWTSecret())
}

// ParseJWT validates the signature and expiry and returns the user id in the subject.
func ParseJWT(tokenString string) (uint, *types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return config.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, nil, err
	}
	if !tkn.Valid {
		return 0, nil, ErrInvalidToken
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return 0, nil, ErrInvalidToken
	}
	return uint(uid), claims, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateCode returns n random bytes as uppercase hex.
func GenerateCode(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:n*2]
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func NewPaymentReference() string {
	return "TEST-" + GenerateCode(4)
}

// NewTicketNumber builds EVT<event>-TT<type>-<random>, at most 40 characters.
func NewTicketNumber(eventID, ticketTypeID uint) string {
	n := fmt.Sprintf("EVT%d-TT%d-%s", eventID, ticketTypeID, strings.ReplaceAll(uuid.NewString(), "-", ""))
	if len(n) > ticketNumberMaxLength {
		n = n[:ticketNumberMaxLength]
	}
	return n
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// ClampPage raises page and pageSize to at least 1 and caps pageSize.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > config.MAX_PAGE_SIZE {
		pageSize = config.MAX_PAGE_SIZE
	}
	return page, pageSize
}
