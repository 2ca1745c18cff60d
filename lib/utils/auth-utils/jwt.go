package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"noblelift-backend/config"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	ClaimSub  = "sub"
	ClaimType = "type"
)

func GetToken(userID string) (tokenString string, err error) {
	return newToken(userID, AccessToken, config.Conf.Auth.AccessExpireInSec)
}

func GetRefreshToken(userID string) (tokenString string, err error) {
	return newToken(userID, RefreshToken, config.Conf.Auth.RefreshExpireInSec)
}

func newToken(userID string, tokenType TokenType, expireInSec int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimSub:  userID,
		ClaimType: string(tokenType),
		"exp":     now.Add(time.Second * time.Duration(expireInSec)).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

// ParseToken проверка подписи и срока, возвращает sub при совпадении типа токена
func ParseToken(tokenString string, tokenType TokenType) (userID string, err error) {
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(err, "токен не прошел проверку")
	}
	if !IsTokenType(claims, tokenType) {
		return "", errors.New("неверный тип токена")
	}
	userID, _ = claims[ClaimSub].(string)
	if userID == "" {
		return "", errors.New("в токене отсутствует sub")
	}
	return userID, nil
}

func IsTokenType(claims jwt.MapClaims, tokenType TokenType) bool {
	value, _ := claims[ClaimType].(string)
	return value == string(tokenType)
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}
