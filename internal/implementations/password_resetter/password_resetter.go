package passwordresetter

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	e "taskhive/internal/core/domain/errors"
	"taskhive/internal/core/domain/user"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT issues HS256-signed reset tokens with the user ID as subject claim and a
// fixed validity window. The claims also carry a fingerprint of the password
// hash the token was issued against, so every outstanding token becomes
// invalid as soon as the password changes.
type JWT struct {
	secretKey     []byte
	validDuration time.Duration
	now           func() time.Time
}

func NewJWT(secretKey string, validDuration time.Duration, now func() time.Time) *JWT {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{
		secretKey:     []byte(secretKey),
		validDuration: validDuration,
		now:           now,
	}
}

type resetClaims struct {
	Fingerprint string `json:"fph"`
	jwt.RegisteredClaims
}

func (j *JWT) GenerateToken(u user.User) (token user.PasswordResetToken, err error) {
	if len(j.secretKey) == 0 {
		return token, e.NewInvalidInputError("secretKey")
	}
	if u.ID == 0 {
		return token, e.NewInvalidInputError("user")
	}
	now := j.now()
	claims := resetClaims{
		Fingerprint: j.fingerprint(u.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.validDuration)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return token, err
	}
	return user.PasswordResetToken(signed), nil
}

// GetUserID decodes the subject claim without verifying the signature.
// Verification happens in ValidateToken once the user record is loaded.
func (j *JWT) GetUserID(token user.PasswordResetToken) (userID user.ID, ok bool) {
	claims := &resetClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(string(token), claims)
	if err != nil {
		return userID, false
	}
	rawID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return userID, false
	}
	return user.ID(rawID), true
}

func (j *JWT) ValidateToken(u user.User, token user.PasswordResetToken) bool {
	claims := &resetClaims{}
	parsed, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	).ParseWithClaims(string(token), claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	if claims.Subject != strconv.FormatInt(int64(u.ID), 10) {
		return false
	}
	expectedFingerprint := j.fingerprint(u.PasswordHash)
	return subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(expectedFingerprint)) == 1
}

func (j *JWT) fingerprint(hash user.PasswordHash) string {
	mac := hmac.New(sha256.New, j.secretKey)
	mac.Write([]byte(hash))
	return hex.EncodeToString(mac.Sum(nil))
}
