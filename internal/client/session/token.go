package session

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// subjectClaims are checked in order for the user id a token was issued to.
var subjectClaims = []string{"sub", "user_id", "userId", "id"}

// subjectFromToken extracts a numeric user id from a JWT without verifying
// its signature; the server remains the authority on validity. It returns 0
// for opaque tokens or tokens without a numeric subject.
func subjectFromToken(token string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	for _, name := range subjectClaims {
		switch v := claims[name].(type) {
		case float64:
			if v > 0 && v == float64(int64(v)) {
				return int64(v)
			}
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				return id
			}
		}
	}
	return 0
}
