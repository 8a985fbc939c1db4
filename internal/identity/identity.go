// Package identity converts an account name into the opaque, URL-safe token used
// by the drill-down route and back.
//
// The transform is base64 over the UTF-8 bytes of the name. Anyone can recover the
// name from a token: it is an identifier, not access control.
package identity

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// ErrInvalidToken is returned when a token does not decode to a valid account name.
var ErrInvalidToken = errors.New("invalid account token")

// decoders are tried in order. The padded standard alphabet accepts links built
// with the browser's btoa.
var decoders = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.StdEncoding,
}

// Encode returns the route token for name.
func Encode(name string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(name))
}

// Decode returns the account name carried by token.
func Decode(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	for _, enc := range decoders {
		b, err := enc.DecodeString(token)
		if err != nil {
			continue
		}
		if len(b) == 0 || !utf8.Valid(b) {
			return "", ErrInvalidToken
		}
		return string(b), nil
	}
	return "", ErrInvalidToken
}
