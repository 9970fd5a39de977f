// Package pagination holds page size limits and opaque keyset page tokens
// shared by list APIs.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidToken reports a page token that no list call produced.
var ErrInvalidToken = errors.New("invalid page token")

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies the default to unset sizes and caps the result at Max.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	size := int(value)
	if size <= 0 {
		size = cfg.Default
	}
	if cfg.Max > 0 {
		size = min(size, cfg.Max)
	}
	return max(size, 1)
}

// Cursor is the position after the last item of a page ordered by a
// numeric sort key, with ID breaking ties.
type Cursor struct {
	Key int64
	ID  string
}

// Token encodes the cursor as an opaque page token.
func (c Cursor) Token() string {
	raw := strconv.FormatInt(c.Key, 10) + ":" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseToken decodes a page token produced by Cursor.Token.
func ParseToken(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}
	key, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Cursor{}, ErrInvalidToken
	}
	value, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}
	return Cursor{Key: value, ID: id}, nil
}
