// Package cartstore implements the guest cart: a single signed cookie slot
// holding the JSON-serialized line items of an unauthenticated session.
package cartstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/svaraband/storefront/internal/domain"
)

const CookieName = "cart"

const maxAge = 60 * 60 * 24 * 7

// Cookie is a domain.CartStore over one request/response pair. Reads parse
// the request cookie; every mutation rewrites the response cookie. The value
// is HMAC-signed so a tampered cart is treated as empty.
type Cookie struct {
	w      http.ResponseWriter
	r      *http.Request
	key    []byte
	lines  []domain.CartLine
	loaded bool
}

func New(w http.ResponseWriter, r *http.Request, key []byte) *Cookie {
	return &Cookie{w: w, r: r, key: key}
}

func (c *Cookie) List(ctx context.Context) ([]domain.CartLine, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out, nil
}

func (c *Cookie) Insert(ctx context.Context, line *domain.CartLine) error {
	if err := c.load(); err != nil {
		c.lines = nil
	}
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	c.lines = append(c.lines, *line)
	return c.flush()
}

func (c *Cookie) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if err := c.load(); err != nil {
		return err
	}
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return c.flush()
		}
	}
	return nil
}

func (c *Cookie) Delete(ctx context.Context, id string) error {
	if err := c.load(); err != nil {
		return err
	}
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	return c.flush()
}

func (c *Cookie) DeleteAll(ctx context.Context) error {
	c.lines = nil
	c.loaded = true
	return c.flush()
}

// load parses the request cookie once. A missing cookie or a bad signature
// yields an empty slot; JSON that fails to parse is reported so the caller
// can log the corrupt slot before falling back to empty.
func (c *Cookie) load() error {
	if c.loaded {
		return nil
	}
	c.loaded = true
	ck, err := c.r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	payload, ok := verify(ck.Value, c.key)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(payload, &c.lines); err != nil {
		c.lines = nil
		return fmt.Errorf("cartstore: corrupt cookie payload: %w", err)
	}
	return nil
}

func (c *Cookie) flush() error {
	b, err := json.Marshal(c.lines)
	if err != nil {
		return err
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    sign(b, c.key),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func sign(payload, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write(payload)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sig + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func verify(value string, key []byte) ([]byte, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, false
	}
	h := hmac.New(sha256.New, key)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil, false
	}
	return payload, true
}
