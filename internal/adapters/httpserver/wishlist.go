package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const wishlistCookie = "wishlist"

// readWishlist parses the signed wishlist cookie into product ids. Missing or
// tampered cookies read as empty.
func (s *Server) readWishlist(r *http.Request) []int {
	c, err := r.Cookie(wishlistCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var ids []int
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil
	}
	return ids
}

func (s *Server) writeWishlist(w http.ResponseWriter, ids []int) {
	b, _ := json.Marshal(ids)
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(b)
	val := base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     wishlistCookie,
		Value:    val,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleWishlistToggle flips one product in or out of the wishlist cookie and
// sends the visitor back where they came from.
func (s *Server) handleWishlistToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		http.Error(w, "product_id", http.StatusBadRequest)
		return
	}
	if _, err := s.catalog.Get(id); err != nil {
		http.Error(w, "product", http.StatusNotFound)
		return
	}

	ids := s.readWishlist(r)
	out := make([]int, 0, len(ids)+1)
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	s.writeWishlist(w, out)
	http.Redirect(w, r, sanitizeNext(r.FormValue("next")), http.StatusFound)
}
