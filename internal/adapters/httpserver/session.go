package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/svaraband/storefront/internal/adapters/cartstore"
	"github.com/svaraband/storefront/internal/domain"
	"github.com/svaraband/storefront/internal/usecase"
)

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: s.secure, SameSite: http.SameSiteLaxMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, Secure: s.secure, SameSite: http.SameSiteLaxMode})
}

func (s *Server) readUserSession(r *http.Request) *sessionUser {
	c, err := r.Cookie("sess")
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
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	if u.ID == "" || u.Email == "" {
		return nil
	}
	return &u
}

// mergeGuestCart is the one-shot Local→Remote transition: the guest cookie
// lines are replayed into the user's remote cart and the cookie slot is
// cleared. Runs once per sign-in event; sign-out never transitions back.
func (s *Server) mergeGuestCart(w http.ResponseWriter, r *http.Request, userID string) {
	local := cartstore.New(w, r, s.sessionKey)
	lines, err := local.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("merge: read guest cart")
	}
	if len(lines) > 0 {
		remote := usecase.NewCartUC(r.Context(), s.carts.ForUser(userID))
		remote.MergeLocal(r.Context(), lines)
	}
	if err := local.DeleteAll(r.Context()); err != nil {
		log.Error().Err(err).Msg("merge: clear guest cart")
	}
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "signin.html", map[string]any{"Next": sanitizeNext(r.URL.Query().Get("next"))})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
		password := r.FormValue("password")
		next := sanitizeNext(r.FormValue("next"))

		c, err := s.customers.FindByEmail(r.Context(), email)
		if err != nil || len(c.PasswordHash) == 0 ||
			bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
			s.render(w, "signin.html", map[string]any{"Error": domain.ErrInvalidCredentials.Error(), "Next": next})
			return
		}

		s.writeUserSession(w, &sessionUser{ID: c.ID.String(), Email: c.Email, Name: c.Name})
		s.mergeGuestCart(w, r, c.ID.String())
		http.Redirect(w, r, next, http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "signup.html", map[string]any{"Next": sanitizeNext(r.URL.Query().Get("next"))})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
		password := r.FormValue("password")
		next := sanitizeNext(r.FormValue("next"))

		if name == "" || !emailRe.MatchString(email) || len(password) < 8 {
			s.render(w, "signup.html", map[string]any{"Error": "Name, valid email and a password of 8+ characters are required", "Next": next})
			return
		}
		if _, err := s.customers.FindByEmail(r.Context(), email); err == nil {
			s.render(w, "signup.html", map[string]any{"Error": domain.ErrEmailTaken.Error(), "Next": next})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash", http.StatusInternalServerError)
			return
		}
		c := &domain.Customer{ID: uuid.New(), Email: email, Name: name, PasswordHash: hash}
		if err := s.customers.Save(r.Context(), c); err != nil {
			log.Error().Err(err).Msg("signup: save customer")
			http.Error(w, "save", http.StatusInternalServerError)
			return
		}

		s.writeUserSession(w, &sessionUser{ID: c.ID.String(), Email: c.Email, Name: c.Name})
		s.mergeGuestCart(w, r, c.ID.String())
		http.Redirect(w, r, next, http.StatusFound)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

// handleLogout clears the session and the in-memory view of the cart; the
// remote rows stay put for the next sign-in.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeUserSession(w, nil)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusInternalServerError)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true, Secure: s.secure})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", http.StatusBadRequest)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", http.StatusBadRequest)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Error().Err(err).Msg("oauth userinfo")
		http.Error(w, "userinfo", http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", http.StatusBadRequest)
		return
	}

	customer, err := s.customers.FindByEmail(r.Context(), info.Email)
	if err != nil {
		customer = &domain.Customer{ID: uuid.New(), Email: info.Email, Name: info.Name}
		if err := s.customers.Save(r.Context(), customer); err != nil {
			log.Error().Err(err).Msg("oauth: save customer")
			http.Error(w, "save", http.StatusInternalServerError)
			return
		}
	}

	s.writeUserSession(w, &sessionUser{ID: customer.ID.String(), Email: customer.Email, Name: customer.Name})
	s.mergeGuestCart(w, r, customer.ID.String())
	http.Redirect(w, r, "/store", http.StatusFound)
}

// sanitizeNext keeps redirects on-site.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/store"
	}
	if _, err := url.Parse(next); err != nil {
		return "/store"
	}
	return next
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
