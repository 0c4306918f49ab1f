package httpserver

import (
	"encoding/json"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/svaraband/storefront/internal/adapters/cartstore"
	"github.com/svaraband/storefront/internal/domain"
	"github.com/svaraband/storefront/internal/usecase"
)

// CartStores yields the remote cart store bound to one user.
type CartStores interface {
	ForUser(userID string) domain.CartStore
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type Server struct {
	mux        *http.ServeMux
	tmpl       *template.Template
	catalog    *usecase.CatalogUC
	quotes     usecase.QuoteUC
	orders     *usecase.OrderUC
	carts      CartStores
	customers  domain.CustomerRepo
	contact    domain.ContactRepo
	oauthCfg   *oauth2.Config
	sessionKey []byte
	adminKey   string
	secure     bool
}

func New(t *template.Template, cat *usecase.CatalogUC, orders *usecase.OrderUC, carts CartStores, customers domain.CustomerRepo, contact domain.ContactRepo, oauthCfg *oauth2.Config, sessionKey []byte, adminKey string, secureCookies bool) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		tmpl:       t,
		catalog:    cat,
		orders:     orders,
		carts:      carts,
		customers:  customers,
		contact:    contact,
		oauthCfg:   oauthCfg,
		sessionKey: sessionKey,
		adminKey:   adminKey,
		secure:     secureCookies,
	}
	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/quote":    15,
			"/api/products": 30,
		}),
		RateLimit(60),
		SecurityHeaders,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/store", s.handleStore)
	s.mux.HandleFunc("/product/", s.handleProduct)
	s.mux.HandleFunc("/contact", s.handleContact)

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/cart/add", s.handleCartAdd)
	s.mux.HandleFunc("/cart/update", s.handleCartUpdate)
	s.mux.HandleFunc("/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("/cart/checkout", s.handleCartCheckout)

	s.mux.HandleFunc("/wishlist/toggle", s.handleWishlistToggle)

	s.mux.HandleFunc("/api/quote", s.apiQuote)
	s.mux.HandleFunc("/api/products", s.apiProducts)

	s.mux.HandleFunc("/signin", s.handleSignIn)
	s.mux.HandleFunc("/signup", s.handleSignUp)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/admin/export/xlsx", s.handleAdminExportXLSX)
}

// cartFor picks the persistence target for this request: the signed-in
// user's remote store, or the device cookie slot for guests.
func (s *Server) cartFor(w http.ResponseWriter, r *http.Request) *usecase.CartUC {
	if u := s.readUserSession(r); u != nil {
		return usecase.NewCartUC(r.Context(), s.carts.ForUser(u.ID))
	}
	return usecase.NewCartUC(r.Context(), cartstore.New(w, r, s.sessionKey))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	featured := s.catalog.List(domain.FilterState{Sort: domain.SortFeatured})
	if len(featured) > 6 {
		featured = featured[:6]
	}
	cart := s.cartFor(w, r)
	data := map[string]any{
		"Featured":  featured,
		"CartCount": cart.ItemCount(),
		"Sent":      r.URL.Query().Get("sent") == "1",
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "home.html", data)
}

func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	f := parseFilterState(r)
	products := s.catalog.List(f)
	cart := s.cartFor(w, r)

	inCart := map[int]bool{}
	for _, p := range products {
		inCart[p.ID] = cart.Contains(p.ID)
	}
	wishlist := map[int]bool{}
	for _, id := range s.readWishlist(r) {
		wishlist[id] = true
	}

	data := map[string]any{
		"Products":   products,
		"Brands":     s.catalog.Brands(),
		"Categories": s.catalog.Categories(),
		"Filter":     f,
		"InCart":     inCart,
		"Wishlist":   wishlist,
		"CartCount":  cart.ItemCount(),
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "store.html", data)
}

// parseFilterState maps query params onto the ephemeral filter state. Bad
// numbers are treated as unset, matching how the store UI submits them.
func parseFilterState(r *http.Request) domain.FilterState {
	qv := r.URL.Query()
	f := domain.FilterState{
		Query:    qv.Get("q"),
		Category: qv.Get("category"),
		Brands:   qv["brand"],
		OnSale:   qv.Get("on_sale") == "1",
		Sort:     domain.SortKey(qv.Get("sort")),
	}
	if f.Sort == "" {
		f.Sort = domain.SortFeatured
	}
	if v, err := strconv.ParseFloat(qv.Get("min_price"), 64); err == nil && v >= 0 {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(qv.Get("max_price"), 64); err == nil && v >= 0 {
		f.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(qv.Get("min_rating"), 64); err == nil && v > 0 {
		f.MinRating = v
	}
	return f
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/product/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p, err := s.catalog.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	cart := s.cartFor(w, r)
	wished := false
	for _, id := range s.readWishlist(r) {
		if id == p.ID {
			wished = true
			break
		}
	}
	data := map[string]any{
		"Product":    p,
		"Colors":     usecase.Colors,
		"Extras":     usecase.Extras,
		"InCart":     cart.Contains(p.ID),
		"InWishlist": wished,
		"CartCount":  cart.ItemCount(),
		"Added":      r.URL.Query().Get("added") == "1",
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "product.html", data)
}

// cartLineView pairs a stored line with its configured price, which includes
// extras and is recomputed from the one quote function.
type cartLineView struct {
	domain.CartLine
	Configured float64
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cart := s.cartFor(w, r)
	lines := cart.Lines()
	views := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		configured, err := s.quotes.Quote(l.ProductPrice, l.Extras, l.Quantity)
		if err != nil {
			configured = l.Subtotal()
		}
		views = append(views, cartLineView{CartLine: l, Configured: configured})
	}
	data := map[string]any{
		"Lines":        views,
		"Total":        cart.Total(),
		"CartCount":    cart.ItemCount(),
		"DeliveryCost": float64(usecase.DeliveryCost),
	}
	if u := s.readUserSession(r); u != nil {
		data["User"] = u
	}
	s.render(w, "cart.html", data)
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
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
	p, err := s.catalog.Get(id)
	if err != nil {
		http.Error(w, "product", http.StatusNotFound)
		return
	}
	color := r.FormValue("color")
	if color != "" && !usecase.ValidColor(color) {
		http.Error(w, "color", http.StatusBadRequest)
		return
	}
	extras := r.Form["extras"]
	for _, e := range extras {
		if _, ok := usecase.ExtraPrice(e); !ok {
			http.Error(w, "extras", http.StatusBadRequest)
			return
		}
	}

	cart := s.cartFor(w, r)
	cart.Add(r.Context(), p, usecase.AddOptions{Color: color, Extras: extras})

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "items": cart.ItemCount()})
		return
	}
	http.Redirect(w, r, "/product/"+strconv.Itoa(id)+"?added=1", http.StatusFound)
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "id", http.StatusBadRequest)
		return
	}
	cart := s.cartFor(w, r)

	cur := 0
	for _, l := range cart.Lines() {
		if l.ID == id {
			cur = l.Quantity
			break
		}
	}
	switch r.FormValue("op") {
	case "inc":
		cur++
	case "dec":
		cur--
	case "set":
		q, err := strconv.Atoi(r.FormValue("qty"))
		if err != nil {
			http.Error(w, "qty", http.StatusBadRequest)
			return
		}
		cur = q
	default:
		http.Error(w, "op", http.StatusBadRequest)
		return
	}
	cart.SetQuantity(r.Context(), id, cur)
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	cart := s.cartFor(w, r)
	cart.Remove(r.Context(), r.FormValue("id"))
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cart := s.cartFor(w, r)
	cart.Clear(r.Context())
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	u := s.readUserSession(r)
	if u == nil {
		http.Redirect(w, r, "/signin?next=/cart", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	method := domain.ShippingMethod(r.FormValue("shipping"))
	if method == "" {
		method = domain.ShippingPickup
	}

	customer, err := s.customers.FindByEmail(r.Context(), u.Email)
	if err != nil {
		log.Error().Err(err).Str("email", u.Email).Msg("checkout: customer lookup")
		http.Error(w, "customer", http.StatusInternalServerError)
		return
	}

	cart := s.cartFor(w, r)
	order, err := s.orders.Checkout(r.Context(), customer, cart.Lines(), method)
	if err != nil {
		log.Error().Err(err).Msg("checkout")
		http.Error(w, "checkout", http.StatusBadRequest)
		return
	}
	cart.Clear(r.Context())

	data := map[string]any{"Order": order, "User": u, "CartCount": 0}
	s.render(w, "order.html", data)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))
	if name == "" || email == "" || message == "" {
		http.Error(w, "all fields required", http.StatusBadRequest)
		return
	}
	m := &domain.ContactMessage{Name: name, Email: email, Message: message}
	if err := s.contact.Save(r.Context(), m); err != nil {
		log.Error().Err(err).Msg("contact: save")
		http.Error(w, "save", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?sent=1", http.StatusFound)
}

func (s *Server) apiQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ProductID int      `json:"product_id"`
		Extras    []string `json:"extras"`
		Quantity  int      `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", http.StatusBadRequest)
		return
	}
	p, err := s.catalog.Get(req.ProductID)
	if err != nil {
		http.Error(w, "product", http.StatusNotFound)
		return
	}
	total, err := s.quotes.Quote(p.Price, req.Extras, req.Quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total})
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	products := s.catalog.List(parseFilterState(r))
	writeJSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.Header.Get("X-Requested-With") == "fetch"
}
