package app

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/svaraband/storefront/internal/adapters/httpserver"
	"github.com/svaraband/storefront/internal/adapters/repo/postgres"
	"github.com/svaraband/storefront/internal/catalog"
	"github.com/svaraband/storefront/internal/domain"
	"github.com/svaraband/storefront/internal/usecase"
	"github.com/svaraband/storefront/internal/views"
)

type App struct {
	DB          *gorm.DB
	Tmpl        *template.Template
	Catalog     *catalog.Catalog
	CatalogUC   *usecase.CatalogUC
	OrderUC     *usecase.OrderUC
	Carts       *postgres.CartRepo
	Customers   domain.CustomerRepo
	Contact     domain.ContactRepo
	OAuthConfig *oauth2.Config
	SessionKey  []byte
	AdminKey    string
	Secure      bool
}

func NewApp(db *gorm.DB) (*App, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "dev-insecure"
	}

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	funcMap := template.FuncMap{
		"usd": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
		"pct": func(fraction float64) int {
			return int(math.Round(fraction * 100))
		},
	}

	tmpl, err := template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	if err != nil {
		return nil, err
	}

	return &App{
		DB:          db,
		Tmpl:        tmpl,
		Catalog:     cat,
		CatalogUC:   &usecase.CatalogUC{Catalog: cat},
		OrderUC:     &usecase.OrderUC{Orders: postgres.NewOrderRepo(db)},
		Carts:       postgres.NewCartRepo(db),
		Customers:   postgres.NewCustomerRepo(db),
		Contact:     postgres.NewContactRepo(db),
		OAuthConfig: oauthCfg,
		SessionKey:  []byte(sessionKey),
		AdminKey:    os.Getenv("ADMIN_API_KEY"),
		Secure:      strings.HasPrefix(baseURL, "https://"),
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.CatalogUC, a.OrderUC, a.Carts, a.Customers, a.Contact, a.OAuthConfig, a.SessionKey, a.AdminKey, a.Secure)
}

func (a *App) Migrate() error {
	return a.DB.AutoMigrate(
		&domain.CartLine{},
		&domain.Customer{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.ContactMessage{},
	)
}
