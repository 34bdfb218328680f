package main

import (
	"flag"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gildedlane/storefront-web/internal/catalog"
	"github.com/gildedlane/storefront-web/internal/config"
	"github.com/gildedlane/storefront-web/internal/i18n"
	mw "github.com/gildedlane/storefront-web/internal/middleware"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	localesDir   = "locales"
	// devMode is set in main() based on env: SHOP_WEB_DEV (preferred) or DEV (fallback)
	devMode   bool
	tmplCache *template.Template

	appConfig     config.Config
	logger        *zap.Logger
	i18nBundle    *i18n.Bundle
	catalogClient *catalog.Client
	sessions      = newStoreRegistry()
)

func main() {
	var (
		addr      string
		tmplPath  string
		pubPath   string
		locPath   string
		endpoints string
	)
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.StringVar(&addr, "addr", ":"+cfg.Server.Port, "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", templatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", publicDir, "public assets directory")
	flag.StringVar(&locPath, "locales", localesDir, "locale bundles directory")
	flag.StringVar(&endpoints, "endpoints", "", "catalog endpoints YAML file")
	flag.Parse()

	if endpoints != "" {
		if cfg, err = config.Load(endpoints); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	appConfig = cfg
	templatesDir = tmplPath
	publicDir = pubPath
	localesDir = locPath
	devMode = cfg.Dev

	logger = newLogger(devMode)
	defer func() { _ = logger.Sync() }()

	i18nBundle, err = i18n.Load(localesDir, "en", []string{"en", "ja"})
	if err != nil {
		logger.Fatal("load locales", zap.Error(err))
	}

	catalogClient = catalog.NewClient(cfg.Catalog.Endpoints, cfg.Catalog.Environment, logger)

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
		tmplCache = tc
	}

	r := newRouter()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	logger.Info("web listening",
		zap.String("addr", addr),
		zap.Bool("dev", devMode),
		zap.String("cms_environment", string(cfg.Catalog.Environment)))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newLogger(dev bool) *zap.Logger {
	if dev {
		l, err := zap.NewDevelopment()
		if err == nil {
			return l
		}
	}
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return l
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if st, err := os.Stat(publicDir); err == nil && st.IsDir() {
		assets := http.StripPrefix("/public", mw.AssetsWithCache(publicDir))
		r.Handle("/public/*", assets)
	}

	r.Get("/", HomeHandler)

	r.Get("/cart", CartHandler)
	r.Get("/{lang:[a-z][a-z]}/cart", CartHandler)
	r.Get("/cart/table", CartTableFrag)
	r.Get("/cart/summary", CartSummaryFrag)
	r.Get("/cart/recommendations", CartRecsFrag)
	r.Post("/cart/items", CartAddHandler)
	r.Post("/cart/items/{itemID}/quantity", CartQuantityHandler)
	r.Post("/cart/items/{itemID}/remove", CartRemoveHandler)
	r.Post("/cart/discount", CartDiscountHandler)
	r.Post("/cart/checkout", CartCheckoutHandler)
	r.Get("/checkout", CheckoutHandler)

	r.Get("/products/{productKey}", ProductHandler)
	r.Get("/{lang:[a-z][a-z]}/products/{productKey}", ProductHandler)
	r.Get("/products/{productKey}/recommendations", ProductRecsFrag)

	return r
}
