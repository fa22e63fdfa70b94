package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahfuzanam/dokanpos-backend/api/controllers"
	"github.com/mahfuzanam/dokanpos-backend/api/middleware"
	"github.com/mahfuzanam/dokanpos-backend/internal/customers"
	"github.com/mahfuzanam/dokanpos-backend/internal/invoices"
	"github.com/mahfuzanam/dokanpos-backend/internal/payments"
	"github.com/mahfuzanam/dokanpos-backend/internal/products"
	"github.com/mahfuzanam/dokanpos-backend/internal/sales"
	"github.com/mahfuzanam/dokanpos-backend/pkg/config"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	productService products.Service,
	customerService customers.Service,
	saleService sales.Service,
	paymentService payments.Service,
	invoiceService invoices.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Put("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/{name}", controllers.GetProductByName(productService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Put("/{phone}", controllers.UpsertCustomer(customerService, logg))
			r.Get("/", controllers.ListCustomers(customerService, logg))
			r.Get("/{phone}/due", controllers.CustomerDue(customerService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", controllers.RecordSale(saleService, customerService, invoiceService, logg))
			r.Get("/", controllers.ListSales(saleService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.RecordPayment(paymentService, logg))
			r.Get("/", controllers.ListPayments(paymentService, logg))
		})
	})

	return r
}
