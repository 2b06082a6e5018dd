package prometheus

import (
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter      prometheus.Counter
	RegisterCounter   prometheus.Counter
	AuthErrorsCounter prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Product metrics
	ProductOperationsCounter prometheus.CounterVec

	// Category metrics
	CategoryOperationsCounter prometheus.CounterVec

	// Sale metrics
	SalesCreatedCounter      prometheus.Counter
	SalesInvoicedCounter     prometheus.Counter
	InsufficientStockCounter prometheus.Counter

	// Excel import/export metrics
	ExcelImportsCounter      prometheus.CounterVec
	ExcelImportedRowsCounter prometheus.Counter
	CategoriesCreatedCounter prometheus.Counter
	ExcelExportsCounter      prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_register_attempts_total",
			Help: "Total number of store registration attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	// Category metrics
	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	// Sale metrics
	SalesCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sales_created_total",
			Help: "Total number of sales created",
		},
	)

	SalesInvoicedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sales_invoiced_total",
			Help: "Total number of sales marked as invoiced",
		},
	)

	InsufficientStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of sales rejected for insufficient stock",
		},
	)

	// Excel import/export metrics
	ExcelImportsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_excel_imports_total",
			Help: "Total number of Excel import attempts",
		},
		[]string{"result"},
	)

	ExcelImportedRowsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_excel_imported_rows_total",
			Help: "Total number of product rows imported from Excel",
		},
	)

	CategoriesCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_excel_categories_created_total",
			Help: "Total number of categories auto-created during Excel import",
		},
	)

	ExcelExportsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_excel_exports_total",
			Help: "Total number of Excel exports",
		},
		[]string{"kind"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for a specific authentication error
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordExcelImport increments the counter for Excel imports by result
func RecordExcelImport(result string) {
	ExcelImportsCounter.WithLabelValues(result).Inc()
}

// RecordExcelExport increments the counter for Excel exports by kind
func RecordExcelExport(kind string) {
	ExcelExportsCounter.WithLabelValues(kind).Inc()
}
