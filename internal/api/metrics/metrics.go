// Package metrics defines and registers all custom Prometheus metrics for the
// catalog service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry through promauto, so they
// are exposed by the /metrics handler next to the echoprometheus request
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignInAttemptsTotal counts sign-in attempts.
// Label:
//   - result: "success", "bad_credentials", "throttled" or "error"
var SignInAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_attempts_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts session token checks made by the access filter.
// Label:
//   - result: "valid", "expired", "invalid_signature", "malformed" or "unknown_subject"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of session token validations, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogMutationsTotal counts successful catalog changes.
// Labels:
//   - entity: "category" or "product"
//   - action: "create", "update" or "delete"
var CatalogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful catalog mutations.",
	},
	[]string{"entity", "action"},
)

// ImageUploadsTotal counts product image uploads.
// Label:
//   - result: "stored" or "failed"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of product image uploads, by result.",
	},
	[]string{"result"},
)

// ImageUploadBytes observes the size of accepted image uploads.
var ImageUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_upload_bytes",
		Help:      "Size of uploaded product images in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6), // 16KiB .. 16MiB
	},
)
