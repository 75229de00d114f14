// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// AuthCollector is the interface the auth service records against.
type AuthCollector interface {
	RecordRegistration()
	RecordLogin(success bool)
	RecordGoogleSignIn()
	RecordTokenRefresh()
	RecordLogout()
	RecordPasswordReset()
	RecordEmailSent(kind string, success bool)
}

// Collector is the Prometheus-backed implementation.
type Collector struct {
	registrations  prometheus.Counter
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	googleSignIns  prometheus.Counter
	tokenRefreshes prometheus.Counter
	logouts        prometheus.Counter
	passwordResets prometheus.Counter
	emailsSent     *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	httpLatency    prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_registrations_total",
			Help: "Total number of successful user registrations",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_login_success_total",
			Help: "Total number of successful logins",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_login_fail_total",
			Help: "Total number of failed logins",
		}),
		googleSignIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_google_signin_total",
			Help: "Total number of Google sign-ins",
		}),
		tokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_token_refresh_total",
			Help: "Total number of access-token refreshes",
		}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_logout_total",
			Help: "Total number of logouts",
		}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sehatguru_password_reset_total",
			Help: "Total number of completed password resets",
		}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sehatguru_emails_total",
			Help: "Outbound emails by kind and outcome",
		}, []string{"kind", "outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sehatguru_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sehatguru_http_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFail,
		c.googleSignIns,
		c.tokenRefreshes,
		c.logouts,
		c.passwordResets,
		c.emailsSent,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordRegistration() { c.registrations.Inc() }

func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginSuccess.Inc()
		return
	}
	c.loginFail.Inc()
}

func (c *Collector) RecordGoogleSignIn()  { c.googleSignIns.Inc() }
func (c *Collector) RecordTokenRefresh()  { c.tokenRefreshes.Inc() }
func (c *Collector) RecordLogout()        { c.logouts.Inc() }
func (c *Collector) RecordPasswordReset() { c.passwordResets.Inc() }

func (c *Collector) RecordEmailSent(kind string, success bool) {
	outcome := "success"
	if !success {
		outcome = "fail"
	}
	c.emailsSent.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) recordHTTP(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Middleware records status code and latency for every request.
func Middleware(c *Collector) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		c.recordHTTP(ctx.Writer.Status(), time.Since(start))
	}
}

// Noop satisfies AuthCollector for tests.
type Noop struct{}

func (Noop) RecordRegistration() {}
func (Noop) RecordLogin(bool) {}
func (Noop) RecordGoogleSignIn() {}
func (Noop) RecordTokenRefresh() {}
func (Noop) RecordLogout() {}
func (Noop) RecordPasswordReset() {}
func (Noop) RecordEmailSent(string, bool) {}
