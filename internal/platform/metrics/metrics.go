package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Services accept
// a nil *Metrics and skip recording, which keeps tests quiet.
type Metrics struct {
	UsersCreated    prometheus.Counter
	LoginsSucceeded prometheus.Counter
	LoginsFailed    prometheus.Counter
	PasswordResets  prometheus.Counter
	CommentsCreated prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apotheca_users_created_total",
			Help: "Total number of users registered",
		}),
		LoginsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apotheca_logins_succeeded_total",
			Help: "Total number of successful logins",
		}),
		LoginsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apotheca_logins_failed_total",
			Help: "Total number of failed login attempts",
		}),
		PasswordResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apotheca_password_resets_total",
			Help: "Total number of completed password resets",
		}),
		CommentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "apotheca_comments_created_total",
			Help: "Total number of comments created",
		}),
	}
}

// IncUsersCreated increments the registration counter by 1.
func (m *Metrics) IncUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncLoginsSucceeded increments the successful-login counter by 1.
func (m *Metrics) IncLoginsSucceeded() {
	if m == nil {
		return
	}
	m.LoginsSucceeded.Inc()
}

// IncLoginsFailed increments the failed-login counter by 1.
func (m *Metrics) IncLoginsFailed() {
	if m == nil {
		return
	}
	m.LoginsFailed.Inc()
}

// IncPasswordResets increments the password-reset counter by 1.
func (m *Metrics) IncPasswordResets() {
	if m == nil {
		return
	}
	m.PasswordResets.Inc()
}

// IncCommentsCreated increments the comment counter by 1.
func (m *Metrics) IncCommentsCreated() {
	if m == nil {
		return
	}
	m.CommentsCreated.Inc()
}
