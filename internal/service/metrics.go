package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	otpIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "Total number of OTP codes issued",
		},
	)

	otpVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "OTP verification attempts by result",
		},
		[]string{"result"},
	)

	otpPendingSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otp_pending_sessions",
			Help: "OTP sessions currently held in memory",
		},
	)

	botCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Bot commands dispatched by command",
		},
		[]string{"command"},
	)

	loginsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Completed login handshakes by outcome",
		},
		[]string{"outcome"},
	)
)
