package ui

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK          = "ok"
	statusClientError = "client_error"
	statusServerError = "server_error"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typecheck_uploads_total",
		Help: "Spreadsheet uploads processed, labelled by outcome.",
	}, []string{"status"})

	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typecheck_downloads_total",
		Help: "Report downloads served.",
	})
)
