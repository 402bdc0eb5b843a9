package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/binalerts/binalerts/internal/domain/import/report"
)

var (
	rowsReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binalerts_import_rows_read_total",
		Help: "Rows read from import files.",
	})
	collectionsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binalerts_import_collections_loaded_total",
		Help: "Collection facts written by imports.",
	})
	streetsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binalerts_import_streets_created_total",
		Help: "Streets created by imports.",
	})
	rowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binalerts_import_rows_skipped_total",
		Help: "Rows skipped for data errors.",
	})
)

func observe(rep *report.Report) {
	rowsReadTotal.Add(float64(rep.LinesRead))
	collectionsLoadedTotal.Add(float64(rep.CollectionsLoaded))
	streetsCreatedTotal.Add(float64(rep.StreetsCreated))
	rowsSkippedTotal.Add(float64(rep.RowsSkipped))
}
