package pagination

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for search sessions.
var (
	searchPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixsearch_pages_total",
		Help: "Total pages fetched across all search sessions",
	})

	searchSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixsearch_sessions_total",
		Help: "Total search sessions by outcome",
	}, []string{"outcome"}) // "completed", "failed", "cancelled"
)

// DefaultPerPage is the fixed page size requested from the server.
const DefaultPerPage = 50

// Config holds accumulator configuration.
type Config struct {
	// PerPage is the number of items requested per page.
	// A page with fewer items marks the end of pagination.
	PerPage int

	// SnapshotBuffer is the buffer size of the snapshot channel.
	SnapshotBuffer int
}

// DefaultConfig returns safe default configuration.
func DefaultConfig() Config {
	return Config{
		PerPage:        DefaultPerPage,
		SnapshotBuffer: 1,
	}
}

// PageFetcher is the transport collaborator. It returns the raw response
// body for one page; decoding and validation happen in the accumulator.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page, perPage int) ([]byte, error)
}

// Snapshot is one emission of a search session. Err is nil for every
// successful page; a non-nil Err is the terminal event and the channel is
// closed after it. Completion without error is signalled by channel close.
type Snapshot struct {
	Response AccumulatedResponse
	Err      error
}

// Accumulator drives a paged search session: it fetches page 1 on Search,
// fetches the next page for each trigger emission, and emits the running
// accumulation after every page until pagination is exhausted.
//
// One Accumulator may serve many sessions; each Search call owns its own
// session state in a single goroutine, so page increments and appends are
// strictly ordered without locks.
type Accumulator struct {
	fetcher PageFetcher
	config  Config
}

// New creates a new accumulator over the given page fetcher.
func New(fetcher PageFetcher, config Config) *Accumulator {
	if config.PerPage <= 0 {
		config.PerPage = DefaultPerPage
	}
	if config.SnapshotBuffer < 0 {
		config.SnapshotBuffer = 0
	}

	return &Accumulator{
		fetcher: fetcher,
		config:  config,
	}
}

// Search starts a session for query. Each emission on trigger requests the
// next page; trigger emissions arriving while a fetch is in flight are the
// producer's responsibility to withhold (the session reads at most one
// trigger per completed page). Closing trigger ends the session after the
// current page. Cancelling ctx stops further fetches and closes the stream.
//
// The returned channel yields one Snapshot per successful page and is closed
// on completion, terminal failure, or cancellation.
func (a *Accumulator) Search(ctx context.Context, query string, trigger <-chan struct{}) <-chan Snapshot {
	out := make(chan Snapshot, a.config.SnapshotBuffer)
	go a.run(ctx, query, trigger, out)
	return out
}

// run owns the whole session state: current page number and accumulation.
// All page transitions are driven from this single sequential control point.
func (a *Accumulator) run(ctx context.Context, query string, trigger <-chan struct{}, out chan<- Snapshot) {
	defer close(out)

	page := 1
	acc := AccumulatedResponse{}

	for {
		raw, err := a.fetcher.FetchPage(ctx, query, page, a.config.PerPage)
		if err != nil {
			// Transport errors pass through verbatim as the terminal event.
			log.Warn().
				Err(err).
				Str("query", query).
				Int("page", page).
				Msg("Page fetch failed")
			searchSessionsTotal.WithLabelValues("failed").Inc()
			a.emit(ctx, out, Snapshot{Err: err})
			return
		}

		result, err := decodePage(raw)
		if err != nil {
			log.Warn().
				Err(err).
				Str("query", query).
				Int("page", page).
				Msg("Page response rejected")
			searchSessionsTotal.WithLabelValues("failed").Inc()
			a.emit(ctx, out, Snapshot{Err: err})
			return
		}

		searchPagesTotal.Inc()

		// Rebuild the accumulation; never mutate an emitted slice.
		images := make([]Item, 0, len(acc.Images)+len(result.Items))
		images = append(images, acc.Images...)
		images = append(images, result.Items...)
		acc = AccumulatedResponse{
			TotalAvailable: result.TotalAvailable,
			Images:         images,
		}

		if !a.emit(ctx, out, Snapshot{Response: acc}) {
			searchSessionsTotal.WithLabelValues("cancelled").Inc()
			return
		}

		log.Debug().
			Str("query", query).
			Int("page", page).
			Int("page_items", len(result.Items)).
			Int("accumulated", len(acc.Images)).
			Int("total_available", acc.TotalAvailable).
			Msg("Page accumulated")

		// Completion policy: a short page is the primary exhaustion signal;
		// reaching the reported total is the safety net. Checked in that order.
		if len(result.Items) < a.config.PerPage {
			log.Info().
				Str("query", query).
				Int("pages", page).
				Int("images", len(acc.Images)).
				Msg("Search complete (short page)")
			searchSessionsTotal.WithLabelValues("completed").Inc()
			return
		}
		if len(acc.Images) >= acc.TotalAvailable {
			log.Info().
				Str("query", query).
				Int("pages", page).
				Int("images", len(acc.Images)).
				Msg("Search complete (total reached)")
			searchSessionsTotal.WithLabelValues("completed").Inc()
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().
				Str("query", query).
				Int("page", page).
				Msg("Search session cancelled")
			searchSessionsTotal.WithLabelValues("cancelled").Inc()
			return
		case _, ok := <-trigger:
			if !ok {
				// Trigger source closed: no more pages requested.
				searchSessionsTotal.WithLabelValues("completed").Inc()
				return
			}
			page++
		}
	}
}

// emit delivers a snapshot unless the session is cancelled first.
func (a *Accumulator) emit(ctx context.Context, out chan<- Snapshot, snap Snapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
