package metrics

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
)

var (
	// ErrInstrumentNotSupported signals the instrument type is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signals the instrument is not of the expected type
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

// package level instruments, nil until Start has registered them so the
// helpers stay safe to call from tests and unmetered processes
var (
	engineTime           *prometheus.CounterVec
	swapCounter          *prometheus.CounterVec
	fundingUpdateCounter *prometheus.CounterVec
	priceRefreshCounter  *prometheus.CounterVec
	aggregatePriceGauge  *prometheus.GaugeVec
)

// abstract prometheus types
type instrument int

// prometheus options plus the label names making the instrument a vector
type instrumentOpts struct {
	opts    prometheus.Opts
	vectors []string
}

// registered holds whichever concrete instrument AddInstrument created
type registered struct {
	gaugeV   *prometheus.GaugeVec
	counterV *prometheus.CounterVec
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - the label names the instrument is partitioned over
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Labels - constant labels applied to every observation
func Labels(labels map[string]string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.ConstLabels = prometheus.Labels(labels)
	}
}

// AddInstrument configures and registers a new vector instrument.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*registered, error) {
	opt := instrumentOpts{
		opts: prometheus.Opts{Name: name},
	}
	for _, o := range opts {
		o(&opt)
	}

	var (
		ret registered
		col prometheus.Collector
	)
	switch t {
	case Gauge:
		ret.gaugeV = prometheus.NewGaugeVec(prometheus.GaugeOpts(opt.opts), opt.vectors)
		col = ret.gaugeV
	case Counter:
		ret.counterV = prometheus.NewCounterVec(prometheus.CounterOpts(opt.opts), opt.vectors)
		col = ret.counterV
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// GaugeVec returns the registered GaugeVec instrument
func (r registered) GaugeVec() (*prometheus.GaugeVec, error) {
	if r.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return r.gaugeV, nil
}

// CounterVec returns the registered CounterVec instrument
func (r registered) CounterVec() (*prometheus.CounterVec, error) {
	if r.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return r.counterV, nil
}

// Start registers the instruments and serves the exposition endpoint,
// a no-op when metrics are disabled.
func Start(conf Config) {
	if !conf.Enabled {
		return
	}
	if err := setupMetrics(); err != nil {
		panic("could not set up metrics")
	}
	http.Handle(conf.Path, promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", conf.Port), nil))
	}()
}

func addCounterVec(name, help string, labels ...string) (*prometheus.CounterVec, error) {
	h, err := AddInstrument(
		Counter,
		name,
		Namespace("helix"),
		Vectors(labels...),
		Help(help),
	)
	if err != nil {
		return nil, err
	}
	return h.CounterVec()
}

func setupMetrics() error {
	est, err := addCounterVec("engine_seconds_total",
		"Seconds spent in engine functions", "market", "engine", "fn")
	if err != nil {
		return err
	}
	engineTime = est

	sc, err := addCounterVec("swaps_total",
		"Number of swaps executed against the virtual curve", "market", "side")
	if err != nil {
		return err
	}
	swapCounter = sc

	fc, err := addCounterVec("funding_updates_total",
		"Number of crystallized funding rate updates", "market")
	if err != nil {
		return err
	}
	fundingUpdateCounter = fc

	pc, err := addCounterVec("price_refreshes_total",
		"Number of aggregate price refreshes", "asset", "valid")
	if err != nil {
		return err
	}
	priceRefreshCounter = pc

	h, err := AddInstrument(
		Gauge,
		"aggregate_price",
		Namespace("helix"),
		Vectors("asset"),
		Help("Last aggregate price per asset, in canonical precision"),
	)
	if err != nil {
		return err
	}
	g, err := h.GaugeVec()
	if err != nil {
		return err
	}
	aggregatePriceGauge = g

	return nil
}

// SwapCounterInc increments the swap counter
func SwapCounterInc(labelValues ...string) {
	if swapCounter == nil {
		return
	}
	swapCounter.WithLabelValues(labelValues...).Inc()
}

// FundingUpdateCounterInc increments the funding update counter
func FundingUpdateCounterInc(labelValues ...string) {
	if fundingUpdateCounter == nil {
		return
	}
	fundingUpdateCounter.WithLabelValues(labelValues...).Inc()
}

// PriceRefreshCounterInc increments the price refresh counter
func PriceRefreshCounterInc(labelValues ...string) {
	if priceRefreshCounter == nil {
		return
	}
	priceRefreshCounter.WithLabelValues(labelValues...).Inc()
}

// AggregatePriceSet updates the aggregate price gauge for an asset
func AggregatePriceSet(price float64, asset string) {
	if aggregatePriceGauge == nil {
		return
	}
	aggregatePriceGauge.WithLabelValues(asset).Set(price)
}

// EngineTimeCounterAdd records the time spent in an engine function
func EngineTimeCounterAdd(start time.Time, labelValues ...string) {
	if engineTime == nil {
		return
	}
	engineTime.WithLabelValues(labelValues...).Add(time.Since(start).Seconds())
}
