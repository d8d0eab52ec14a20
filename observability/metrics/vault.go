package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// VaultMetrics instruments the protocol's operation flow for scraping.
type VaultMetrics struct {
	operations   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	priceUSD     prometheus.Gauge
	liquidations prometheus.Counter
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

// Vault returns the process-wide vault metrics registry.
func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "gusd_vault_operations_total",
				Help: "Count of successful vault operations by type.",
			}, []string{"op"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "gusd_vault_rejections_total",
				Help: "Count of rejected vault operations by type.",
			}, []string{"op"}),
			priceUSD: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "gusd_collateral_price_usd",
				Help: "Current collateral price in USD with 6 implied decimals.",
			}),
			liquidations: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "gusd_vault_liquidations_total",
				Help: "Count of executed liquidations.",
			}),
		}
		prometheus.MustRegister(
			vaultRegistry.operations,
			vaultRegistry.rejections,
			vaultRegistry.priceUSD,
			vaultRegistry.liquidations,
		)
	})
	return vaultRegistry
}

// RecordOperation increments the success counter for an operation.
func (m *VaultMetrics) RecordOperation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

// RecordRejection increments the rejection counter for an operation.
func (m *VaultMetrics) RecordRejection(op string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(op).Inc()
}

// SetPrice records the latest accepted collateral price.
func (m *VaultMetrics) SetPrice(priceUSD uint64) {
	if m == nil {
		return
	}
	m.priceUSD.Set(float64(priceUSD))
}

// RecordLiquidation increments the liquidation counter.
func (m *VaultMetrics) RecordLiquidation() {
	if m == nil {
		return
	}
	m.liquidations.Inc()
}
