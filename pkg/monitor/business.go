package monitor

import "github.com/prometheus/client_golang/prometheus"

// 扫描器 & 订单解析相关的业务指标
// 指标对象在包加载时创建，Init 时统一注册；未注册时调用也是安全的
var (
	ScannerCurrentBlock = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_current_block",
		Help: "Next block the order scanner will fetch.",
	})
	ScannerChainHead = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_chain_head",
		Help: "Latest chain head observed by the order scanner.",
	})
	ScannerBlockWindow = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_block_window",
		Help: "Effective block window used for eth_getLogs.",
	})
	ScannerEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_events_total",
		Help: "Order book events delivered to sinks.",
	}, []string{"kind"})
	ScannerFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_fetch_errors_total",
		Help: "Failed scan iterations by error class.",
	}, []string{"class"})
	ScannerConsecutiveFailures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scanner_consecutive_failures",
		Help: "Consecutive failed scan iterations.",
	})
	ScannerAlertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scanner_alerts_total",
		Help: "Alerts raised because the scanner kept failing.",
	})

	// OrderResolveTotal result: ok / not_found / decrypt_error / error
	OrderResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_resolve_total",
		Help: "Order resolutions by result.",
	}, []string{"result"})
)

func scannerCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		ScannerCurrentBlock,
		ScannerChainHead,
		ScannerBlockWindow,
		ScannerEventsTotal,
		ScannerFetchErrorsTotal,
		ScannerConsecutiveFailures,
		ScannerAlertsTotal,
	}
}
