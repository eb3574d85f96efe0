package redisx

import "time"

const (
	// idem:order:create:{external_id} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"

	// dash:gen -> counter bumped on every mutation that moves the dashboard
	KeyStatsGeneration = "dash:gen"

	// dash:{name}:{generation} -> cached JSON aggregate
	KeyStats = "dash:%s:%d"

	// dedup:{service}:{id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour

	// one LOW_STOCK_ALERT per SKU per window
	TTLLowStockAlert = 24 * time.Hour
)
