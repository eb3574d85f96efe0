package audit

import (
	"encoding/json"
	"time"
)

// SystemUser is the actor recorded when no authenticated user is known.
const SystemUser = "system"

const (
	ActionProductCreate        = "PRODUCT_CREATE"
	ActionProductUpdate        = "PRODUCT_UPDATE"
	ActionStockUpdate          = "STOCK_UPDATE"
	ActionClientCreate         = "CLIENT_CREATE"
	ActionClientUpdate         = "CLIENT_UPDATE"
	ActionOrderCreate          = "ENTERPRISE_ORDER_CREATE"
	ActionOrderStatusUpdate    = "ORDER_STATUS_UPDATE"
	ActionUserCreate           = "USER_CREATE"
	ActionUserUpdate           = "USER_UPDATE"
	ActionUserDelete           = "USER_DELETE"
	ActionSystemSettingsUpdate = "SYSTEM_SETTINGS_UPDATE"
	ActionLowStockAlert        = "LOW_STOCK_ALERT"
)

const (
	EntitySKU    = "SKU"
	EntityClient = "CLIENT"
	EntityOrder  = "ORDER"
	EntityUser   = "USER"
	EntitySystem = "SYSTEM"
)

type Entry struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"createdAt"`
	User       *Actor          `json:"user,omitempty"`
}

// Actor is the user summary joined onto listed entries.
type Actor struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Change is the usual before/after metadata payload.
type Change struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

type Filter struct {
	Page      int
	PageSize  int
	Action    string // "" or "ALL" means any
	StartDate *time.Time
	EndDate   *time.Time
}
