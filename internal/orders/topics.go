package orders

const (
	TopicOrderCreated       = "erp.order.created"
	TopicOrderStatusChanged = "erp.order.status_changed"

	// created events stockwatch gave up on
	TopicOrderCreatedDLQ = "erp.order.created.dlq"
)

// Partition key = order id, so events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
