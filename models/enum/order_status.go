package enum

// OrderStatus 表示訂單的狀態
type OrderStatus string

const (
	OrderStatusReceived         OrderStatus = "received"          // 訂單已建立，商店已收到通知
	OrderStatusCustomerNotified OrderStatus = "customer_notified" // 已寄出顧客確認信
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusCustomerNotified:
		return true
	}
	return false
}
