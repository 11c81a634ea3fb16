package orders

type CancelOrder struct {
	OrderID int64 `msgpack:"order_id"`
}

type OrderCanceled struct {
	OrderID int64 `msgpack:"order_id"`
}

type OrderNotFound struct {
	OrderID int64 `msgpack:"order_id"`
}
