package domain

import "fmt"

// Validate checks a transfer before it is sent to the backend.
func (s RebalanceSuggestion) Validate() error {
	switch {
	case s.FromStore == "" || s.ToStore == "":
		return fmt.Errorf("%w: from_store and to_store are required", ErrInvalidCommand)
	case s.FromStore == s.ToStore:
		return fmt.Errorf("%w: cannot transfer from %s to itself", ErrInvalidCommand, s.FromStore)
	case s.ProductName == "":
		return fmt.Errorf("%w: product_name is required", ErrInvalidCommand)
	case s.TransferQty <= 0:
		return fmt.Errorf("%w: transfer_qty must be positive", ErrInvalidCommand)
	}
	return nil
}

// Validate checks a warehouse order before it is sent to the backend.
func (o WarehouseOrder) Validate() error {
	switch {
	case o.StoreID == "":
		return fmt.Errorf("%w: store_id is required", ErrInvalidCommand)
	case o.ProductName == "":
		return fmt.Errorf("%w: product_name is required", ErrInvalidCommand)
	case o.OrderQty <= 0:
		return fmt.Errorf("%w: order_qty must be positive", ErrInvalidCommand)
	}
	return nil
}

// Key identifies an order while it is being placed.
func (o WarehouseOrder) Key() string {
	return o.StoreID + "-" + o.ProductID + "-" + o.ProductName
}
