package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/intellichain/internal/domain"
)

func TestRebalanceSuggestion_Validate(t *testing.T) {
	valid := domain.RebalanceSuggestion{FromStore: "S002", ToStore: "S001", ProductName: "Milk", TransferQty: 10}
	assert.NoError(t, valid.Validate())

	cases := map[string]func(s *domain.RebalanceSuggestion){
		"missing from": func(s *domain.RebalanceSuggestion) { s.FromStore = "" },
		"same store":   func(s *domain.RebalanceSuggestion) { s.ToStore = s.FromStore },
		"no product":   func(s *domain.RebalanceSuggestion) { s.ProductName = "" },
		"zero qty":     func(s *domain.RebalanceSuggestion) { s.TransferQty = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), domain.ErrInvalidCommand)
		})
	}
}

func TestWarehouseOrder_Validate(t *testing.T) {
	assert.NoError(t, domain.WarehouseOrder{StoreID: "S001", ProductName: "Milk", OrderQty: 5}.Validate())
	assert.ErrorIs(t, domain.WarehouseOrder{ProductName: "Milk", OrderQty: 5}.Validate(), domain.ErrInvalidCommand)
	assert.ErrorIs(t, domain.WarehouseOrder{StoreID: "S001", OrderQty: 5}.Validate(), domain.ErrInvalidCommand)
	assert.ErrorIs(t, domain.WarehouseOrder{StoreID: "S001", ProductName: "Milk", OrderQty: -1}.Validate(), domain.ErrInvalidCommand)
}
