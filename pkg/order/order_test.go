package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMapSortsByName(t *testing.T) {
	orders := FromMap(map[string]int{"oranges": 1000, "apples": 500, "carrots": 2000})

	assert.Equal(t, []Order{
		{Name: "apples", Quantity: 500},
		{Name: "carrots", Quantity: 2000},
		{Name: "oranges", Quantity: 1000},
	}, orders)
}

func TestFromMapEmpty(t *testing.T) {
	assert.Empty(t, FromMap(nil))
}

func TestFormBody(t *testing.T) {
	tests := []struct {
		order Order
		want  string
	}{
		{Order{Name: "apples", Quantity: 500}, "apples=500"},
		{Order{Name: "green apples", Quantity: 3}, "green+apples=3"},
		{Order{Name: "a&b", Quantity: 0}, "a%26b=0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.order.FormBody())
	}
}
