// Package order holds the order values sent by the requester.
package order

import (
	"net/url"
	"sort"
	"strconv"
)

// Order is one named quantity to submit.
type Order struct {
	Name     string
	Quantity int
}

// FromMap converts a name->quantity mapping into orders sorted by name.
func FromMap(m map[string]int) []Order {
	orders := make([]Order, 0, len(m))
	for name, qty := range m {
		orders = append(orders, Order{Name: name, Quantity: qty})
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Name < orders[j].Name })
	return orders
}

// FormBody encodes the order as a single name=quantity form pair.
func (o Order) FormBody() string {
	v := url.Values{}
	v.Set(o.Name, strconv.Itoa(o.Quantity))
	return v.Encode()
}

func (o Order) String() string {
	return o.Name + "=" + strconv.Itoa(o.Quantity)
}
