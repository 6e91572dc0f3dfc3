package commerce

import "strings"

// CustomerRepo is a keyed read over customer records.
type CustomerRepo interface {
	Get(id string) (Customer, bool)
	List() []Customer
}

// OrderRepo is a keyed read over order records.
type OrderRepo interface {
	Get(id string) (Order, bool)
	ByCustomer(customerID string) []Order
	ByTracking(trackingNumber string) (Order, bool)
}

// ProductRepo is a keyed read and search over catalog records.
type ProductRepo interface {
	Get(sku string) (Product, bool)
	Search(query, category string, maxPrice float64) []Product
}

type staticCustomerRepo struct{ customers []Customer }

func (r *staticCustomerRepo) Get(id string) (Customer, bool) {
	for _, c := range r.customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

func (r *staticCustomerRepo) List() []Customer {
	out := make([]Customer, len(r.customers))
	copy(out, r.customers)
	return out
}

type staticOrderRepo struct{ orders []Order }

func (r *staticOrderRepo) Get(id string) (Order, bool) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

func (r *staticOrderRepo) ByCustomer(customerID string) []Order {
	var out []Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

func (r *staticOrderRepo) ByTracking(trackingNumber string) (Order, bool) {
	for _, o := range r.orders {
		if o.TrackingNumber != "" && o.TrackingNumber == trackingNumber {
			return o, true
		}
	}
	return Order{}, false
}

type staticProductRepo struct{ products []Product }

func (r *staticProductRepo) Get(sku string) (Product, bool) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, true
		}
	}
	return Product{}, false
}

// Search matches the full query against name/description/category first, then
// falls back to per-word matching when nothing hits.
func (r *staticProductRepo) Search(query, category string, maxPrice float64) []Product {
	q := strings.ToLower(query)

	matches := r.filter(func(p Product) bool {
		text := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		return strings.Contains(text, q)
	}, category, maxPrice)

	if len(matches) == 0 {
		words := strings.Fields(q)
		matches = r.filter(func(p Product) bool {
			text := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
			for _, w := range words {
				if strings.Contains(text, w) {
					return true
				}
			}
			return false
		}, category, maxPrice)
	}
	return matches
}

func (r *staticProductRepo) filter(match func(Product) bool, category string, maxPrice float64) []Product {
	var out []Product
	for _, p := range r.products {
		if !match(p) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(category)) {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}
