package commerce

import "time"

// Dataset bundles the fixture-backed repositories used by the demo server and
// the scripted agents.
type Dataset struct {
	Customers CustomerRepo
	Orders    OrderRepo
	Products  ProductRepo
}

// NewDemoDataset builds the demo records. Shipping timestamps are generated
// relative to now so the return-window and tracking scenarios stay live.
func NewDemoDataset() *Dataset {
	now := time.Now().UTC()
	day := 24 * time.Hour

	customers := []Customer{
		{ID: "C-1001", Name: "Maria Ionescu", Language: "en", Premium: true, DeliveryAddress: "Strada Aviatorilor 12, Bucharest"},
		{ID: "C-1002", Name: "Peter Nagy", Language: "hu", Premium: false, DeliveryAddress: "Váci utca 44, Budapest"},
		{ID: "C-1003", Name: "Elena Dimitrova", Language: "bg", Premium: false, DeliveryAddress: "ul. Vitosha 18, Sofia"},
	}

	orders := []Order{
		{
			ID: "ORD-2026-1001", CustomerID: "C-1001", Status: StatusInTransit,
			Items:    []OrderItem{{SKU: "PHONE-SAM-S25U", Name: "Samsung Galaxy S25 Ultra", Price: 1449.00}},
			Total:    1449.00, Currency: "EUR", PaymentMethod: "card", Seller: SellerPlatform,
			PlacedAt: now.Add(-3 * day), Carrier: "DPD", TrackingNumber: "DPD-4420917733",
			CurrentLocation:   "Regional hub, 40km from destination",
			EstimatedDelivery: now.Format("2006-01-02"),
		},
		{
			ID: "ORD-2026-1002", CustomerID: "C-1001", Status: StatusProcessing,
			Items:    []OrderItem{{SKU: "TV-LG-OLED55C4", Name: "LG C4 OLED 55\" TV", Price: 1199.00}},
			Total:    1199.00, Currency: "EUR", PaymentMethod: "card", Seller: SellerPlatform,
			PlacedAt: now.Add(-1 * day),
			EstimatedDelivery: now.Add(4 * day).Format("2006-01-02"),
			Note:     "High-value item: signature required on delivery",
		},
		{
			ID: "ORD-2026-1003", CustomerID: "C-1001", Status: StatusDelivered,
			Items:       []OrderItem{{SKU: "AUDIO-SONY-WH1000XM5", Name: "Sony WH-1000XM5 Headphones", Price: 349.00}},
			Total:       349.00, Currency: "EUR", PaymentMethod: "card", Seller: SellerPlatform,
			PlacedAt:    now.Add(-44 * day), Carrier: "GLS", TrackingNumber: "GLS-99021475",
			DeliveredAt: now.Add(-40 * day),
		},
		{
			ID: "ORD-2026-2001", CustomerID: "C-1002", Status: StatusDelivered,
			Items:       []OrderItem{{SKU: "LAPTOP-LEN-YOGA7", Name: "Lenovo Yoga 7 14\" Laptop", Price: 899.00}},
			Total:       899.00, Currency: "EUR", PaymentMethod: "card", Seller: "marketplace_techdeals",
			PlacedAt:    now.Add(-13 * day), Carrier: "DPD", TrackingNumber: "DPD-5570213344",
			DeliveredAt: now.Add(-10 * day),
		},
		{
			ID: "ORD-2026-3001", CustomerID: "C-1003", Status: StatusDelivered,
			Items:       []OrderItem{{SKU: "KITCHEN-DL-AIRFRY", Name: "DeLonghi AirFry Multi Oven", Price: 229.00}},
			Total:       229.00, Currency: "EUR", PaymentMethod: "card", Seller: SellerPlatform,
			PlacedAt:    now.Add(-8 * day), Carrier: "DPD", TrackingNumber: "DPD-6611408825",
			DeliveredAt: now.Add(-5 * day),
		},
	}

	products := []Product{
		{
			SKU: "TV-LG-OLED55C4", Name: "LG C4 OLED 55\" TV", Category: "tvs",
			Description: "W-OLED panel, a9 Gen7 processor, webOS, 4x HDMI 2.1 at 4K@120Hz",
			Price:       1199.00, Rating: 4.8, InStock: true, Seller: SellerPlatform,
			Specs: map[string]string{"panel": "W-OLED", "refresh": "120Hz", "sound": "40W 2.2ch", "warranty": "24 months"},
		},
		{
			SKU: "TV-SAM-S90D55", Name: "Samsung S90D QD-OLED 55\" TV", Category: "tvs",
			Description: "QD-OLED panel with higher HDR brightness, Object Tracking Sound+, 4K@144Hz",
			Price:       1299.00, Rating: 4.7, InStock: true, Seller: SellerPlatform,
			Specs: map[string]string{"panel": "QD-OLED", "refresh": "144Hz", "sound": "60W OTS+", "warranty": "24 months"},
		},
		{
			SKU: "PHONE-SAM-S25U", Name: "Samsung Galaxy S25 Ultra", Category: "phones",
			Description: "6.9\" flagship with S Pen, 200MP camera",
			Price:       1449.00, Rating: 4.9, InStock: true, Seller: SellerPlatform,
		},
		{
			SKU: "ACC-SAM-S25CASE", Name: "Samsung S25 Ultra Silicone Case", Category: "accessories",
			Description: "Official silicone case for Galaxy S25 Ultra, soft-touch finish, S Pen cutout",
			Price:       29.99, Rating: 4.5, InStock: true, Seller: SellerPlatform,
		},
		{
			SKU: "AUDIO-SONY-WH1000XM5", Name: "Sony WH-1000XM5 Headphones", Category: "audio",
			Description: "Wireless noise-cancelling over-ear headphones",
			Price:       349.00, Rating: 4.8, InStock: true, Seller: SellerPlatform,
		},
		{
			SKU: "AUDIO-SAM-BUDS3", Name: "Samsung Galaxy Buds3 Pro", Category: "audio",
			Description: "Wireless earbuds with ANC, pairs with Galaxy phones",
			Price:       189.00, Rating: 4.4, InStock: false, Seller: SellerPlatform,
		},
		{
			SKU: "LAPTOP-LEN-YOGA7", Name: "Lenovo Yoga 7 14\" Laptop", Category: "laptops",
			Description: "2-in-1 convertible laptop, Ryzen 7, 16GB RAM",
			Price:       899.00, Rating: 4.3, InStock: true, Seller: "marketplace_techdeals",
		},
		{
			SKU: "LAPTOP-APP-MBA13", Name: "Apple MacBook Air 13\" M3", Category: "laptops",
			Description: "Thin and light laptop with M3 chip, 18h battery",
			Price:       1299.00, Rating: 4.9, InStock: true, Seller: SellerPlatform,
		},
		{
			SKU: "KITCHEN-DL-AIRFRY", Name: "DeLonghi AirFry Multi Oven", Category: "kitchen",
			Description: "Countertop multi oven with air fry mode",
			Price:       229.00, Rating: 4.2, InStock: true, Seller: SellerPlatform,
		},
	}

	return &Dataset{
		Customers: &staticCustomerRepo{customers: customers},
		Orders:    &staticOrderRepo{orders: orders},
		Products:  &staticProductRepo{products: products},
	}
}
