package stubserver

import "time"

type user struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	password string
}

type adminUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`

	password string
}

type product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	ImageURL     string    `json:"image_url"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

type category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type review struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id,omitempty"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

type orderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type order struct {
	ID           int64       `json:"id"`
	OrderNumber  string      `json:"order_number"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	Pincode      string      `json:"pincode"`
	TotalAmount  float64     `json:"total_amount"`
	Status       string      `json:"status"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []orderItem `json:"items"`

	userID int64
}

type state struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type city struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StateCode string `json:"-"`
}

func (s *Server) seed() {
	now := time.Now()

	s.categories = []*category{
		{ID: 1, Name: "Indoor Plants", Description: "Air-purifying plants for the home", CreatedAt: now},
		{ID: 2, Name: "Seeds", Description: "Organic vegetable and herb seeds", CreatedAt: now},
		{ID: 3, Name: "Gardening Supplies", Description: "Fertilizers, pots and tools", CreatedAt: now},
	}
	s.products = []*product{
		{ID: 1, Name: "Tulsi Plant", Description: "Holy basil in a clay pot", CategoryID: 1, CategoryName: "Indoor Plants", Price: 199, Stock: 25, IsFeatured: true, CreatedAt: now},
		{ID: 2, Name: "Areca Palm", Description: "Low-maintenance indoor palm", CategoryID: 1, CategoryName: "Indoor Plants", Price: 499, Stock: 12, CreatedAt: now},
		{ID: 3, Name: "Organic Tomato Seeds", Description: "Heirloom desi variety, 50 seeds", CategoryID: 2, CategoryName: "Seeds", Price: 99, Stock: 80, IsFeatured: true, CreatedAt: now},
		{ID: 4, Name: "Neem Cake Fertilizer 1kg", Description: "Cold-pressed neem cake", CategoryID: 3, CategoryName: "Gardening Supplies", Price: 149, Stock: 40, CreatedAt: now},
		{ID: 5, Name: "Snake Plant", Description: "Sansevieria, nearly indestructible", CategoryID: 1, CategoryName: "Indoor Plants", Price: 349, Stock: 3, CreatedAt: now},
	}
	s.reviews = []*review{
		{ID: 1, ProductID: 1, CustomerName: "Asha", Rating: 5, Comment: "Healthy plant, well packed", IsApproved: true, CreatedAt: now},
		{ID: 2, ProductID: 3, CustomerName: "Ravi", Rating: 4, Comment: "Good germination rate", IsApproved: false, CreatedAt: now},
	}
	s.admins = map[string]*adminUser{
		"admin": {ID: 1, Username: "admin", password: "admin123"},
	}
	s.states = []state{
		{Code: "KA", Name: "Karnataka"},
		{Code: "KL", Name: "Kerala"},
		{Code: "MH", Name: "Maharashtra"},
		{Code: "TN", Name: "Tamil Nadu"},
	}
	s.cities = []city{
		{ID: 1, Name: "Bengaluru", StateCode: "KA"},
		{ID: 2, Name: "Mysuru", StateCode: "KA"},
		{ID: 3, Name: "Kochi", StateCode: "KL"},
		{ID: 4, Name: "Mumbai", StateCode: "MH"},
		{ID: 5, Name: "Pune", StateCode: "MH"},
		{ID: 6, Name: "Nagpur", StateCode: "MH"},
		{ID: 7, Name: "Chennai", StateCode: "TN"},
		{ID: 8, Name: "Coimbatore", StateCode: "TN"},
	}
	s.seq = 100
}
