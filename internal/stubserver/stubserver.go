// Package stubserver is an in-memory double of the storefront backend for
// development and integration tests. It honors the consumed wire contract
// (cookie and bearer auth, detail error envelopes, stock validation,
// idempotency-key dedupe) without any real order-processing logic.
package stubserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	userCookie  = "session"
	adminCookie = "admin_session"
)

type sessionRec struct {
	kind string // "user" or "admin"
	id   int64
}

type Server struct {
	log *slog.Logger

	mu          sync.Mutex
	users       []*user
	admins      map[string]*adminUser
	sessions    map[string]sessionRec
	products    []*product
	categories  []*category
	reviews     []*review
	orders      []*order
	states      []state
	cities      []city
	idempotency map[string]*order
	seq         int64
}

func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:         log,
		sessions:    make(map[string]sessionRec),
		idempotency: make(map[string]*order),
	}
	s.seed()
	return s
}

// Router mounts the API under /api, mirroring the real backend's prefix.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.signup)
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)
		r.Get("/auth/me", s.me)
		r.Put("/auth/profile", s.updateProfile)

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/categories", s.listCategories)
		r.Get("/reviews", s.listReviews)
		r.Post("/reviews", s.createReview)

		r.Post("/orders", s.createOrder)
		r.Get("/orders/my-orders", s.myOrders)

		r.Get("/locations/states", s.listStates)
		r.Get("/locations/cities", s.listCities)

		r.Post("/admin/login", s.adminLogin)
		r.Get("/admin/me", s.adminMe)
		r.Post("/admin/products", s.adminCreateProduct)
		r.Put("/admin/products/{id}", s.adminUpdateProduct)
		r.Delete("/admin/products/{id}", s.adminDeleteProduct)
		r.Post("/admin/categories", s.adminCreateCategory)
		r.Put("/admin/categories/{id}", s.adminUpdateCategory)
		r.Delete("/admin/categories/{id}", s.adminDeleteCategory)
		r.Get("/admin/orders", s.adminListOrders)
		r.Patch("/admin/orders/{id}/status", s.adminSetOrderStatus)
		r.Get("/admin/users", s.adminListUsers)
		r.Patch("/admin/users/{id}/status", s.adminSetUserStatus)
		r.Get("/admin/reviews", s.adminListReviews)
		r.Put("/admin/reviews/{id}/approve", s.adminApproveReview)
		r.Delete("/admin/reviews/{id}", s.adminDeleteReview)
		r.Get("/admin/stats", s.adminStats)
		r.Get("/admin/analytics", s.adminAnalytics)
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Server) issueSession(w http.ResponseWriter, kind string, id int64) string {
	token := uuid.NewString()
	s.sessions[token] = sessionRec{kind: kind, id: id}
	name := userCookie
	if kind == "admin" {
		name = adminCookie
	}
	http.SetCookie(w, &http.Cookie{Name: name, Value: token, Path: "/", HttpOnly: true})
	return token
}

// principal resolves the caller for one auth domain, trying the bearer
// header first and then the domain's cookie.
func (s *Server) principal(r *http.Request, kind string) (int64, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token := strings.TrimPrefix(h, "Bearer ")
		if rec, ok := s.sessions[token]; ok && rec.kind == kind {
			return rec.id, true
		}
	}
	name := userCookie
	if kind == "admin" {
		name = adminCookie
	}
	if c, err := r.Cookie(name); err == nil {
		if rec, ok := s.sessions[c.Value]; ok && rec.kind == kind {
			return rec.id, true
		}
	}
	return 0, false
}

func (s *Server) userByID(id int64) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// --- user auth ---

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email {
			respondDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	u := &user{
		ID:        s.nextID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		CreatedAt: time.Now(),
		password:  req.Password,
	}
	s.users = append(s.users, u)
	token := s.issueSession(w, "user", u.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": u.ID, "name": u.Name, "email": u.Email},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != req.Email {
			continue
		}
		if u.password != req.Password {
			break
		}
		if !u.IsActive {
			respondDetail(w, http.StatusForbidden, "Account is deactivated")
			return
		}
		token := s.issueSession(w, "user", u.ID)
		respondJSON(w, http.StatusOK, map[string]any{
			"token": token,
			"user":  map[string]any{"id": u.ID, "name": u.Name, "email": u.Email},
		})
		return
	}
	respondDetail(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		delete(s.sessions, strings.TrimPrefix(h, "Bearer "))
	}
	for _, name := range []string{userCookie, adminCookie} {
		if c, err := r.Cookie(name); err == nil {
			delete(s.sessions, c.Value)
			http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.principal(r, "user")
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u := s.userByID(id)
	if u == nil {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		State   *string `json:"state"`
		Pincode *string `json:"pincode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.principal(r, "user")
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u := s.userByID(id)
	if u == nil {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.State != nil {
		u.State = *req.State
	}
	if req.Pincode != nil {
		u.Pincode = *req.Pincode
	}
	respondJSON(w, http.StatusOK, u)
}

// --- catalog ---

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categoryID, _ := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64)
	featured := r.URL.Query().Get("featured") == "true"

	out := make([]*product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		if featured && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for _, p := range s.products {
		if p.ID == id {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Product not found")
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.categories)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	productID, _ := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	out := make([]*review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		if !rv.IsApproved {
			continue
		}
		if productID > 0 && rv.ProductID != productID {
			continue
		}
		out = append(out, rv)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID    int64  `json:"product_id"`
		CustomerName string `json:"customer_name"`
		Rating       int    `json:"rating"`
		Comment      string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondDetail(w, http.StatusUnprocessableEntity, "Rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rv := &review{
		ID:           s.nextID(),
		ProductID:    req.ProductID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CreatedAt:    time.Now(),
	}
	s.reviews = append(s.reviews, rv)
	respondJSON(w, http.StatusOK, rv)
}

// --- orders ---

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		} `json:"items"`
		CustomerName string `json:"customer_name"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		City         string `json:"city"`
		State        string `json:"state"`
		Pincode      string `json:"pincode"`
		Notes        string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.principal(r, "user")
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u := s.userByID(id)
	if u == nil {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if len(req.Items) == 0 {
		respondDetail(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" {
		if prev, ok := s.idempotency[idemKey]; ok {
			respondJSON(w, http.StatusOK, prev)
			return
		}
	}

	// Validate everything before mutating any stock.
	prods := make(map[int64]*product, len(req.Items))
	for _, it := range req.Items {
		var p *product
		for _, cand := range s.products {
			if cand.ID == it.ProductID {
				p = cand
				break
			}
		}
		if p == nil {
			respondDetail(w, http.StatusNotFound, fmt.Sprintf("Product %d not found", it.ProductID))
			return
		}
		if p.Stock < it.Quantity {
			respondDetail(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", p.Name))
			return
		}
		prods[it.ProductID] = p
	}

	ord := &order{
		ID:           s.nextID(),
		OrderNumber:  "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		CustomerName: req.CustomerName,
		Email:        u.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Status:       "pending",
		Notes:        req.Notes,
		CreatedAt:    time.Now(),
		userID:       u.ID,
	}
	for _, it := range req.Items {
		p := prods[it.ProductID]
		p.Stock -= it.Quantity
		subtotal := p.Price * float64(it.Quantity)
		ord.Items = append(ord.Items, orderItem{
			ID:          s.nextID(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			Price:       p.Price,
			Subtotal:    subtotal,
		})
		ord.TotalAmount += subtotal
	}
	s.orders = append(s.orders, ord)
	if idemKey != "" {
		s.idempotency[idemKey] = ord
	}
	respondJSON(w, http.StatusOK, ord)
}

func (s *Server) myOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.principal(r, "user")
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	out := make([]*order, 0)
	for _, o := range s.orders {
		if o.userID == id {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	respondJSON(w, http.StatusOK, out)
}

// --- locations ---

func (s *Server) listStates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.states)
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stateCode := r.URL.Query().Get("state_code")
	q := strings.ToLower(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	out := make([]city, 0)
	for _, c := range s.cities {
		if c.StateCode != stateCode {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// --- admin ---

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[req.Username]
	if !ok || a.password != req.Password {
		respondDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token := s.issueSession(w, "admin", a.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": map[string]any{"id": a.ID, "username": a.Username},
	})
}

func (s *Server) adminMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.requireAdminLocked(w, r)
	if a == nil {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"admin": map[string]any{"id": a.ID, "username": a.Username},
	})
}

// requireAdminLocked writes the 401 itself and returns nil when the caller
// is not an authenticated admin.
func (s *Server) requireAdminLocked(w http.ResponseWriter, r *http.Request) *adminUser {
	id, ok := s.principal(r, "admin")
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return nil
	}
	for _, a := range s.admins {
		if a.ID == id {
			return a
		}
	}
	respondDetail(w, http.StatusUnauthorized, "Not authenticated")
	return nil
}

func (s *Server) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		CategoryID  int64   `json:"category_id"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		ImageURL    string  `json:"image_url"`
		IsFeatured  bool    `json:"is_featured"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	p := &product{
		ID:          s.nextID(),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsFeatured:  req.IsFeatured,
		CreatedAt:   time.Now(),
	}
	for _, c := range s.categories {
		if c.ID == p.CategoryID {
			p.CategoryName = c.Name
		}
	}
	s.products = append(s.products, p)
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		CategoryID  int64   `json:"category_id"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		ImageURL    string  `json:"image_url"`
		IsFeatured  bool    `json:"is_featured"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for _, p := range s.products {
		if p.ID != id {
			continue
		}
		p.Name = req.Name
		p.Description = req.Description
		p.CategoryID = req.CategoryID
		p.Price = req.Price
		p.Stock = req.Stock
		p.ImageURL = req.ImageURL
		p.IsFeatured = req.IsFeatured
		for _, c := range s.categories {
			if c.ID == p.CategoryID {
				p.CategoryName = c.Name
			}
		}
		respondJSON(w, http.StatusOK, p)
		return
	}
	respondDetail(w, http.StatusNotFound, "Product not found")
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Product not found")
}

func (s *Server) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	c := &category{
		ID:          s.nextID(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}
	s.categories = append(s.categories, c)
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) adminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for _, c := range s.categories {
		if c.ID == id {
			c.Name = req.Name
			c.Description = req.Description
			c.ImageURL = req.ImageURL
			respondJSON(w, http.StatusOK, c)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Category not found")
}

func (s *Server) adminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Category not found")
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	out := append([]*order(nil), s.orders...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) adminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "pending", "processing", "shipped", "delivered", "cancelled":
	default:
		respondDetail(w, http.StatusBadRequest, "Invalid status")
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for _, o := range s.orders {
		if o.ID == id {
			o.Status = status
			respondJSON(w, http.StatusOK, map[string]string{
				"message":      "Order status updated",
				"order_number": o.OrderNumber,
				"status":       status,
			})
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Order not found")
}

func (s *Server) adminListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	respondJSON(w, http.StatusOK, s.users)
}

func (s *Server) adminSetUserStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	active, err := strconv.ParseBool(r.URL.Query().Get("is_active"))
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid is_active value")
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	u := s.userByID(id)
	if u == nil {
		respondDetail(w, http.StatusNotFound, "User not found")
		return
	}
	u.IsActive = active
	respondJSON(w, http.StatusOK, map[string]string{"message": "User status updated"})
}

func (s *Server) adminListReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	respondJSON(w, http.StatusOK, s.reviews)
}

func (s *Server) adminApproveReview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for _, rv := range s.reviews {
		if rv.ID == id {
			rv.IsApproved = true
			respondJSON(w, http.StatusOK, rv)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Review not found")
}

func (s *Server) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for i, rv := range s.reviews {
		if rv.ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Review not found")
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	lowStock := 0
	for _, p := range s.products {
		if p.Stock < 10 {
			lowStock++
		}
	}
	pending := 0
	for _, o := range s.orders {
		if o.Status == "pending" {
			pending++
		}
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"total_products":     len(s.products),
		"low_stock_products": lowStock,
		"total_orders":       len(s.orders),
		"pending_orders":     pending,
		"total_users":        len(s.users),
	})
}

func (s *Server) adminAnalytics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requireAdminLocked(w, r) == nil {
		return
	}
	rng := r.URL.Query().Get("range")
	days := 7
	if rng == "30d" {
		days = 30
	} else {
		rng = "7d"
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	type bucket struct {
		orders  int
		revenue float64
	}
	daily := make(map[string]*bucket)
	totalOrders := 0
	totalRevenue := 0.0
	for _, o := range s.orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		b := daily[day]
		if b == nil {
			b = &bucket{}
			daily[day] = b
		}
		b.orders++
		b.revenue += o.TotalAmount
		totalOrders++
		totalRevenue += o.TotalAmount
	}
	days_ := make([]string, 0, len(daily))
	for d := range daily {
		days_ = append(days_, d)
	}
	sort.Strings(days_)
	out := map[string]any{
		"range":         rng,
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
	}
	series := make([]map[string]any, 0, len(days_))
	for _, d := range days_ {
		series = append(series, map[string]any{
			"date":    d,
			"orders":  daily[d].orders,
			"revenue": daily[d].revenue,
		})
	}
	out["daily"] = series
	respondJSON(w, http.StatusOK, out)
}
