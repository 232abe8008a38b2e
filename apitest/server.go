// Package apitest runs an in-process fake of the storefront REST API for
// tests. It keeps catalog, carts, orders and contact requests in memory,
// counts hits per route and can be told to fail or slow down a route.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"floure-storefront/models"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50

// Route keys used by Hits, Fail and Delay.
const (
	RouteSiteConfig       = "GET /site-config/"
	RouteCategories       = "GET /categories/"
	RouteCategory         = "GET /categories/:slug/"
	RouteCategoryProducts = "GET /categories/:slug/products/"
	RouteProducts         = "GET /products/"
	RouteProduct          = "GET /products/:slug/"
	RouteCreateCart       = "POST /carts/"
	RouteGetCart          = "GET /carts/:id/"
	RouteUpdateCart       = "PATCH /carts/:id/"
	RouteCreateOrder      = "POST /orders/"
	RouteCreateContact    = "POST /contact-requests/"
)

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	siteConfig models.SiteConfig
	categories []models.Category
	products   []models.Product
	carts      map[int64]*models.Cart
	orders     []models.Order
	contacts   []models.ContactRequest

	nextCartID  int64
	nextItemID  int64
	nextOrderID int64
	pageSize    int

	hits     map[string]int
	failures map[string]int
	delays   map[string]time.Duration
}

// NewServer starts a fake API seeded with a small catalog. It is closed when
// the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		carts:       map[int64]*models.Cart{},
		nextCartID:  100,
		nextItemID:  1000,
		nextOrderID: 500,
		pageSize:    defaultPageSize,
		hits:        map[string]int{},
		failures:    map[string]int{},
		delays:      map[string]time.Duration{},
	}
	s.seed()

	r := gin.New()
	r.Use(s.instrument)
	api := r.Group("/api")
	{
		api.GET("/site-config/", s.getSiteConfig)
		api.GET("/categories/", s.listCategories)
		api.GET("/categories/:slug/", s.getCategory)
		api.GET("/categories/:slug/products/", s.listCategoryProducts)
		api.GET("/products/", s.listProducts)
		api.GET("/products/:slug/", s.getProduct)
		api.POST("/carts/", s.createCart)
		api.GET("/carts/:id/", s.getCart)
		api.PATCH("/carts/:id/", s.updateCart)
		api.POST("/orders/", s.createOrder)
		api.POST("/contact-requests/", s.createContact)
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to hand to api.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) seed() {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	s.siteConfig = models.SiteConfig{
		ID:             1,
		StoreName:      "Floure",
		PrimaryColor:   "#d94f70",
		SecondaryColor: "#fbe3e8",
		ContactEmail:   "hola@floure.pe",
		ContactPhone:   "+51 999 000 111",
		MinOrderAmount: "0.00",
		UpdatedAt:      now,
	}
	s.categories = []models.Category{
		{ID: 1, Name: "Ramos", Slug: "ramos", IsActive: true, Order: 1, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Arreglos", Slug: "arreglos", IsActive: true, Order: 2, CreatedAt: now, UpdatedAt: now},
	}
	s.products = []models.Product{
		{ID: 1, Category: 1, Name: "Ramo de rosas", Slug: "ramo-de-rosas", Price: "12.50", Stock: 20, IsFeatured: true, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Category: 1, Name: "Ramo de tulipanes", Slug: "ramo-de-tulipanes", Price: "30.00", Stock: 8, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Category: 2, Name: "Caja de girasoles", Slug: "caja-de-girasoles", Price: "8.75", Stock: 5, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
}

// instrument counts hits and applies injected delays and failures.
func (s *Server) instrument(c *gin.Context) {
	key := c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), "/api")

	s.mu.Lock()
	s.hits[key]++
	status := s.failures[key]
	delay := s.delays[key]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"detail": "injected failure"})
		return
	}
	c.Next()
}

// Hits reports how many requests reached a route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Fail makes every request to route answer with status until Heal is called.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

func (s *Server) Heal(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Delay holds every request to route for d before handling it.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// SetPageSize changes how many products one page of GET /products/ holds.
func (s *Server) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// RemoveProduct takes a product off the catalog; carts that still hold it
// are rejected on their next update.
func (s *Server) RemoveProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
}

// SetProductPrice changes the catalog price; existing cart snapshots keep
// the old one.
func (s *Server) SetProductPrice(id int64, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Price = price
		}
	}
}

// Cart returns a copy of a stored cart.
func (s *Server) Cart(id int64) (*models.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[id]
	if !ok {
		return nil, false
	}
	return cart.Clone(), true
}

// PutCart stores cart as-is, replacing any cart with the same id.
func (s *Server) PutCart(cart models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = cart.Clone()
}

func (s *Server) DeleteCart(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

func (s *Server) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Server) Contacts() []models.ContactRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ContactRequest, len(s.contacts))
	copy(out, s.contacts)
	return out
}

func (s *Server) getSiteConfig(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.siteConfig)
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.categories)
}

func (s *Server) categoryBySlug(slug string) (models.Category, bool) {
	for _, category := range s.categories {
		if category.Slug == slug {
			return category, true
		}
	}
	return models.Category{}, false
}

func (s *Server) getCategory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categoryBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) listCategoryProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categoryBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	products := []models.Product{}
	for _, p := range s.products {
		if p.Category == category.ID {
			products = append(products, p)
		}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categoryID int64
	if slug := c.Query("category"); slug != "" {
		category, ok := s.categoryBySlug(slug)
		if !ok {
			c.JSON(http.StatusOK, models.Page[models.Product]{Results: []models.Product{}})
			return
		}
		categoryID = category.ID
	}
	search := strings.ToLower(c.Query("search"))
	featured := c.Query("is_featured")

	matched := []models.Product{}
	for _, p := range s.products {
		if categoryID != 0 && p.Category != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if featured != "" && strconv.FormatBool(p.IsFeatured) != featured {
			continue
		}
		matched = append(matched, p)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * s.pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + s.pageSize
	if end > len(matched) {
		end = len(matched)
	}
	resp := models.Page[models.Product]{Count: len(matched), Results: matched[start:end]}
	if end < len(matched) {
		next := fmt.Sprintf("%s/api/products/?page=%d", s.URL, page+1)
		resp.Next = &next
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Slug == c.Param("slug") {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func (s *Server) createCart(c *gin.Context) {
	var req models.CartCreatePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = models.CartStatusOpen
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCartID++
	now := time.Now().UTC()
	session := req.SessionID
	cart := &models.Cart{
		ID:        s.nextCartID,
		SessionID: &session,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []models.CartItem{},
	}
	s.carts[cart.ID] = cart
	c.JSON(http.StatusCreated, cart)
}

func (s *Server) getCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.lookupCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cart)
}

// updateCart replaces the cart's lines with the submitted list. Lines that
// carry a known id keep it; the rest get fresh ids.
func (s *Server) updateCart(c *gin.Context) {
	var req models.CartUpdatePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.lookupCart(c)
	if !ok {
		return
	}

	seen := map[int64]bool{}
	items := make([]models.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"items": "quantity must be at least 1"})
			return
		}
		if seen[item.Product] {
			c.JSON(http.StatusBadRequest, gin.H{"items": fmt.Sprintf("duplicate product %d", item.Product)})
			return
		}
		seen[item.Product] = true

		product, found := s.productByID(item.Product)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"items": fmt.Sprintf("invalid product %d", item.Product)})
			return
		}
		if item.UnitPriceSnapshot == "" {
			item.UnitPriceSnapshot = product.Price
		}
		if _, known := cart.ItemByID(item.ID); item.ID == 0 || !known {
			s.nextItemID++
			item.ID = s.nextItemID
		}
		items = append(items, item)
	}

	if req.SessionID != "" {
		session := req.SessionID
		cart.SessionID = &session
	}
	if req.Status != "" {
		cart.Status = req.Status
	}
	cart.Items = items
	cart.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, cart)
}

func (s *Server) lookupCart(c *gin.Context) (*models.Cart, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return nil, false
	}
	cart, ok := s.carts[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return nil, false
	}
	return cart, true
}

func (s *Server) productByID(id int64) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *Server) createOrder(c *gin.Context) {
	var req models.OrderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.ShippingFullName == "" || req.ShippingPhone == "" || req.ShippingAddressText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "shipping details are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrderID++
	now := time.Now().UTC()
	order := models.Order{
		ID:                  s.nextOrderID,
		Status:              req.Status,
		Subtotal:            req.Subtotal,
		ShippingCost:        req.ShippingCost,
		DiscountTotal:       req.DiscountTotal,
		Total:               req.Total,
		PaymentMethod:       req.PaymentMethod,
		PaymentStatus:       req.PaymentStatus,
		ShippingFullName:    req.ShippingFullName,
		ShippingPhone:       req.ShippingPhone,
		ShippingAddressText: req.ShippingAddressText,
		NotesCustomer:       req.NotesCustomer,
		NotesAdmin:          req.NotesAdmin,
		Items:               []models.OrderItem{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.orders = append(s.orders, order)
	c.JSON(http.StatusCreated, order)
}

func (s *Server) createContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = int64(len(s.contacts) + 1)
	req.Status = "NEW"
	req.CreatedAt = time.Now().UTC()
	s.contacts = append(s.contacts, req)
	c.JSON(http.StatusCreated, req)
}
