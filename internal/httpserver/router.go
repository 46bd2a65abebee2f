package httpserver

import (
	"context"
	"errors"
	"log"

	"nutristore/internal/catalog"
	"nutristore/internal/domain"
	cartrepo "nutristore/internal/repository/cart"
	cartsvc "nutristore/internal/service/cart"
	customersvc "nutristore/internal/service/customer"
	reviewsvc "nutristore/internal/service/review"
	wishlistsvc "nutristore/internal/service/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService answers product queries.
type CatalogService interface {
	List(ctx context.Context, f catalog.Filter, limit int) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	TopSellers(ctx context.Context, limit int) ([]domain.Product, error)
	Trending(ctx context.Context, limit int) ([]domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Related(ctx context.Context, productID string, limit int) ([]domain.Product, error)
	Facets(ctx context.Context) (categories, brands []string, err error)
}

// CartService mutates and reads per-owner carts.
type CartService interface {
	Get(ctx context.Context, owner cartrepo.Owner) (*domain.Cart, error)
	Add(ctx context.Context, owner cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner cartrepo.Owner, productID, variantID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, owner cartrepo.Owner, productID, variantID string) (*domain.Cart, error)
	Clear(ctx context.Context, owner cartrepo.Owner) (*domain.Cart, error)
	Stats(ctx context.Context, owner cartrepo.Owner) (cartsvc.Stats, error)
	Sync(ctx context.Context, owner cartrepo.Owner, lines []cartsvc.SyncLine) (*domain.Cart, error)
	Merge(ctx context.Context, anonymousID, customerID string) (*domain.Cart, error)
}

// ReviewService creates and lists product reviews.
type ReviewService interface {
	Create(ctx context.Context, productID string, customer *domain.Customer, in reviewsvc.CreateInput) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

// CustomerService handles signup, login and token lookup.
type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// AnonymousService issues and validates guest tokens.
type AnonymousService interface {
	Issue(ctx context.Context) (accessToken, refreshToken, anonymousID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

// WishlistService stores saved products per owner.
type WishlistService interface {
	List(ctx context.Context, owner string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, owner, productID string, opts wishlistsvc.AddOptions) (*domain.WishlistItem, error)
	Remove(ctx context.Context, owner, productID string) error
	RestockCheck(ctx context.Context, owner string, cartOwner cartrepo.Owner) ([]wishlistsvc.RestockEvent, error)
}

// HistoryService records search terms per owner.
type HistoryService interface {
	Record(ctx context.Context, owner, term string) error
	History(ctx context.Context, owner string) ([]string, error)
	Recent(ctx context.Context, owner string) ([]string, error)
	Clear(ctx context.Context, owner string) error
}

// Deps carries the services the router needs.
type Deps struct {
	CatalogSvc   CatalogService
	CartSvc      CartService
	ReviewSvc    ReviewService
	CustomerSvc  CustomerService
	AnonymousSvc AnonymousService
	WishlistSvc  WishlistService
	HistorySvc   HistoryService
}

func (d Deps) validate() error {
	if d.CatalogSvc == nil {
		return errors.New("catalog service is required")
	}
	if d.CartSvc == nil {
		return errors.New("cart service is required")
	}
	if d.CustomerSvc == nil {
		return errors.New("customer service is required")
	}
	if d.AnonymousSvc == nil {
		return errors.New("anonymous service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(authMiddleware(deps.CustomerSvc, deps.AnonymousSvc))

	api.POST("/auth/signup", signupHandler(deps.CustomerSvc))
	api.POST("/auth/login", loginHandler(deps.CustomerSvc, deps.CartSvc, logger))
	api.POST("/auth/anonymous", anonymousHandler(deps.AnonymousSvc))

	products := api.Group("/products")
	products.GET("", listProductsHandler(deps.CatalogSvc, deps.HistorySvc, logger))
	products.GET("/facets", facetsHandler(deps.CatalogSvc))
	products.GET("/featured", presetHandler(deps.CatalogSvc.Featured, defaultFeaturedLimit))
	products.GET("/top-sellers", presetHandler(deps.CatalogSvc.TopSellers, defaultTopSellersLimit))
	products.GET("/trending", presetHandler(deps.CatalogSvc.Trending, defaultTrendingLimit))
	products.GET("/:id", getProductHandler(deps.CatalogSvc))
	products.GET("/:id/related", relatedHandler(deps.CatalogSvc))
	if deps.ReviewSvc != nil {
		products.GET("/:id/reviews", listReviewsHandler(deps.ReviewSvc))
		products.POST("/:id/reviews", requireCustomer(), createReviewHandler(deps.ReviewSvc))
	}

	cart := api.Group("/cart", requireIdentity())
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.GET("/stats", cartStatsHandler(deps.CartSvc))
	cart.POST("/add", addToCartHandler(deps.CartSvc))
	cart.PUT("/update", updateCartHandler(deps.CartSvc))
	cart.DELETE("/remove", removeFromCartHandler(deps.CartSvc))
	cart.DELETE("/clear", clearCartHandler(deps.CartSvc))
	cart.POST("/sync", syncCartHandler(deps.CartSvc))

	if deps.WishlistSvc != nil {
		wishlist := api.Group("/wishlist", requireIdentity())
		wishlist.GET("", listWishlistHandler(deps.WishlistSvc))
		wishlist.POST("", addWishlistHandler(deps.WishlistSvc))
		wishlist.DELETE("/:productId", removeWishlistHandler(deps.WishlistSvc))
		wishlist.POST("/restock-check", restockCheckHandler(deps.WishlistSvc))
	}

	if deps.HistorySvc != nil {
		history := api.Group("/search-history", requireIdentity())
		history.GET("", getHistoryHandler(deps.HistorySvc))
		history.POST("", recordHistoryHandler(deps.HistorySvc))
		history.DELETE("", clearHistoryHandler(deps.HistorySvc))
	}

	return router, nil
}
