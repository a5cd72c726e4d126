package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopez/internal/cache"
	"shopez/internal/checkout"
	"shopez/internal/config"
	"shopez/internal/database"
	"shopez/internal/handlers"
	"shopez/internal/middleware"
	"shopez/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal("database connection failed: ", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("database disconnect error:", err)
		}
	}()

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	settingsCache, err := cache.New(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword)
	if err != nil {
		log.Fatal("redis connection failed: ", err)
	}
	defer settingsCache.Close()

	carts := store.NewCart(db)
	orders := store.NewOrders(db)
	catalog := store.NewCatalog(db)
	coordinator := checkout.New(carts, orders, store.NewTxn(client))

	r := gin.Default()
	r.Use(cors.Default())

	r.POST("/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/refresh", handlers.Refresh(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/logout", handlers.Logout(db))

	r.GET("/fetch-products", handlers.FetchProducts(catalog))
	r.GET("/fetch-product-details/:id", handlers.FetchProductDetails(catalog))
	r.GET("/fetch-banner", handlers.FetchBanner(catalog, settingsCache))
	r.GET("/fetch-categories", handlers.FetchCategories(catalog, settingsCache))

	r.POST("/add-to-cart", handlers.AddToCart(carts))
	r.PUT("/increase-cart-quantity", handlers.IncreaseCartQuantity(carts))
	r.PUT("/decrease-cart-quantity", handlers.DecreaseCartQuantity(carts))
	r.DELETE("/remove-item/:id", handlers.RemoveCartItem(carts))
	r.GET("/fetch-cart", handlers.FetchCart(carts))

	r.POST("/buy-product", handlers.BuyProduct(coordinator))
	r.POST("/place-cart-order", handlers.PlaceCartOrder(coordinator))
	r.PUT("/cancel-order", handlers.CancelOrder(coordinator))
	r.PUT("/update-order-status", handlers.UpdateOrderStatus(coordinator))
	r.GET("/fetch-orders", handlers.FetchOrders(orders))

	admin := r.Group("/")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.POST("/add-new-product", handlers.AddProduct(catalog, settingsCache))
		admin.PUT("/update-product/:id", handlers.UpdateProduct(catalog, settingsCache))
		admin.POST("/update-banner", handlers.UpdateBanner(catalog, settingsCache))
		admin.POST("/ensure-category", handlers.EnsureCategory(catalog, settingsCache))
		admin.GET("/fetch-users", handlers.FetchUsers(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
