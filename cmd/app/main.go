package main

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/ovenfresh/bakery-shop-backend/internal/address"
	"github.com/ovenfresh/bakery-shop-backend/internal/banner"
	"github.com/ovenfresh/bakery-shop-backend/internal/cart"
	"github.com/ovenfresh/bakery-shop-backend/internal/category"
	"github.com/ovenfresh/bakery-shop-backend/internal/checkout"
	"github.com/ovenfresh/bakery-shop-backend/internal/config"
	"github.com/ovenfresh/bakery-shop-backend/internal/favorite"
	"github.com/ovenfresh/bakery-shop-backend/internal/order"
	"github.com/ovenfresh/bakery-shop-backend/internal/outlet"
	"github.com/ovenfresh/bakery-shop-backend/internal/payment"
	"github.com/ovenfresh/bakery-shop-backend/internal/product"
	"github.com/ovenfresh/bakery-shop-backend/internal/recommended"
	"github.com/ovenfresh/bakery-shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	bootstrapSchema(db)

	// shared services
	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, order.PricingPolicy{
		TaxRate:           cfg.TaxRate,
		ShippingFee:       cfg.ShippingFee,
		FreeShippingAbove: cfg.FreeShippingAbove,
	})
	orderHandler := order.NewHandler(orderService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	sessions := checkout.NewSessionStore()
	gateway := payment.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
	paymentService := payment.NewService(gateway, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.Currency, orderRepo, cartService, sessions)
	paymentHandler := payment.NewHandler(paymentService)

	checkoutService := checkout.NewService(sessions, cartService, orderService, paymentService, userService)
	checkoutHandler := checkout.NewHandler(checkoutService)

	// public surface: auth, catalogue and storefront content
	userHandler.RegisterPublicRoutes(app)
	recommended.NewHandler(recommended.NewService(recommended.NewPostgresRepository(db))).RegisterPublicRoutes(app)
	banner.NewHandler(banner.NewService(banner.NewPostgresRepository(db))).RegisterPublicRoutes(app)
	category.NewHandler(category.NewService(category.NewPostgresRepository(db))).RegisterPublicRoutes(app)
	outlet.NewHandler(outlet.NewService(outlet.NewPostgresRepository(db))).RegisterPublicRoutes(app)

	// register product public routes after specific endpoints to avoid route param collision
	productHandler.RegisterPublicRoutes(app)

	// make uploaded files public
	app.Static("/uploads", "./uploads")

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// allow unauthenticated GETs for numeric product id paths
		Filter: func(c *fiber.Ctx) bool {
			if c.Method() != "GET" {
				return false
			}
			p := c.Path()
			if strings.HasPrefix(p, "/api/v1/product/") {
				rest := strings.TrimPrefix(p, "/api/v1/product/")
				seg := strings.SplitN(rest, "/", 2)[0]
				if _, err := strconv.Atoi(seg); err == nil {
					return true
				}
			}
			return false
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)

	favorite.NewHandler(favorite.NewService(favorite.NewPostgresRepository(db))).RegisterProtectedRoutes(app)
	address.NewHandler(address.NewService(address.NewPostgresRepository(db))).RegisterProtectedRoutes(app)

	// upload endpoint remains protected
	app.Post("/upload", uploadFile)

	app.Listen(cfg.Addr)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// bootstrapSchema creates the tables the repositories expect and seeds the
// storefront content tables when they are empty.
func bootstrapSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
        "userId" SERIAL PRIMARY KEY,
        email TEXT UNIQUE NOT NULL,
        password TEXT NOT NULL,
        "firstName" TEXT,
        "lastName" TEXT,
        phone TEXT,
        gender TEXT,
        role TEXT NOT NULL DEFAULT 'customer',
        avatar_pic TEXT,
        "mainAddressId" INT,
        "favoriteProductId" integer[],
        cart jsonb NOT NULL DEFAULT '[]',
        "createAt" TEXT,
        "updateAt" TEXT
    )`); err != nil {
		panic(err)
	}
	// columns added after the first release; keep older installs working
	if _, err := db.Exec(`ALTER TABLE users ADD COLUMN IF NOT EXISTS role TEXT NOT NULL DEFAULT 'customer'`); err != nil {
		panic(err)
	}
	if _, err := db.Exec(`ALTER TABLE users ADD COLUMN IF NOT EXISTS cart jsonb NOT NULL DEFAULT '[]'`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
        "orderID" SERIAL PRIMARY KEY,
        "userID" INT NOT NULL,
        reference TEXT,
        items jsonb NOT NULL DEFAULT '[]',
        contact jsonb NOT NULL DEFAULT '{}',
        shipping jsonb NOT NULL DEFAULT '{}',
        "paymentMethod" TEXT,
        notes TEXT,
        "itemsPrice" numeric NOT NULL DEFAULT 0,
        "taxPrice" numeric NOT NULL DEFAULT 0,
        "shippingPrice" numeric NOT NULL DEFAULT 0,
        "totalPrice" numeric NOT NULL DEFAULT 0,
        "paymentStatus" TEXT,
        status TEXT,
        "gatewayOrderID" TEXT,
        "gatewayPaymentID" TEXT,
        "createdAt" TEXT,
        "updatedAt" TEXT
    )`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS product (
        product_id SERIAL PRIMARY KEY,
        product_name TEXT,
        category TEXT,
        product_price INT,
        score INT,
        product_desc TEXT,
        product_pic TEXT,
        product_pic_second TEXT,
        created_at TIMESTAMP,
        updated_at TIMESTAMP
    )`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS category (
        "categoryID" SERIAL PRIMARY KEY,
        "categoryName" TEXT,
        "categoryImg" TEXT,
        ord INT
    )`); err != nil {
		panic(err)
	}
	var categoryCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM category`).Scan(&categoryCount); err == nil && categoryCount == 0 {
		seed := []struct{ name, img string }{
			{"Breads", "/category/breads.png"},
			{"Viennoiserie", "/category/viennoiserie.png"},
			{"Cakes", "/category/cakes.png"},
			{"Cookies", "/category/cookies.png"},
			{"Savouries", "/category/savouries.png"},
			{"Beverages", "/category/beverages.png"},
		}
		for i, s := range seed {
			if _, err := db.Exec(`INSERT INTO category ("categoryName", "categoryImg", ord) VALUES ($1,$2,$3)`, s.name, s.img, len(seed)-i); err != nil {
				continue
			}
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS banner (
        banner_id SERIAL PRIMARY KEY,
        banner_img TEXT,
        banner_link TEXT,
        banner_alt TEXT,
        ord INT
    )`); err != nil {
		panic(err)
	}
	var bannerCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM banner`).Scan(&bannerCount); err == nil && bannerCount == 0 {
		seed := []struct{ img, link, alt string }{
			{"/banner/fresh-from-the-oven.jpg", "/products", "Fresh from the oven every morning"},
			{"/banner/celebration-cakes.jpg", "/product/category/3", "Celebration cakes made to order"},
			{"/banner/free-delivery.jpg", "", "Free delivery on orders above 500"},
		}
		for i, s := range seed {
			if _, err := db.Exec(`INSERT INTO banner (banner_img, banner_link, banner_alt, ord) VALUES ($1,$2,$3,$4)`, s.img, s.link, s.alt, len(seed)-i); err != nil {
				continue
			}
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS address (
        "addressID" SERIAL PRIMARY KEY,
        "userID" INT NOT NULL,
        "addressDesc" TEXT,
        "phone" TEXT,
        "addressName" TEXT,
        "createdAt" TEXT,
        "updatedAt" TEXT
    )`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS outlet (
        "outletId" SERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        address TEXT,
        phone TEXT,
        opening_hours TEXT,
        ord INT
    )`); err != nil {
		panic(err)
	}
	var outletCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM outlet`).Scan(&outletCount); err == nil && outletCount == 0 {
		seed := []struct{ name, addr, phone, hours string }{
			{"Oven Fresh — Koramangala", "80 Feet Rd, Koramangala 4th Block, Bengaluru", "+91 80 4111 2233", "7:00–21:00"},
			{"Oven Fresh — Indiranagar", "100 Feet Rd, Indiranagar, Bengaluru", "+91 80 4222 3344", "7:00–21:30"},
		}
		for i, s := range seed {
			if _, err := db.Exec(`INSERT INTO outlet (name, address, phone, opening_hours, ord) VALUES ($1,$2,$3,$4,$5)`, s.name, s.addr, s.phone, s.hours, len(seed)-i); err != nil {
				continue
			}
		}
	}
}

func uploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	if err := c.SaveFile(file, "./uploads/"+file.Filename); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.SendString("File uploaded successfully: " + file.Filename)
}
