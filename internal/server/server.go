// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"time"

	"care4pets/internal/cache"
	"care4pets/internal/config"
	"care4pets/internal/database"
	"care4pets/internal/events"
	"care4pets/internal/gateways"
	"care4pets/internal/handlers"
	"care4pets/internal/logger"
	"care4pets/internal/middleware"
	"care4pets/internal/repositories"
	"care4pets/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const momoTimeout = 15 * time.Second

// Services is the full set of application services.
type Services struct {
	Auth          *services.AuthService
	Products      *services.ProductService
	Cart          *services.CartService
	Orders        *services.OrderService
	Payments      *services.PaymentService
	Appointments  *services.AppointmentService
	Pets          *services.PetService
	Notifications *services.NotificationService
}

// NewServices builds every service on top of GORM repositories.
func NewServices(db *gorm.DB, cfg *config.Config, publisher events.Publisher, unread cache.UnreadCache, log *zap.Logger) *Services {
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	petRepo := repositories.NewGORMPetRepository(db)
	appointmentRepo := repositories.NewGORMAppointmentRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)

	return &Services{
		Auth:     services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log),
		Products: services.NewProductService(productRepo, log),
		Cart:     services.NewCartService(cartRepo, productRepo, log),
		Orders:   services.NewOrderService(orderRepo, cartRepo, publisher, cfg.Shipping, log),
		Payments: services.NewPaymentService(
			orderRepo, paymentRepo, publisher, cfg.Bank,
			gateways.NewVNPay(cfg.VNPay),
			gateways.NewMoMoClient(cfg.MoMo, momoTimeout),
			log,
		),
		Appointments:  services.NewAppointmentService(appointmentRepo, petRepo, publisher, cfg.SlotCapacity, log),
		Pets:          services.NewPetService(petRepo, log),
		Notifications: services.NewNotificationService(notificationRepo, unread, log),
	}
}

// New builds the HTTP application. db is only used by /health.
func New(cfg *config.Config, svc *Services, db *gorm.DB, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "care4pets",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := database.Ping(db); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	validate := handlers.NewValidator()
	auth := middleware.AuthRequired(svc.Auth)
	admin := middleware.AdminOnly()

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(svc.Auth, validate).RegisterRoutes(apiV1, middleware.RateLimit(cfg.RateLimitPerMinute), auth)
	handlers.NewProductHandler(svc.Products, validate).RegisterRoutes(apiV1, auth, admin)
	handlers.NewCartHandler(svc.Cart, validate).RegisterRoutes(apiV1, auth)
	handlers.NewPaymentHandler(svc.Payments, validate).RegisterRoutes(apiV1, auth, admin)
	handlers.NewOrderHandler(svc.Orders, validate).RegisterRoutes(apiV1, auth, admin)
	handlers.NewAppointmentHandler(svc.Appointments, validate).RegisterRoutes(apiV1, auth, admin)
	handlers.NewPetHandler(svc.Pets, validate).RegisterRoutes(apiV1, auth)
	handlers.NewNotificationHandler(svc.Notifications).RegisterRoutes(apiV1, auth)

	return app
}
