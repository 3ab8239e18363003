package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/pos-api/docs"
	"github.com/jhoicas/pos-api/internal/application/activity"
	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/application/upload"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/hashid"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// @title                       POS API
// @version                     1.0
// @description                 Punto de venta y back-office: productos, órdenes, clientes y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// los montos viajan como números JSON, no como strings
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()

	codes, err := hashid.New(cfg.Codes.HashIDSalt)
	if err != nil {
		log.Fatal().Err(err).Msg("codificador de órdenes")
	}
	keys, err := storage.NewKeyGenerator(int64(cfg.Codes.SnowflakeNode), cfg.OSS.Folder)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de claves de objetos")
	}

	userRepo := postgres.NewUserRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	variableRepo := postgres.NewVariableRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := activity.NewRecorder(activityRepo, log.Component("activity"))
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Options{
		StoreName: cfg.App.StoreName,
		Currency:  cfg.App.Currency,
		Locale:    cfg.App.Locale,
		Location:  loc,
	})

	authUC := auth.NewAuthUseCase(userRepo, cache.NewOTPStore(rdb), mail.NewMailer(cfg.SMTP), auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		RefreshSecret:     cfg.JWT.RefreshSecret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	}, log.Component("auth"))
	productUC := usecase.NewProductUseCase(usecase.ProductDeps{
		Products:       productRepo,
		Variables:      variableRepo,
		Brands:         brandRepo,
		Categories:     categoryRepo,
		StockMovements: postgres.NewStockMovementRepository(pool),
		HistorySerials: postgres.NewHistorySerialRepository(pool),
		Tx:             txRunner,
		Recorder:       recorder,
		Location:       loc,
	})
	orderUC := orders.NewUseCase(orders.Deps{
		Orders:    orderRepo,
		Customers: customerRepo,
		Tx:        txRunner,
		Codes:     codes,
		Invoices:  pdfGenerator,
		Location:  loc,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		BrandUC:     usecase.NewBrandUseCase(brandRepo, recorder),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo, recorder),
		VariableUC:  usecase.NewVariableUseCase(variableRepo, txRunner),
		ProductUC:   productUC,
		CustomerUC:  usecase.NewCustomerUseCase(customerRepo, loc),
		OrderUC:     orderUC,
		ActivityUC:  activity.NewUseCase(activityRepo),
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo, pdfGenerator, loc),
		UploadUC:    upload.NewUseCase(storage.NewOSSStorage(cfg.OSS), keys),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
