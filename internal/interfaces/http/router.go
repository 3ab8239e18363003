package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/activity"
	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/application/upload"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	BrandUC     *usecase.BrandUseCase
	CategoryUC  *usecase.CategoryUseCase
	VariableUC  *usecase.VariableUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	OrderUC     *orders.UseCase
	ActivityUC  *activity.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	UploadUC    *upload.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público) y gestión de personal (ADMIN)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/staffs", authMW, adminOnly, authHandler.Staffs)
	authGroup.Put("/:id", authMW, adminOnly, authHandler.UpdateStaff)
	authGroup.Delete("/:id", authMW, adminOnly, authHandler.DeleteStaff)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", authMW)

	account := protected.Group("/account")
	accountHandler := NewAccountHandler(deps.UserUC)
	account.Get("/profile", accountHandler.Profile)
	account.Patch("/profile", accountHandler.UpdateProfile)
	account.Post("/change-password", accountHandler.ChangePassword)

	brands := protected.Group("/brands")
	brandHandler := NewBrandHandler(deps.BrandUC)
	brands.Post("/", brandHandler.Create)
	brands.Get("/", brandHandler.List)
	brands.Put("/:id", brandHandler.Update)
	brands.Delete("/:id", brandHandler.Delete)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	variables := protected.Group("/variables")
	variableHandler := NewVariableHandler(deps.VariableUC)
	variables.Post("/", variableHandler.Create)
	variables.Get("/:id", variableHandler.GetByID)
	variables.Put("/:id", variableHandler.Update)
	variables.Delete("/:id", variableHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/serials", productHandler.Serials)
	products.Get("/variables/:id", productHandler.Variables)
	products.Get("/barcode/next-available", productHandler.NextBarcode)
	products.Post("/barcode/check-availability", productHandler.CheckBarcode)
	products.Delete("/list/delete", productHandler.DeleteList)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/import", productHandler.Import)
	products.Get("/:id/movements", productHandler.Movements)

	protected.Get("/history-serials", productHandler.SerialHistory)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/return/:orderId", orderHandler.Return)
	ordersGroup.Post("/customer-dept", orderHandler.PayDebt)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/invoice", orderHandler.Invoice)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	logs := protected.Group("/activity-logs")
	activityHandler := NewActivityHandler(deps.ActivityUC)
	logs.Get("/", activityHandler.List)
	logs.Get("/:id", activityHandler.GetByID)

	dashboards := protected.Group("/dashboards")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboards.Get("/revenue", dashboardHandler.Revenue)
	dashboards.Get("/dateTime", dashboardHandler.DateTime)
	dashboards.Get("/year", dashboardHandler.Year)
	dashboards.Get("/topProduct", dashboardHandler.TopProducts)
	dashboards.Get("/customers", dashboardHandler.Customers)
	dashboards.Get("/categories", dashboardHandler.Categories)
	dashboards.Get("/overview", dashboardHandler.Overview)
	dashboards.Get("/sales-report", dashboardHandler.SalesReport)
	dashboards.Get("/sales-report/pdf", dashboardHandler.SalesReportPDF)

	uploads := protected.Group("/upload")
	uploadHandler := NewUploadHandler(deps.UploadUC)
	uploads.Post("/", uploadHandler.Upload)
	uploads.Post("/multiple", uploadHandler.UploadMultiple)
}
