package handler

import (
	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/middleware"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Services is everything the HTTP surface talks to.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Shifts     service.ShiftService
	Inventory  service.InventoryService
	Customers  service.CustomerService
	Checkout   service.CheckoutService
	Dashboard  service.DashboardService
	Settings   service.SettingsService
	Storefront service.StorefrontService
	Policy     *authz.Policy
	// Presence reports connected terminals. The route is skipped when nil.
	Presence interface{ ClientCount() int }
}

// Register mounts the public storefront and the /api/v1 routes on app.
func Register(app *fiber.App, s Services) {
	authHandler := NewAuthHandler(s.Auth, s.Users)
	userHandler := NewUserHandler(s.Users)
	shiftHandler := NewShiftHandler(s.Shifts)
	invHandler := NewInventoryHandler(s.Inventory)
	customerHandler := NewCustomerHandler(s.Customers)
	posHandler := NewPOSHandler(s.Checkout)
	dashHandler := NewDashboardHandler(s.Dashboard)
	settingsHandler := NewSettingsHandler(s.Settings)
	storefrontHandler := NewStorefrontHandler(s.Storefront)
	roleHandler := NewRoleHandler(s.Policy)

	can := func(action authz.Action) fiber.Handler {
		return middleware.RequirePermission(s.Policy, action)
	}

	// ============ PUBLIC ROUTES ============
	app.Get("/storefront", storefrontHandler.GetPage)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(s.Auth))
	protected.Get("/auth/me", authHandler.Me)

	// Products
	protected.Get("/products", can(authz.ProductView), invHandler.GetProducts)
	protected.Get("/products/low-stock", can(authz.ProductView), invHandler.GetLowStock)
	protected.Get("/products/categories", can(authz.ProductView), invHandler.GetCategories)
	protected.Get("/products/export", can(authz.ProductExport), invHandler.ExportCSV)
	protected.Post("/products/import", can(authz.ProductImport), invHandler.ImportCSV)
	protected.Get("/products/sku/:sku", can(authz.ProductView), invHandler.GetProductBySKU)
	protected.Post("/products/approvals", invHandler.ApproveQuickAdd)
	// Creation is also open to cashiers holding a manager approval, checked by the service.
	protected.Post("/products", invHandler.CreateProduct)
	protected.Get("/products/:id", can(authz.ProductView), invHandler.GetProduct)
	protected.Put("/products/:id", invHandler.UpdateProduct)
	protected.Delete("/products/:id", can(authz.ProductUpdate), invHandler.DeleteProduct)
	protected.Put("/products/:id/visibility", can(authz.StorefrontManage), invHandler.SetVisibility)

	// Customers
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/membership/:code", customerHandler.GetByMembership)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Post("/customers", can(authz.CustomerCreate), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", can(authz.CustomerUpdate), customerHandler.UpdateCustomer)

	// Terminal
	pos := protected.Group("/pos", can(authz.SaleCreate))
	pos.Post("/carts", posHandler.OpenCart)
	pos.Get("/carts", posHandler.ListCarts)
	pos.Get("/carts/:id", posHandler.GetCart)
	pos.Delete("/carts/:id", posHandler.CloseCart)
	pos.Post("/carts/:id/scan", posHandler.Scan)
	pos.Post("/carts/:id/items", posHandler.AddItem)
	pos.Put("/carts/:id/items/:product_id", posHandler.SetQuantity)
	pos.Delete("/carts/:id/items/:product_id", posHandler.RemoveItem)
	pos.Put("/carts/:id/customer", posHandler.AttachCustomer)
	pos.Delete("/carts/:id/customer", posHandler.DetachCustomer)
	pos.Put("/carts/:id/discount", posHandler.SetDiscount)
	pos.Post("/carts/:id/clear", posHandler.Clear)
	pos.Post("/carts/:id/checkout", posHandler.Checkout)
	protected.Post("/pos/drawer", can(authz.DrawerOpen), posHandler.OpenDrawer)

	// Sales
	protected.Get("/sales", can(authz.SaleView), posHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequireAnyPermission(s.Policy, authz.SaleView, authz.SaleVoid), posHandler.GetSale)
	protected.Post("/sales/:id/void", can(authz.SaleVoid), posHandler.VoidSale)

	// Employees
	protected.Get("/users", can(authz.EmployeeView), userHandler.GetUsers)
	protected.Get("/users/stats", can(authz.EmployeeView), userHandler.GetStats)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", can(authz.EmployeeManage), userHandler.CreateUser)
	protected.Put("/users/:id", can(authz.EmployeeManage), userHandler.UpdateUser)
	protected.Delete("/users/:id", can(authz.EmployeeManage), userHandler.DeleteUser)

	// Shifts
	protected.Post("/shifts/clock-in", shiftHandler.ClockIn)
	protected.Post("/shifts/clock-out", shiftHandler.ClockOut)
	protected.Get("/shifts/current", shiftHandler.GetCurrent)
	protected.Get("/shifts/alerts", can(authz.ShiftViewAll), shiftHandler.GetAlerts)
	protected.Get("/shifts", shiftHandler.GetShifts)
	if s.Presence != nil {
		protected.Get("/terminals", can(authz.ShiftViewAll), func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"connected": s.Presence.ClientCount()})
		})
	}

	// Analytics
	protected.Get("/dashboard/sales", can(authz.AnalyticsView), dashHandler.GetSalesSummary)
	protected.Get("/dashboard/inventory", can(authz.AnalyticsView), dashHandler.GetInventoryStats)

	// Settings
	protected.Get("/settings/store", settingsHandler.GetStoreSettings)
	protected.Put("/settings/store", can(authz.SettingsManage), settingsHandler.UpdateStoreSettings)
	protected.Get("/settings/employees", can(authz.EmployeeView), settingsHandler.GetEmployeeSettings)
	protected.Put("/settings/employees", can(authz.SettingsManage), settingsHandler.UpdateEmployeeSettings)
	protected.Get("/settings/permissions", can(authz.SettingsManage), settingsHandler.GetPermissions)
	protected.Put("/settings/permissions", can(authz.SettingsManage), settingsHandler.SetPermission)
	protected.Get("/stores", can(authz.SettingsManage), settingsHandler.GetStores)
	protected.Post("/stores", can(authz.SettingsManage), settingsHandler.CreateStore)
	protected.Put("/stores/:id", can(authz.SettingsManage), settingsHandler.UpdateStore)
	protected.Delete("/stores/:id", can(authz.SettingsManage), settingsHandler.DeleteStore)

	// Storefront
	protected.Get("/storefront", can(authz.StorefrontManage), storefrontHandler.GetConfig)
	protected.Put("/storefront", can(authz.StorefrontManage), storefrontHandler.UpdateConfig)
	protected.Get("/storefront/preview", can(authz.StorefrontManage), storefrontHandler.GetPreview)

	// Roles
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/permissions", roleHandler.GetPermissions)
}
