package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"gestiostock-backend/internal/handler"
	"gestiostock-backend/internal/middleware"
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"
	"gestiostock-backend/internal/ws"
	"gestiostock-backend/pkg/database"
	"gestiostock-backend/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	appLog := logger.New()

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Category{}, &model.Supplier{}, &model.Client{},
		&model.Product{}, &model.StockMovement{},
		&model.Sale{}, &model.SaleItem{},
		&model.PurchaseOrder{}, &model.PurchaseOrderItem{},
		&model.Payment{}, &model.Expense{}, &model.CashMovement{},
		&model.SystemSetting{}, &model.Notification{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	seedPrivilegesRolesAndAdmin(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	clientRepo := repository.NewClientRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	orderRepo := repository.NewPurchaseOrderRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	stockMovementRepo := repository.NewStockMovementRepo(db)
	cashMovementRepo := repository.NewCashMovementRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	if err := settingRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed settings: %v", err)
	}

	// Ledgers and services
	stockLedger := service.NewStockLedger(productRepo, stockMovementRepo)
	cashLedger := service.NewCashLedger(settingRepo, cashMovementRepo)
	notifier := service.NewNotifier(notificationRepo, userRepo, wsHub)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	inventoryService := service.NewInventoryService(db, productRepo, stockLedger, notifier, appLog)
	saleService := service.NewSaleService(db, saleRepo, productRepo, clientRepo, paymentRepo, settingRepo, stockLedger, cashLedger, notifier, appLog)
	purchaseService := service.NewPurchaseService(db, orderRepo, productRepo, supplierRepo, settingRepo, stockLedger, notifier, appLog)
	cashboxService := service.NewCashboxService(db, saleRepo, orderRepo, paymentRepo, expenseRepo, cashMovementRepo, settingRepo, cashLedger, notifier, appLog)
	dashboardService := service.NewDashboardService(productRepo, saleRepo, orderRepo, stockMovementRepo, settingRepo)
	reportService := service.NewReportService(saleRepo, productRepo, settingRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	productHandler := handler.NewProductHandler(inventoryService)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	clientHandler := handler.NewClientHandler(clientRepo)
	supplierHandler := handler.NewSupplierHandler(supplierRepo)
	saleHandler := handler.NewSaleHandler(saleService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	cashboxHandler := handler.NewCashboxHandler(cashboxService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	settingHandler := handler.NewSettingHandler(db, settingRepo)

	app := fiber.New(fiber.Config{
		AppName: "GestioStock API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.Summary)

	// Catalogue
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.List)
	protected.Get("/products/low-stock", middleware.RequirePrivilege("product:view"), productHandler.LowStock)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.Get)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.Create)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.Update)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.Delete)
	protected.Post("/products/:id/adjust", middleware.RequirePrivilege("product:adjust"), productHandler.Adjust)
	protected.Get("/products/:id/movements", middleware.RequirePrivilege("product:view"), productHandler.History)

	// Stock movements
	protected.Get("/stock/movements", middleware.RequirePrivilege("product:view"), productHandler.Movements)
	protected.Post("/stock/movements", middleware.RequirePrivilege("product:adjust"), productHandler.RecordMovement)

	// Categories, clients, suppliers
	protected.Get("/categories", categoryHandler.List)
	protected.Post("/categories", middleware.RequirePrivilege("category:manage"), categoryHandler.Create)
	protected.Put("/categories/:id", middleware.RequirePrivilege("category:manage"), categoryHandler.Update)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("category:manage"), categoryHandler.Delete)

	protected.Get("/clients", clientHandler.List)
	protected.Get("/clients/:id", clientHandler.Get)
	protected.Post("/clients", middleware.RequirePrivilege("client:manage"), clientHandler.Create)
	protected.Put("/clients/:id", middleware.RequirePrivilege("client:manage"), clientHandler.Update)
	protected.Delete("/clients/:id", middleware.RequirePrivilege("client:manage"), clientHandler.Delete)

	protected.Get("/suppliers", supplierHandler.List)
	protected.Get("/suppliers/:id", supplierHandler.Get)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:manage"), supplierHandler.Create)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("supplier:manage"), supplierHandler.Update)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege("supplier:manage"), supplierHandler.Delete)

	// Sales
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.List)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.Get)
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.Create)
	protected.Post("/sales/:id/cancel", middleware.RequirePrivilege("sale:cancel"), saleHandler.Cancel)

	// Purchasing
	protected.Get("/purchase-orders", middleware.RequirePrivilege("purchase:view"), purchaseHandler.List)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege("purchase:view"), purchaseHandler.Get)
	protected.Post("/purchase-orders", middleware.RequirePrivilege("purchase:create"), purchaseHandler.Create)
	protected.Post("/purchase-orders/:id/confirm", middleware.RequirePrivilege("purchase:create"), purchaseHandler.Confirm)
	protected.Post("/purchase-orders/:id/receive", middleware.RequirePrivilege("purchase:receive"), purchaseHandler.Receive)
	protected.Post("/purchase-orders/:id/cancel", middleware.RequirePrivilege("purchase:cancel"), purchaseHandler.Cancel)

	// Cashbox
	protected.Get("/cashbox/balance", middleware.RequirePrivilege("cashbox:view"), cashboxHandler.Balance)
	protected.Get("/cashbox/movements", middleware.RequirePrivilege("cashbox:view"), cashboxHandler.Movements)
	protected.Post("/cashbox/reconcile", middleware.RequirePrivilege("cashbox:reconcile"), cashboxHandler.Reconcile)
	protected.Get("/payments", middleware.RequirePrivilege("cashbox:view"), cashboxHandler.ListPayments)
	protected.Post("/payments", middleware.RequirePrivilege("cashbox:manage"), cashboxHandler.RecordPayment)
	protected.Get("/expenses", middleware.RequirePrivilege("cashbox:view"), cashboxHandler.ListExpenses)
	protected.Post("/expenses", middleware.RequirePrivilege("cashbox:manage"), cashboxHandler.RecordExpense)

	// Reports
	protected.Get("/reports/invoice/:id", middleware.RequirePrivilege("report:export"), reportHandler.InvoicePDF)
	protected.Get("/reports/sales.pdf", middleware.RequirePrivilege("report:export"), reportHandler.SalesSummaryPDF)
	protected.Get("/reports/sales.xlsx", middleware.RequirePrivilege("report:export"), reportHandler.SalesExcel)
	protected.Get("/reports/products.xlsx", middleware.RequirePrivilege("report:export"), reportHandler.ProductsExcel)

	// Notifications
	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Post("/notifications/read-all", notificationHandler.MarkAllRead)

	// Settings
	protected.Get("/settings", middleware.RequirePrivilege("settings:manage"), settingHandler.List)
	protected.Put("/settings", middleware.RequirePrivilege("settings:manage"), settingHandler.Set)

	// Users and roles
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("ADMIN role assigned limited privileges")
	}

	// MANAGER runs the shop floor: sales, purchasing, cash, no settings or users
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerCodes := map[string]bool{
			"product:view": true, "product:adjust": true,
			"category:manage": true, "client:manage": true, "supplier:manage": true,
			"sale:view": true, "sale:create": true, "sale:cancel": true,
			"purchase:view": true, "purchase:create": true, "purchase:receive": true,
			"cashbox:view": true, "cashbox:manage": true,
			"dashboard:view": true,
		}
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if managerCodes[p.Code] {
				managerPrivileges = append(managerPrivileges, p)
			}
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
		log.Println("MANAGER role assigned operational privileges")
	}

	// USER is read-only
	userRole, err := roleRepo.FindByCode(model.RoleUser)
	if err == nil && len(userRole.Privileges) == 0 {
		userCodes := map[string]bool{
			"product:view": true, "sale:view": true,
			"purchase:view": true, "cashbox:view": true,
			"dashboard:view": true,
		}
		userPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if userCodes[p.Code] {
				userPrivileges = append(userPrivileges, p)
			}
		}
		db.Model(&userRole).Association("Privileges").Replace(userPrivileges)
		log.Println("USER role assigned read-only privileges")
	}

	// Default admin account
	if _, err = userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Username:   "admin",
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin / admin123 (MASTER_ADMIN)")
		}
	}
}
