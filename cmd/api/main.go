package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-perfumeria-ws/internal/handler"
	"go-perfumeria-ws/internal/middleware"
	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/internal/service"
	"go-perfumeria-ws/internal/ws"
	"go-perfumeria-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Perfume{}, &model.Supplier{}, &model.Warehouse{},
		&model.PurchaseOrder{}, &model.Entrada{}, &model.Traspaso{},
		&model.AuditEvent{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	perfumeRepo := repository.NewPerfumeRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	entradaRepo := repository.NewEntradaRepo(db)
	traspasoRepo := repository.NewTraspasoRepo(db)
	eventRepo := repository.NewAuditEventRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	auditService := service.NewAuditService(entradaRepo, orderRepo, traspasoRepo, perfumeRepo, supplierRepo, warehouseRepo, eventRepo, db, wsHub)
	entradaService := service.NewEntradaService(entradaRepo, perfumeRepo, wsHub)
	orderService := service.NewOrderService(orderRepo, perfumeRepo, supplierRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	warehouseService := service.NewWarehouseService(warehouseRepo)
	traspasoService := service.NewTraspasoService(traspasoRepo, perfumeRepo, warehouseRepo)
	perfumeService := service.NewPerfumeService(perfumeRepo, db, wsHub)
	dashService := service.NewDashboardService(entradaRepo, perfumeRepo)
	reportService := service.NewReportService(perfumeRepo, entradaRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	auditHandler := handler.NewAuditHandler(auditService)
	entradaHandler := handler.NewEntradaHandler(entradaService)
	orderHandler := handler.NewOrderHandler(orderService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	traspasoHandler := handler.NewTraspasoHandler(traspasoService)
	perfumeHandler := handler.NewPerfumeHandler(perfumeService)
	dashHandler := handler.NewDashboardHandler(dashService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Perfumeria Recepciones v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/flujo-entradas", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetEntradaFlow)

	// Perfume catalog Routes
	protected.Get("/perfumes", perfumeHandler.GetPerfumes)
	protected.Get("/perfumes/:id", perfumeHandler.GetPerfume)
	protected.Post("/perfumes", middleware.RequirePrivilege("perfume:create"), perfumeHandler.CreatePerfume)
	protected.Put("/perfumes/:id", middleware.RequirePrivilege("perfume:update"), perfumeHandler.UpdatePerfume)

	// Purchase order Routes
	protected.Get("/ordenes", middleware.RequirePrivilege("order:view"), orderHandler.GetOrders)
	protected.Get("/ordenes/:number", middleware.RequirePrivilege("order:view"), orderHandler.GetOrder)
	protected.Post("/ordenes", middleware.RequirePrivilege("order:create"), orderHandler.CreateOrder)
	protected.Post("/ordenes/:number/cancelar", middleware.RequirePrivilege("order:cancel"), orderHandler.CancelOrder)

	// Reference catalog Routes
	protected.Get("/proveedores", middleware.RequirePrivilege("supplier:view"), supplierHandler.GetSuppliers)
	protected.Post("/proveedores", middleware.RequirePrivilege("supplier:create"), supplierHandler.CreateSupplier)
	protected.Get("/almacenes", middleware.RequirePrivilege("warehouse:view"), warehouseHandler.GetWarehouses)
	protected.Post("/almacenes", middleware.RequirePrivilege("warehouse:create"), warehouseHandler.CreateWarehouse)

	// Traspaso Routes
	protected.Get("/traspasos", middleware.RequirePrivilege("traspaso:view"), traspasoHandler.GetTraspasos)
	protected.Get("/traspasos/:number", middleware.RequirePrivilege("traspaso:view"), traspasoHandler.GetTraspaso)
	protected.Post("/traspasos", middleware.RequirePrivilege("traspaso:create"), traspasoHandler.CreateTraspaso)

	// Entrada Routes. Order matters: "pendientes" before ":number".
	protected.Get("/entradas", middleware.RequirePrivilege("entrada:view"), entradaHandler.GetEntradas)
	protected.Get("/entradas/pendientes", middleware.RequirePrivilege("entrada:view"), entradaHandler.GetPendingEntradas)
	protected.Get("/entradas/:number", middleware.RequirePrivilege("entrada:view"), entradaHandler.GetEntrada)
	protected.Post("/entradas", middleware.RequirePrivilege("entrada:create"), entradaHandler.RegisterEntrada)

	// Reconciliation Routes (auditor workflow)
	protected.Get("/entradas/:number/historial", middleware.RequirePrivilege("entrada:view"), auditHandler.GetHistory)
	protected.Get("/entradas/:number/inspeccion", middleware.RequirePrivilege("entrada:validate"), auditHandler.InspectEntrada)
	protected.Post("/entradas/:number/validar", middleware.RequirePrivilege("entrada:validate"), auditHandler.ValidateEntrada)
	protected.Post("/entradas/:number/rechazar", middleware.RequirePrivilege("entrada:reject"), auditHandler.RejectEntrada)

	// Report Routes
	protected.Get("/reportes/inventario", middleware.RequirePrivilege("report:export"), reportHandler.ExportStock)
	protected.Get("/reportes/entradas", middleware.RequirePrivilege("report:export"), reportHandler.ExportEntradas)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- &ws.Client{Conn: c, UserID: c.Query("user_id")}
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
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

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
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
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// AUDITOR gets the validation workflow subset
	auditorRole, err := roleRepo.FindByCode(model.RoleAuditor)
	if err == nil && len(auditorRole.Privileges) == 0 {
		auditorCodes := make(map[string]bool, len(model.AuditorPrivileges))
		for _, code := range model.AuditorPrivileges {
			auditorCodes[code] = true
		}
		auditorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if auditorCodes[p.Code] {
				auditorPrivileges = append(auditorPrivileges, p)
			}
		}
		db.Model(&auditorRole).Association("Privileges").Replace(auditorPrivileges)
		log.Println("✅ AUDITOR role assigned validation privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
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
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
