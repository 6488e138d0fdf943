package router

import (
	"time"

	"caffito/internal/config"
	"caffito/internal/handler"
	"caffito/internal/middleware"
	"caffito/internal/repository"
	"caffito/internal/service"
	"caffito/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo, dispatcher)
	clienteSvc := service.NewClienteService(clienteRepo)
	gastoSvc := service.NewGastoService(gastoRepo, cajaRepo)
	statsSvc := service.NewStatsService(statsRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	statsH := handler.NewStatsHandler(statsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervisor := middleware.RequireRole("supervisor", "administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		cajas := v1.Group("/cajas")
		{
			cajas.POST("", operador, cajaH.Abrir)
			cajas.GET("", supervisor, cajaH.Listar)
			cajas.GET("/count", supervisor, cajaH.Contar)
			cajas.GET("/actual", operador, cajaH.Actual)
			cajas.POST("/ingresos", operador, cajaH.RegistrarIngreso)
			cajas.GET("/:id", operador, cajaH.Obtener)
			cajas.PUT("/:id", supervisor, cajaH.EditarCierre)
			cajas.PUT("/:id/cerrar", operador, cajaH.Cerrar)
		}

		v1.GET("/tipos-pago", operador, cajaH.TiposPago)
		v1.PUT("/flujos-caja/:id", supervisor, cajaH.ActualizarFlujo)

		clientes := v1.Group("/clientes", operador)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/count", clientesH.Contar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), clientesH.Desactivar)
		}

		gastos := v1.Group("/gastos", operador)
		{
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.Listar)
			gastos.GET("/count", gastosH.Contar)
			gastos.GET("/summary", statsH.ResumenGastos)
			gastos.GET("/:id", gastosH.Obtener)
			gastos.PUT("/:id", gastosH.Actualizar)
			gastos.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), gastosH.Eliminar)
		}

		v1.GET("/gasto-categorias", operador, gastosH.Categorias)
		v1.GET("/gasto-proveedors", operador, gastosH.Proveedores)

		v1.GET("/ingresos/summary", supervisor, statsH.ResumenIngresos)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
