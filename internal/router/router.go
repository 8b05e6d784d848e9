package router

import (
	"time"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/config"
	"gamblerpro/internal/handler"
	"gamblerpro/internal/infra"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/repository"
	"gamblerpro/internal/service"
	"gamblerpro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// rdb may be nil: closings then rely only on the database row lock and no
// notification is enqueued.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.EsProduccion() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	maquinaRepo := repository.NewMaquinaRepository(db)
	lecturaRepo := repository.NewLecturaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	cierreRepo := repository.NewCierreRepository(db)
	retencionRepo := repository.NewRetencionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	var cierreOpts []service.CierreOption
	if rdb != nil {
		cierreOpts = append(cierreOpts,
			service.ConLocker(infra.NewRedisLocker(rdb, 2*time.Second), cfg.CierreLockTTL),
			service.ConNotificador(worker.NewDispatcher(rdb)),
		)
	}

	authSvc := service.NewAuthService(usuarioRepo, sucursalRepo, cfg)
	maquinaSvc := service.NewMaquinaService(maquinaRepo, lecturaRepo, sucursalRepo)
	lecturaSvc := service.NewLecturaService(lecturaRepo, maquinaRepo, sucursalRepo, service.RelojSistema)
	gastoSvc := service.NewGastoService(gastoRepo, proveedorRepo, sucursalRepo, service.RelojSistema)
	proveedorSvc := service.NewProveedorService(proveedorRepo, gastoRepo, sucursalRepo)
	retencionSvc := service.NewRetencionService(retencionRepo, sucursalRepo, service.RelojSistema)
	cierreSvc := service.NewCierreService(cierreRepo, lecturaRepo, gastoRepo, sucursalRepo, cierreOpts...)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	maquinasH := handler.NewMaquinasHandler(maquinaSvc)
	lecturasH := handler.NewLecturasHandler(lecturaSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	cierresH := handler.NewCierresHandler(cierreSvc)
	retencionesH := handler.NewRetencionesHandler(retencionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Role rules for readings, expenses and closings live in
	// the actor capability table; routes only gate whole admin areas.
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		lect := v1.Group("/lecturas")
		{
			lect.POST("", lecturasH.Crear)
			lect.GET("", lecturasH.Listar)
			lect.POST("/confirmar", lecturasH.Confirmar)
			lect.GET("/:id", lecturasH.Obtener)
			lect.PUT("/:id", lecturasH.Editar)
			lect.DELETE("/:id", lecturasH.Eliminar)
		}

		cierres := v1.Group("/cierres")
		{
			cierres.POST("", cierresH.Cerrar)
			cierres.GET("", cierresH.Listar)
			cierres.GET("/:id", cierresH.Obtener)
		}

		gastos := v1.Group("/gastos")
		{
			gastos.POST("", gastosH.Registrar)
			gastos.GET("", gastosH.Listar)
			gastos.PUT("/:id", gastosH.Actualizar)
			gastos.DELETE("/:id", gastosH.Eliminar)
		}

		ret := v1.Group("/retenciones")
		{
			ret.POST("", retencionesH.Registrar)
			ret.GET("", retencionesH.Listar)
			ret.PUT("/:id", retencionesH.Actualizar)
			ret.DELETE("/:id", retencionesH.Eliminar)
		}

		maq := v1.Group("/maquinas")
		{
			maq.GET("", maquinasH.Listar)
			maq.GET("/:id", maquinasH.Obtener)
			maq.POST("", maquinasH.Crear)
			maq.PUT("/:id", maquinasH.Actualizar)
			maq.DELETE("/:id", maquinasH.Eliminar)
			maq.PATCH("/:id/transferir", maquinasH.Transferir)
		}

		v1.GET("/proveedores", proveedoresH.Listar)
		v1.POST("/proveedores", proveedoresH.Crear)
		v1.GET("/tipos-gasto", proveedoresH.ListarTiposGasto)
		v1.POST("/tipos-gasto", middleware.RequireRole(actor.RolMasterAdmin), proveedoresH.CrearTipoGasto)

		v1.POST("/usuarios", middleware.RequireRole(actor.RolMasterAdmin, actor.RolCasinoAdmin), usuariosH.Crear)
	}

	// Swagger UI: only enabled outside production
	if !cfg.EsProduccion() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
