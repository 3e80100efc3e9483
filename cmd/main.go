package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/auth"
	"github.com/KromaEnergia/relatorio-vendas/internal/cliente"
	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/config"
	"github.com/KromaEnergia/relatorio-vendas/internal/middleware"
	"github.com/KromaEnergia/relatorio-vendas/internal/notificacao"
	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/KromaEnergia/relatorio-vendas/internal/relatorio"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/logger"
	"github.com/KromaEnergia/relatorio-vendas/internal/vendedor"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Erro ao carregar configuração:", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "relatorio-vendas")
	if err != nil {
		log.Fatal("Erro ao criar logger:", err)
	}
	defer func() { _ = zlog.Sync() }()

	gdb, err := db.ConnectDataBase(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("erro ao conectar no banco", zap.Error(err))
	}

	// ordem importa: relatorios depende de vendedores, visitas de clientes
	if err := gdb.AutoMigrate(&vendedor.Vendedor{}); err != nil {
		zlog.Fatal("erro no AutoMigrate", zap.String("tabela", "vendedores"), zap.Error(err))
	}
	if err := cliente.Migrate(gdb); err != nil {
		zlog.Fatal("erro no AutoMigrate", zap.String("tabela", "clientes"), zap.Error(err))
	}
	if err := relatorio.Migrate(gdb); err != nil {
		zlog.Fatal("erro no AutoMigrate", zap.String("tabela", "relatorios"), zap.Error(err))
	}

	// Repositórios e regras
	vendedorRepo := vendedor.NewRepository(gdb)
	clienteRepo := cliente.NewRepository(gdb)
	visitaRepo := visita.NewRepository(gdb)
	comentarioRepo := comentario.NewRepository()
	resolver := permissao.NewResolver(vendedorRepo)
	notificador := notificacao.New(cfg.WebhookURL, cfg.WebhookTimeout, zlog)

	relatorioStore := relatorio.NewStore(gdb, visitaRepo, comentarioRepo)
	relatorioService := relatorio.NewService(relatorioStore, clienteRepo, resolver, notificador, zlog)
	comentarioService := comentario.NewService(gdb, comentarioRepo, relatorioStore, resolver, zlog)
	clienteService := cliente.NewService(clienteRepo, visitaRepo, zlog)

	// Handlers
	relatorioHandler := relatorio.NewHandler(relatorioService, zlog)
	comentarioHandler := comentario.NewHandler(comentarioService, zlog)
	clienteHandler := cliente.NewHandler(clienteService, zlog)
	vendedorHandler := vendedor.NewHandler(vendedorRepo, resolver, zlog)

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthz(gdb)).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(auth.NewVerifier(cfg.JWTSecret).Middleware)

	// Rotas de relatórios; /export antes de /{id}
	api.HandleFunc("/relatorios", relatorioHandler.Criar).Methods(http.MethodPost)
	api.HandleFunc("/relatorios", relatorioHandler.Listar).Methods(http.MethodGet)
	api.HandleFunc("/relatorios/export", relatorioHandler.Exportar).Methods(http.MethodGet)
	api.HandleFunc("/relatorios/{id}", relatorioHandler.Detalhe).Methods(http.MethodGet)
	api.HandleFunc("/relatorios/{id}", relatorioHandler.Atualizar).Methods(http.MethodPut)
	api.HandleFunc("/relatorios/{id}", relatorioHandler.Excluir).Methods(http.MethodDelete)
	api.HandleFunc("/relatorios/{id}/status", relatorioHandler.MudarStatus).Methods(http.MethodPatch)
	api.HandleFunc("/relatorios/{id}/confirmar", relatorioHandler.Confirmar).Methods(http.MethodPost)
	api.HandleFunc("/relatorios/{id}/visitas", relatorioHandler.AdicionarVisita).Methods(http.MethodPost)
	api.HandleFunc("/relatorios/{id}/visitas", relatorioHandler.ListarVisitas).Methods(http.MethodGet)

	// Rotas de comentários
	api.HandleFunc("/relatorios/{id}/comentarios", comentarioHandler.CriarComentario).Methods(http.MethodPost)
	api.HandleFunc("/relatorios/{id}/comentarios", comentarioHandler.ListarComentarios).Methods(http.MethodGet)
	api.HandleFunc("/comentarios/{id}", comentarioHandler.RemoverComentario).Methods(http.MethodDelete)

	// Rotas de clientes
	api.HandleFunc("/clientes", clienteHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/clientes", clienteHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}", clienteHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}", clienteHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/clientes/{id}", clienteHandler.Delete).Methods(http.MethodDelete)

	// Rotas de vendedores
	api.HandleFunc("/vendedores/me", vendedorHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/vendedores", vendedorHandler.List).Methods(http.MethodGet)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
	})
	handler := middleware.RequestLogger(zlog)(c.Handler(limiter.Middleware(r)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go limiter.Run(ctx.Done(), time.Minute)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("servidor rodando", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("erro no servidor", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("erro ao encerrar servidor", zap.Error(err))
	}
	zlog.Info("servidor encerrado")
}

func healthz(gdb *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "indisponível"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
