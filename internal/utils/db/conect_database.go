package db

import (
	"fmt"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN monta a string de conexão a partir da configuração e das credenciais.
func DSN(cfg config.DatabaseConfig, username, password string) string {
	var sslMode string
	if cfg.SSLDisable {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.Host, username, password, cfg.Name, cfg.Port, sslMode)
}

// ConnectDataBase abre o *gorm.DB com tradução de erros habilitada, para que
// violações de unique/FK cheguem como gorm.ErrDuplicatedKey/ErrForeignKeyViolated.
func ConnectDataBase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	username, password, err := retrieveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(postgres.Open(DSN(cfg, username, password)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("abrir banco: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("obter pool: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Info("banco conectado",
		zap.String("host", cfg.Host),
		zap.Uint("port", cfg.Port),
		zap.String("database", cfg.Name))
	return database, nil
}
