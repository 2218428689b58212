package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloglist/internal/core/config"
	"bloglist/internal/core/database"
	"bloglist/internal/core/logger"
)

// NewRootCmd 运维命令入口
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Operator commands for the bloglist service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	root.AddCommand(
		newMigrateCommand(&cfgPath),
		newCreateAccountCommand(&cfgPath),
		newStatsCommand(&cfgPath),
	)
	return root
}

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func openEnv(cfgPath string) (*env, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	log, syncLog := logger.New(cfg.Log.Level, cfg.Log.JSON)
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		syncLog()
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		syncLog()
	}
	return &env{cfg: cfg, log: log, db: db}, closer, nil
}
