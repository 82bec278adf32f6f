package app

import (
	"context"
	"database/sql"

	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/db"
	"github.com/juliansalvador727/InterviewDefender/internal/logger"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB *db.DB
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunBootstrapMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	return &Infra{
		DB: &db.DB{DB: sqlDB},
	}, nil
}
