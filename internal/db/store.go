package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapi/internal/config"
	"socialapi/internal/repository"
)

// Store is an opened user store and the function that releases it.
type Store struct {
	Users repository.UserRepository
	Close func(ctx context.Context) error
}

// OpenStore connects the backend selected by cfg.StoreDriver, prepares its
// schema or indexes and returns the matching UserRepository.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, database, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Users: repository.NewMongoUserRepository(database),
			Close: client.Disconnect,
		}, nil

	case config.StoreMySQL, config.StorePostgres:
		var (
			gormDB *gorm.DB
			err    error
		)
		if cfg.StoreDriver == config.StoreMySQL {
			gormDB, err = NewMySQL(cfg.MySQLDSN, logger)
		} else {
			gormDB, err = NewPostgres(cfg.PostgresDSN, logger)
		}
		if err != nil {
			return nil, err
		}
		if err := Migrate(gormDB); err != nil {
			return nil, err
		}
		return &Store{
			Users: repository.NewUserRepository(gormDB),
			Close: func(context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
