// Package persistence 按配置选择存储后端,组装各仓储
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/session"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/memory"
	mongostore "github.com/xiebiao/bookreview/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	redisstore "github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/pkg/logger"
)

// CloseFunc 释放连接
type CloseFunc func(ctx context.Context) error

// Repositories 仓储集合
type Repositories struct {
	Books   book.Repository
	Reviews review.Repository
	Users   user.Repository
}

// NewRepositories 根据storage.driver创建仓储
// mysql: GORM + MySQL;mongo: 文档库;memory: 进程内存(开发/测试)
func NewRepositories(ctx context.Context, cfg *config.Config) (*Repositories, CloseFunc, error) {
	logger.L().Info("初始化存储", zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
		}
		return &Repositories{
				Books:   mysql.NewBookRepository(db),
				Reviews: mysql.NewReviewRepository(db),
				Users:   mysql.NewUserRepository(db),
			}, func(context.Context) error {
				return sqlDB.Close()
			}, nil

	case config.StorageMongo:
		client, err := mongostore.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Mongo.DBName)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return &Repositories{
			Books:   mongostore.NewBookRepository(db),
			Reviews: mongostore.NewReviewRepository(db),
			Users:   mongostore.NewUserRepository(db),
		}, client.Disconnect, nil

	case config.StorageMemory:
		return NewMemoryRepositories(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("不支持的存储类型: %s", cfg.Storage.Driver)
	}
}

// NewMemoryRepositories 创建内存仓储(测试中直接使用)
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Books:   memory.NewBookRepository(),
		Reviews: memory.NewReviewRepository(),
		Users:   memory.NewUserRepository(),
	}
}

// NewSessionStore 创建会话存储
// redis.enabled=false时退化为内存实现(仅适用于单实例部署)
func NewSessionStore(ctx context.Context, cfg *config.Config) (session.Store, CloseFunc, error) {
	if !cfg.Redis.Enabled {
		logger.L().Warn("Redis未启用,会话和Token黑名单保存在内存中")
		return memory.NewSessionStore(), func(context.Context) error { return nil }, nil
	}

	client, err := redisstore.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewSessionStore(client), func(context.Context) error {
		return client.Close()
	}, nil
}
