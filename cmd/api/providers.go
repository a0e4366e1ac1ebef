package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/session"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/logger"
	"github.com/xiebiao/bookreview/pkg/mq"
)

// 自定义Provider：构造函数参数需要从Config或仓储集合中提取时使用

func provideRepositories(ctx context.Context, cfg *config.Config) (*persistence.Repositories, func(), error) {
	repos, closeFn, err := persistence.NewRepositories(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repos, cleanupOf("存储", closeFn), nil
}

func provideSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	store, closeFn, err := persistence.NewSessionStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, cleanupOf("会话存储", closeFn), nil
}

// providePublisher mq.enabled=false时使用NopPublisher；启用时包一层熔断器
func providePublisher(cfg *config.Config) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	guarded := mq.NewGuardedPublisher(publisher, circuitbreaker.New("rabbitmq", circuitbreaker.Config{}))
	return guarded, func() {
		if err := guarded.Close(); err != nil {
			logger.L().Warn("关闭消息发布者失败", zap.Error(err))
		}
	}, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideUserService(repos *persistence.Repositories, cfg *config.Config) user.Service {
	return user.NewService(repos.Users, cfg.JWT.BcryptCost)
}

func provideBookService(repos *persistence.Repositories) book.Service {
	return book.NewService(repos.Books)
}

func provideReviewService(repos *persistence.Repositories) review.Service {
	return review.NewService(repos.Reviews, repos.Books)
}

func provideAggregator(repos *persistence.Repositories) *rating.Aggregator {
	return rating.NewAggregator(repos.Reviews)
}

// provideRateLimiter rate_limit.enabled=false时返回nil，路由不挂限流
func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimit)
}

func cleanupOf(name string, closeFn persistence.CloseFunc) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := closeFn(ctx); err != nil {
			logger.L().Warn("关闭"+name+"失败", zap.Error(err))
		}
	}
}
