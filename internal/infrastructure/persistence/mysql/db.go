package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/pkg/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志（输出到zap），生产环境只记录慢查询
// 4. 按配置自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 连接数据库
	db, err := Open(mysql.Open(cfg.Database.DSN()), cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 2. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 3. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	logger.L().Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// 4. 自动迁移表结构（生产环境应使用版本化的迁移脚本）
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// Open 使用指定的Dialector打开GORM连接（测试中传入基于sqlmock的Dialector）
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(zapWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		// 所有写操作都是单条INSERT，不需要GORM默认包裹的事务
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
}

// AutoMigrate 自动迁移表结构
// 学习要点：AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&ReviewModel{},
	)
}

// zapWriter 把GORM日志转发到全局zap logger
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.S().Debugf(format, args...)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. 唯一索引名用于区分用户名冲突和邮箱冲突
type UserModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Username  string    `gorm:"uniqueIndex:uk_users_username;size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex:uk_users_email;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 不存储平均分和评论数(读时由reviews表聚合)
// 2. genre、author有索引,用于列表过滤
// 3. (created_at, id)复合索引用于默认排序
type BookModel struct {
	ID            string    `gorm:"primaryKey;size:36;index:idx_books_created,priority:2"`
	Title         string    `gorm:"size:200;not null;comment:书名"`
	Author        string    `gorm:"index;size:100;not null;comment:作者"`
	Genre         string    `gorm:"index;size:50;not null;comment:类型"`
	PublishedYear int       `gorm:"not null;comment:出版年份"`
	Description   string    `gorm:"type:text;comment:图书简介"`
	CreatedBy     string    `gorm:"index;size:36;not null;comment:创建者用户ID"`
	CreatedAt     time.Time `gorm:"index:idx_books_created,priority:1;comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM书评模型
// 教学要点:
// 1. book_id索引同时服务于书评列表和评分聚合(GROUP BY book_id)
// 2. 书评不可修改,没有updated_at
type ReviewModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	BookID     string    `gorm:"index:idx_reviews_book,priority:1;size:36;not null;comment:图书ID"`
	ReviewerID string    `gorm:"index;size:36;not null;comment:评论者用户ID"`
	ReviewText string    `gorm:"type:text;not null;comment:书评内容"`
	Rating     int       `gorm:"type:tinyint;not null;comment:评分(1-5)"`
	CreatedAt  time.Time `gorm:"index:idx_reviews_book,priority:2;comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
