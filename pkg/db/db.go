// Package db 提供 GORM 初始化、连接池配置与慢查询日志
package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkglogger "github.com/wyfcoding/quantengine/pkg/logger"
)

// Config 数据库配置
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
	// SlowQueryThreshold 慢查询阈值（毫秒），零值取 200ms
	SlowQueryThreshold int
}

// DB 数据库连接包装
type DB struct {
	*gorm.DB
}

// Open 建立 MySQL 连接并配置连接池
func Open(cfg Config) (*DB, error) {
	threshold := time.Duration(cfg.SlowQueryThreshold) * time.Millisecond
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: &slogAdapter{slowQueryThreshold: threshold},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{DB: db}, nil
}

// Close 关闭底层连接池
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// slogAdapter 将 GORM 日志桥接到结构化日志
type slogAdapter struct {
	slowQueryThreshold time.Duration
}

func (l *slogAdapter) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l *slogAdapter) Info(ctx context.Context, msg string, data ...any) {
	pkglogger.Info(ctx, msg, "data", data)
}

func (l *slogAdapter) Warn(ctx context.Context, msg string, data ...any) {
	pkglogger.Warn(ctx, msg, "data", data)
}

func (l *slogAdapter) Error(ctx context.Context, msg string, data ...any) {
	pkglogger.Error(ctx, msg, "data", data)
}

func (l *slogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sqlStr, rows := fc()
	args := []any{"duration", elapsed, "rows", rows, "sql", sqlStr}

	switch {
	case err != nil:
		pkglogger.Error(ctx, "sql execution failed", append(args, "error", err)...)
	case elapsed > l.slowQueryThreshold:
		pkglogger.Warn(ctx, "slow query detected", args...)
	default:
		pkglogger.Debug(ctx, "sql executed", args...)
	}
}
