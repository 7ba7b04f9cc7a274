package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open connects to the subscriber database and migrates the schema.
// "sqlite:<path>" opens a local file (or ":memory:"); anything else is a
// MySQL/TiDB DSN.
func Open(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(Schema...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	for _, s := range Schema {
		logger.Debug("database schema ready", zap.String("model", fmt.Sprintf("%T", s)))
	}

	return db, nil
}

// Subscribe stores email once. created is false when it was already there.
func Subscribe(ctx context.Context, db *gorm.DB, email, source string) (created bool, err error) {
	_, err = gorm.G[Subscriber](db).Where("email = ?", email).First(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup subscriber: %w", err)
	}

	sub := Subscriber{Email: email, Source: source}
	if err := gorm.G[Subscriber](db).Create(ctx, &sub); err != nil {
		// lost a race with an identical request
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create subscriber: %w", err)
	}

	return true, nil
}

// CountSubscribers reports how many addresses are stored.
func CountSubscribers(ctx context.Context, db *gorm.DB) (int64, error) {
	return gorm.G[Subscriber](db).Count(ctx, "*")
}
