package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "postboard/internal/app"
	"postboard/internal/cache"
	"postboard/internal/config"
	mysqlClient "postboard/internal/platform/mysql"
	postgresClient "postboard/internal/platform/postgres"
	rabbitmqClient "postboard/internal/platform/rabbitmq"
	redisClient "postboard/internal/platform/redis"
	sqliteClient "postboard/internal/platform/sqlite"
	"postboard/internal/repository"
	"postboard/internal/worker"
)

type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityPersistWorker

	// Profiles and Publisher stay nil when their backing service is disabled.
	Profiles  appsvc.ProfileCache
	Publisher appsvc.ActivityPublisher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{Config: cfg, StartedAt: time.Now()}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db
	if err := repository.AutoMigrate(db); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
		app.Profiles = cache.NewProfileCache(redisCli, cfg.ProfileTTL())
	} else {
		log.Printf("redis disabled, profile cache off")
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn
		app.Publisher = rabbitmqClient.NewActivityPublisher(mqConn, cfg.RabbitMQ.ActivityQueue)

		activityWorker := worker.NewActivityPersistWorker(mqConn, repository.NewActivityRepository(db), cfg.RabbitMQ.ActivityQueue)
		if err := activityWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start activity worker failed: %w", err)
		}
		app.ActivityWorker = activityWorker
	} else {
		log.Printf("rabbitmq disabled, activity trail off")
	}

	return app, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return mysqlClient.New(ctx, cfg.MySQLDSN())
	case config.DriverPostgres:
		return postgresClient.New(ctx, cfg.PostgresDSN())
	case config.DriverSQLite:
		return sqliteClient.New(ctx, cfg.Database.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
