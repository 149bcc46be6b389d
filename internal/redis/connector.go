package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectOptions controls the client and how hard Connect tries to reach it.
type ConnectOptions struct {
	Addr          string
	User          string
	Password      string
	DB            int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PoolSize      int
	Budget        time.Duration // total time allowed for connection attempts
	InitialWait   time.Duration // first backoff, doubled after each failure
	MaxWait       time.Duration // backoff cap
	PingTimeout   time.Duration
	WarnThreshold int // attempts logged as warnings before escalating to errors
}

// OptionsFromConfig maps the HORIZON_REDIS_* settings onto ConnectOptions.
func OptionsFromConfig(cfg *config.Config) ConnectOptions {
	return ConnectOptions{
		Addr:          cfg.RedisAddr,
		User:          cfg.RedisUser,
		Password:      cfg.RedisPassword,
		DB:            cfg.RedisDB,
		DialTimeout:   cfg.RedisDT,
		ReadTimeout:   cfg.RedisRT,
		WriteTimeout:  cfg.RedisWT,
		PoolSize:      cfg.RedisPoolSize,
		Budget:        cfg.RedisConnectTimeout,
		InitialWait:   cfg.RedisRetryInterval,
		MaxWait:       cfg.RedisMaxWait,
		PingTimeout:   cfg.RedisPingTimeout,
		WarnThreshold: cfg.RedisWarnThreshold,
	}
}

func (o ConnectOptions) validate() error {
	switch {
	case o.Addr == "":
		return fmt.Errorf("redis address is empty")
	case o.Budget <= 0:
		return fmt.Errorf("connect budget must be > 0, got %v", o.Budget)
	case o.InitialWait <= 0:
		return fmt.Errorf("retry interval must be > 0, got %v", o.InitialWait)
	case o.MaxWait <= 0:
		return fmt.Errorf("max wait must be > 0, got %v", o.MaxWait)
	case o.PingTimeout <= 0:
		return fmt.Errorf("ping timeout must be > 0, got %v", o.PingTimeout)
	case o.WarnThreshold < 0:
		return fmt.Errorf("warn threshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// Connect builds a client and pings it with exponential backoff until it
// answers, the budget runs out or ctx is cancelled. The client is closed
// on failure.
func Connect(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		log.Error("invalid redis options", logger.Error(err))
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := waitReady(ctx, client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitReady(ctx context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Budget)
	defer cancel()

	log.Info("connecting to redis", logger.Duration("budget", opts.Budget))
	started := time.Now()
	wait := opts.InitialWait

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(started)))
			} else {
				log.Info("connected to redis")
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("budget", opts.Budget),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
		}

		fields := []logger.Field{
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err),
		}
		if attempt <= opts.WarnThreshold {
			log.Warn("redis connection failed, retrying", fields...)
		} else {
			log.Error("redis still unavailable, retrying", fields...)
		}

		wait = min(wait*2, opts.MaxWait)
	}
}
