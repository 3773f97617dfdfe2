package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/verse/internal/config"
	"github.com/MrSnakeDoc/verse/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}},
		{name: "missing addr", mutate: func(o *ConnectOptions) { o.Addr = "" }, wantErr: true},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, wantErr: true},
	}

	cl := &connectionLogger{logger: logger.NewNop()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)

			err := cl.validateOptions(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNextWait(t *testing.T) {
	if got := nextWait(2*time.Second, 10*time.Second); got != 4*time.Second {
		t.Errorf("nextWait() = %v, want 4s", got)
	}
	if got := nextWait(8*time.Second, 10*time.Second); got != 10*time.Second {
		t.Errorf("nextWait() = %v, want cap 10s", got)
	}
}

func TestNewUnreachable(t *testing.T) {
	start := time.Now()
	_, err := New(context.Background(), validOptions(), logger.NewNop())
	if err == nil {
		t.Fatal("New() against a closed port should fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should give up after ConnectTimeout", elapsed)
	}
}

func TestNewCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := validOptions()
	opts.ConnectTimeout = time.Minute
	if _, err := New(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("New() with canceled context should fail")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisUser:           "default",
		RedisPassword:       "secret",
		RedisDB:             2,
		RedisPoolSize:       5,
		RedisConnectTimeout: 30 * time.Second,
		RedisWarnThreshold:  3,
	}

	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.Password != "secret" || opts.RedisDB != 2 || opts.PoolSize != 5 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	if opts.ConnectTimeout != 30*time.Second || opts.WarnThreshold != 3 {
		t.Errorf("OptionsFromConfig() retry settings = %+v", opts)
	}
}
