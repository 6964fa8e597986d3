package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode" validate:"oneof=debug release test"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is mysql or sqlite. Path is only read for sqlite.
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path            string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required_if=Driver mysql"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"min=0"`
}

// GetDSN returns the DSN for the configured driver. MySQL timestamps are read
// and written in UTC.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SubscriptionConfig tunes the background jobs around the subscription
// lifecycle.
type SubscriptionConfig struct {
	ExpiryCheckInterval time.Duration `mapstructure:"expiry_check_interval" validate:"min=1s"`
	AutoRenewInterval   time.Duration `mapstructure:"auto_renew_interval" validate:"min=1s"`
	UsageFlushInterval  time.Duration `mapstructure:"usage_flush_interval" validate:"min=1s"`
	BatchSize           int           `mapstructure:"batch_size" validate:"min=1,max=10000"`
	// AutoRenewTrust renews due subscriptions without asking a payment
	// confirmer. Only for deployments where billing happens upstream.
	AutoRenewTrust bool `mapstructure:"auto_renew_trust"`
	// AutoRenewGrace is how long an overdue auto-renewing subscription is
	// left active for the renewal job before the expiry job expires it.
	AutoRenewGrace time.Duration `mapstructure:"auto_renew_grace" validate:"min=0"`
	QuotaCacheTTL  time.Duration `mapstructure:"quota_cache_ttl" validate:"min=0"`
	EventChannel   string        `mapstructure:"event_channel" validate:"required"`
}

// AgentConfig authenticates panel agents that report traffic.
type AgentConfig struct {
	Token string `mapstructure:"token"`
}

// AdminConfig authenticates callers of the subscription management API.
type AdminConfig struct {
	Token string `mapstructure:"token"`
}
