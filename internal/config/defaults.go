package config

import "time"

// ApplyDefaults fills zero-valued fields with production-safe defaults.
// Called after unmarshalling and before Validate.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "lexdocket"
	}
	if c.Database.Database == "" {
		c.Database.Database = "lexdocket"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "lexdocket"
	}
	if c.Redis.DefaultTTL == 0 {
		c.Redis.DefaultTTL = 15 * time.Minute
	}

	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "lexdocket"
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}

	if c.Engine.DefaultJurisdiction == "" {
		c.Engine.DefaultJurisdiction = "federal"
	}
	if c.Engine.MaxCascadeSpecs == 0 {
		c.Engine.MaxCascadeSpecs = 50
	}
	if c.Engine.HolidayCacheTTL == 0 {
		c.Engine.HolidayCacheTTL = 24 * time.Hour
	}
}
