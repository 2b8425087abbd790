/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/utils"
)

// EnvPrefix prefixes environment overrides: ROSTER_DATABASE_CONNECTION_HOST
// sets database.connection.host.
const EnvPrefix = "ROSTER"

type Config struct {
	Database database.Config `mapstructure:"database"`
	Log      LogConfig       `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConfigLoader returns the database section.
func (c *Config) ConfigLoader() *database.Config {
	cfg := c.Database
	return &cfg
}

var _ database.AbstractDatabaseConfigProvider = (*Config)(nil)

// ApplyLogging pushes the log section into the utils logger registry.
func (c *Config) ApplyLogging() {
	if c.Log.Format != "" {
		utils.ConfigureConsoleLogFormat(c.Log.Format)
	}
	if c.Log.Level != "" {
		utils.ConfigureLogLevel(c.Log.Level)
	}
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults and
// then applies ROSTER_* environment variables. An empty path loads defaults
// and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	def := database.DefaultConfig()
	conn := def.ConnectionConfig

	v.SetDefault("database.connection.type", "sqlite")
	v.SetDefault("database.connection.host", "")
	v.SetDefault("database.connection.port", 0)
	v.SetDefault("database.connection.username", "")
	v.SetDefault("database.connection.password", "")
	v.SetDefault("database.connection.dbname", "roster")
	v.SetDefault("database.connection.sslmode", "")
	v.SetDefault("database.connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.connection.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.connection.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("database.migrate.enable_migrate_on_startup", true)
	v.SetDefault("database.migrate.enable_foreign_key", false)
	v.SetDefault("database.migrate.foreign_key_file", "")

	v.SetDefault("database.init.auto_init_on_startup", false)
	v.SetDefault("database.init.auto_init_on_migration", false)
	v.SetDefault("database.init.filepath", def.DataInitConfig.Filepath)
	v.SetDefault("database.init.environment", def.DataInitConfig.Environment)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
