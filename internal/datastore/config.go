package datastore

import "fmt"

type DatastoreConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Username string
	Password string
	Database string
	SSLMode  string
}

func (c *PostgresConfig) GetURL() string {
	url := fmt.Sprintf("postgres://%s:%s@%s/%s", c.Username, c.Password, c.Host, c.Database)
	if c.SSLMode != "" {
		url += "?sslmode=" + c.SSLMode
	}
	return url
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
}
