// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN returns the connection string handed to the postgres drivers. Managed
// providers hand out URLs without sslmode, so require it unless the host is local.
func (d *DatabaseConfig) DSN() (string, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("DATABASE_URL must use the postgres scheme, got %q", u.Scheme)
	}

	q := u.Query()
	if q.Get("sslmode") == "" {
		if isLocalHost(u.Hostname()) {
			q.Set("sslmode", "disable")
		} else {
			q.Set("sslmode", "require")
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func isLocalHost(host string) bool {
	return host == "" || host == "localhost" || host == "127.0.0.1" || strings.HasSuffix(host, ".local")
}
