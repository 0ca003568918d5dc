package database_test

import (
	"testing"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/pkg/database"
)

func TestDSN(t *testing.T) {
	for _, driver := range []string{"", "mysql", "postgres"} {
		d, err := database.DSN(&config.DatabaseConfig{Driver: driver, Host: "db", Port: 3306, User: "u", DBName: "training"})
		if err != nil || d == nil {
			t.Errorf("driver %q: %v", driver, err)
		}
	}
	if _, err := database.DSN(&config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Error("unsupported driver should fail")
	}
}
