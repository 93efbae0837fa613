package config

import (
	"testing"
	"time"
)

func validBase() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "salesdesk", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
	}
}

func TestLoad_ReportsMissingRequired(t *testing.T) {
	// Ensure a clean env by not setting anything and calling validation directly.
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_LeadsBackendDefaultsAndRemote(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Leads.Backend != LeadsBackendPostgres {
		t.Fatalf("expected postgres default backend, got %q", c.Leads.Backend)
	}
	if c.Leads.ActivityPollInterval != 5*time.Second || c.Leads.LeaderboardPollInterval != 15*time.Second {
		t.Fatalf("unexpected poll interval defaults: %+v", c.Leads)
	}

	c = validBase()
	c.Leads.Backend = LeadsBackendRemote
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for remote backend without base URL")
	}

	c = validBase()
	c.Leads.Backend = LeadsBackendRemote
	c.Leads.BaseURL = "http://localhost:5001"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_RejectsUnknownLeadsBackend(t *testing.T) {
	c := validBase()
	c.Leads.Backend = "csv"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
