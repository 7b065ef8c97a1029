package validate

import (
	"strings"
	"testing"

	"formrelay/config"
)

func TestConfigDefaultsAreValid(t *testing.T) {
	if err := Config(config.Default()); err != nil {
		t.Fatal(err)
	}
}

func TestConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Configuration)
		field  string
	}{
		{"gateway port", func(c *config.Configuration) { c.Gateway.Port = 0 }, "Gateway.Port"},
		{"datagram size", func(c *config.Configuration) { c.Listener.MaxDatagramSize = 70000 }, "Listener.MaxDatagramSize"},
		{"storage path", func(c *config.Configuration) { c.Storage.Path = "" }, "Storage.Path"},
		{"log level", func(c *config.Configuration) { c.Log.Level = "loud" }, "Log.Level"},
		{"mongo uri", func(c *config.Configuration) { c.MongoDB.Enabled = true }, "MongoDB.URI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.Default()
			tt.mutate(conf)
			err := Config(conf)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestConfigNil(t *testing.T) {
	if err := Config(nil); err == nil {
		t.Fatal("expected error")
	}
}
