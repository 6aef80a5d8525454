package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_URL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "defaults sslmode",
			cfg:  Config{Host: "db", Port: 5432, Name: "advisor", User: "app", Password: "secret"},
			want: "postgres://app:secret@db:5432/advisor?sslmode=disable",
		},
		{
			name: "escapes credentials",
			cfg:  Config{Host: "db", Port: 6432, Name: "advisor", User: "app", Password: "p@ss/word", SSLMode: "require"},
			want: "postgres://app:p%40ss%2Fword@db:6432/advisor?sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.URL())
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{MaxConnections: -1}.withDefaults()

	assert.Equal(t, 10, cfg.MaxConnections)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.PingTimeout)
}
