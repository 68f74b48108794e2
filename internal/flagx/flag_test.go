package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-a", ":50051", "-email", "root@example.com"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", ":50051"},
		},
		{
			name:         "equals form",
			args:         []string{"-d=postgres://x", "-s", "secret"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d=postgres://x"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-promote"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "equals value may start with dash",
			args:         []string{"--config=--odd.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--odd.json"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/etc/trophy.json"}
		assert.Equal(t, "/etc/trophy.json", ConfigFileFlag())
	})

	t.Run("long mixed with other flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", ":1", "-config", "/etc/long.json", "-s", "k"}
		assert.Equal(t, "/etc/long.json", ConfigFileFlag())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/a.json", "-config", "/b.json"}
		assert.Equal(t, "/b.json", ConfigFileFlag())
	})
}
