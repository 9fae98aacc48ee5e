package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TRAKI_CONFIG_PATH", "/etc/traki/conf.toml")
		t.Setenv("TRAKI_HOME", "/srv/traki")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("defaults failed: %v", err)
		}
		if defaults["config_path"] != "/etc/traki/conf.toml" {
			t.Errorf("got config path %q", defaults["config_path"])
		}
		if defaults["base_dir"] != "/srv/traki" {
			t.Errorf("got base dir %q", defaults["base_dir"])
		}
		if defaults["log_dir"] != filepath.Join("/srv/traki", "log") {
			t.Errorf("got log dir %q", defaults["log_dir"])
		}
	})

	t.Run("home fallbacks", func(t *testing.T) {
		t.Setenv("TRAKI_CONFIG_PATH", "")
		t.Setenv("TRAKI_HOME", "")
		t.Setenv("HOME", "/home/dana")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("defaults failed: %v", err)
		}
		if defaults["config_path"] != "/home/dana/.config/traki.toml" {
			t.Errorf("got config path %q", defaults["config_path"])
		}
		if defaults["base_dir"] != "/home/dana/.local/share/traki" {
			t.Errorf("got base dir %q", defaults["base_dir"])
		}
	})
}
