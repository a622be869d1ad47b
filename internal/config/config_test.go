package config

import "testing"

func TestStaleSettingsFallBackWhenNotPositive(t *testing.T) {
	t.Setenv("HAIL_JWT_SECRET", "test-secret")

	for _, tc := range []struct {
		name string
		tick string
		age  string
	}{
		{"zero", "0", "0"},
		{"negative", "-5", "-1"},
		{"garbage", "soon", "later"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HAIL_STALE_TICK_SEC", tc.tick)
			t.Setenv("HAIL_STALE_AFTER_MIN", tc.age)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Stale.TickSeconds != 60 || cfg.Stale.AfterMins != 30 {
				t.Fatalf("stale config not defaulted: %+v", cfg.Stale)
			}
		})
	}
}

func TestStaleSettingsFromEnv(t *testing.T) {
	t.Setenv("HAIL_JWT_SECRET", "test-secret")
	t.Setenv("HAIL_STALE_TICK_SEC", "15")
	t.Setenv("HAIL_STALE_AFTER_MIN", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Stale.TickSeconds != 15 || cfg.Stale.AfterMins != 10 {
		t.Fatalf("stale config not read: %+v", cfg.Stale)
	}
}
