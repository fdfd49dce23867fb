package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	want := DefaultLanderConfig()
	if cfg != want {
		t.Errorf("embedded defaults differ from DefaultLanderConfig():\n got %+v\nwant %+v", cfg, want)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  gravity: 50\nloop:\n  max_step: 40ms\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Physics.Gravity != 50 {
		t.Errorf("Gravity = %v, expected 50", cfg.Physics.Gravity)
	}
	if cfg.Loop.MaxStep != 40*time.Millisecond {
		t.Errorf("MaxStep = %v, expected 40ms", cfg.Loop.MaxStep)
	}
	if cfg.Physics.Thrust != DefaultLanderConfig().Physics.Thrust {
		t.Errorf("Thrust should keep default, got %v", cfg.Physics.Thrust)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero gravity", "physics:\n  gravity: 0\n"},
		{"tiny world", "terrain:\n  width: 10\n"},
		{"one segment", "terrain:\n  segments: 1\n"},
		{"negative step", "loop:\n  max_step: -1s\n"},
		{"malformed", "physics: [1, 2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lander.yaml")
	if err := os.WriteFile(path, []byte("lander:\n  fuel: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Lander.Fuel != 99 {
		t.Errorf("Fuel = %v, expected 99", cfg.Lander.Fuel)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in       string
		expected Difficulty
		wantErr  bool
	}{
		{"easy", DifficultyEasy, false},
		{"EASY", DifficultyEasy, false},
		{"medium", DifficultyMedium, false},
		{"normal", DifficultyMedium, false},
		{"", DifficultyMedium, false},
		{" hard ", DifficultyHard, false},
		{"insane", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestProfileScaling(t *testing.T) {
	cfg := DefaultLanderConfig()
	easy := ProfileFor(cfg, DifficultyEasy)
	medium := ProfileFor(cfg, DifficultyMedium)
	hard := ProfileFor(cfg, DifficultyHard)

	if !(easy.Gravity < medium.Gravity && medium.Gravity < hard.Gravity) {
		t.Errorf("gravity should increase with difficulty: %v %v %v", easy.Gravity, medium.Gravity, hard.Gravity)
	}
	if !(easy.Fuel > medium.Fuel && medium.Fuel > hard.Fuel) {
		t.Errorf("fuel should decrease with difficulty: %v %v %v", easy.Fuel, medium.Fuel, hard.Fuel)
	}
	if !(easy.PadWidth > medium.PadWidth && medium.PadWidth > hard.PadWidth) {
		t.Errorf("pad width should decrease with difficulty: %v %v %v", easy.PadWidth, medium.PadWidth, hard.PadWidth)
	}
	if !(easy.Roughness < hard.Roughness) {
		t.Errorf("terrain should get rougher: easy %v, hard %v", easy.Roughness, hard.Roughness)
	}
	if medium.Gravity != cfg.Physics.Gravity {
		t.Errorf("medium gravity = %v, expected base %v", medium.Gravity, cfg.Physics.Gravity)
	}
	if hard.PadWidth < cfg.Lander.Width {
		t.Errorf("pad (%v) must fit the lander (%v)", hard.PadWidth, cfg.Lander.Width)
	}
}

func TestProfileUnknownDifficultyFallsBack(t *testing.T) {
	p := ProfileFor(DefaultLanderConfig(), Difficulty("nightmare"))
	if p.Difficulty != DifficultyMedium {
		t.Errorf("Difficulty = %q, expected medium", p.Difficulty)
	}
}
