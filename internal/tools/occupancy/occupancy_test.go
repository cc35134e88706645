package occupancy

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfig_EnvAndFlagDefaults(t *testing.T) {
	t.Setenv("SOCRATES_JOURNALS_DB_PATH", "/tmp/journals-env.db")
	t.Setenv("SOCRATES_JOURNALS_BACKEND", "bbolt")

	fs := flag.NewFlagSet("occupancy", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-conference-url", "socrates-2026"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/journals-env.db" {
		t.Fatalf("db path = %q, want env value", cfg.DBPath)
	}
	if cfg.Backend != "bbolt" {
		t.Fatalf("backend = %q, want bbolt", cfg.Backend)
	}
	if cfg.ConferenceURL != "socrates-2026" {
		t.Fatalf("conference url = %q", cfg.ConferenceURL)
	}
	if cfg.Timeout != time.Minute {
		t.Fatalf("timeout = %v, want 1m", cfg.Timeout)
	}
}

func TestParseConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SOCRATES_JOURNALS_DB_PATH", "/tmp/journals-env.db")
	t.Setenv("SOCRATES_JOURNALS_BACKEND", "sqlite")

	fs := flag.NewFlagSet("occupancy", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-conference-url", "socrates-2026",
		"-db-path", "/tmp/journals-flag.db",
		"-json",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/journals-flag.db" {
		t.Fatalf("db path = %q, want flag value", cfg.DBPath)
	}
	if !cfg.JSONOutput {
		t.Fatal("json flag not parsed")
	}
}

func TestRun_RequiresConferenceURL(t *testing.T) {
	err := Run(context.Background(), Config{Backend: "sqlite", DBPath: "ignored"}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "-conference-url") {
		t.Fatalf("err = %v, want missing conference url", err)
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	cfg := Config{
		ConferenceURL: "socrates-2026",
		Backend:       "postgres",
		DBPath:        filepath.Join(t.TempDir(), "journals.db"),
	}
	err := Run(context.Background(), cfg, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("err = %v, want unknown backend", err)
	}
}

func TestRun_SeedDemoReportsOccupancy(t *testing.T) {
	var out strings.Builder
	cfg := Config{
		ConferenceURL:    "socrates-2026",
		Backend:          "sqlite",
		DBPath:           filepath.Join(t.TempDir(), "journals.db"),
		SeedDemo:         true,
		ListParticipants: true,
		ListWaitinglist:  true,
	}

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	for _, want := range []string{"Occupancy for socrates-2026", "ROOM TYPE", "single", "bed_in_double", "Participants (3)", "Waitinglist (1)"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRun_BboltBackend(t *testing.T) {
	var out strings.Builder
	cfg := Config{
		ConferenceURL: "socrates-2026",
		Backend:       "bbolt",
		DBPath:        filepath.Join(t.TempDir(), "journals.bolt"),
		SeedDemo:      true,
	}

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Occupancy for socrates-2026") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
}
