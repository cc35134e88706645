// Package occupancy implements the conference occupancy reporting command.
package occupancy

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/platform/config"
	"github.com/softwerkskammer/socrates-registration/internal/platform/id"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/command"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/service"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
	bboltstore "github.com/softwerkskammer/socrates-registration/internal/registration/storage/bbolt"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage/memory"
	sqlitestore "github.com/softwerkskammer/socrates-registration/internal/registration/storage/sqlite"
)

// Config holds occupancy command configuration.
type Config struct {
	ConferenceURL    string
	DBPath           string        `env:"SOCRATES_JOURNALS_DB_PATH"`
	Backend          string        `env:"SOCRATES_JOURNALS_BACKEND" envDefault:"sqlite"`
	Timeout          time.Duration `env:"SOCRATES_TOOL_TIMEOUT" envDefault:"1m"`
	JSONOutput       bool
	SeedDemo         bool
	ListParticipants bool
	ListWaitinglist  bool
}

type envConfig struct {
	DBPath  string        `env:"SOCRATES_JOURNALS_DB_PATH"`
	Backend string        `env:"SOCRATES_JOURNALS_BACKEND" envDefault:"sqlite"`
	Timeout time.Duration `env:"SOCRATES_TOOL_TIMEOUT" envDefault:"1m"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := config.ParseEnv(&envCfg); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:  envCfg.DBPath,
		Backend: envCfg.Backend,
		Timeout: envCfg.Timeout,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "journals.db")
	}

	fs.StringVar(&cfg.ConferenceURL, "conference-url", "", "conference URL to report on")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to journals database (default: SOCRATES_JOURNALS_DB_PATH or data/journals.db)")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: sqlite or bbolt (default: SOCRATES_JOURNALS_BACKEND or sqlite)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.BoolVar(&cfg.SeedDemo, "seed-demo", false, "seed the conference with demo registrations before reporting")
	fs.BoolVar(&cfg.ListParticipants, "participants", false, "list registered participants")
	fs.BoolVar(&cfg.ListWaitinglist, "waitinglist", false, "list waitinglist entries")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func openJournals(cfg Config) (storage.Journals, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "sqlite":
		store, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "bbolt":
		store, err := bboltstore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want sqlite or bbolt)", cfg.Backend)
	}
}

// Run executes the occupancy command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if strings.TrimSpace(cfg.ConferenceURL) == "" {
		return fmt.Errorf("-conference-url is required")
	}

	journals, closeStore, err := openJournals(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			fmt.Fprintf(errOut, "Error: close journal store: %v\n", closeErr)
		}
	}()

	svc := service.New(journals, memory.NewDirectory())

	if cfg.SeedDemo {
		if err := seedDemo(ctx, svc, cfg.ConferenceURL); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	if err := reportOccupancy(ctx, svc, cfg, out); err != nil {
		return err
	}
	if cfg.ListParticipants {
		if err := reportParticipants(ctx, svc, cfg, out); err != nil {
			return err
		}
	}
	if cfg.ListWaitinglist {
		if err := reportWaitinglist(ctx, svc, cfg, out); err != nil {
			return err
		}
	}
	return nil
}

// seedDemo drives a small registration scenario through the service so a
// fresh database has something to report on.
func seedDemo(ctx context.Context, svc *service.Service, conferenceURL string) error {
	_, err := svc.SetConferenceDetails(ctx, conferenceURL, command.ConferenceDetails{
		URL:       conferenceURL,
		StartTime: time.Now().AddDate(0, 1, 0),
		EndTime:   time.Now().AddDate(0, 1, 3),
		Quotas: map[event.RoomType]int{
			event.RoomTypeSingle:          2,
			event.RoomTypeBedInDouble:     4,
			event.RoomTypeJuniorShared:    2,
			event.RoomTypeJuniorExclusive: 1,
		},
	})
	if err != nil {
		return err
	}

	registrations := []struct {
		memberID string
		roomType event.RoomType
	}{
		{"demo-member-1", event.RoomTypeSingle},
		{"demo-member-2", event.RoomTypeBedInDouble},
		{"demo-member-3", event.RoomTypeBedInDouble},
	}
	for _, registration := range registrations {
		sessionID, err := id.NewID()
		if err != nil {
			return err
		}
		if _, err := svc.RegisterParticipant(ctx, conferenceURL, registration.roomType, 3, sessionID, registration.memberID); err != nil {
			return err
		}
	}
	if _, err := svc.AddParticipantPair(ctx, conferenceURL, event.RoomTypeBedInDouble, "demo-member-2", "demo-member-3"); err != nil {
		return err
	}
	sessionID, err := id.NewID()
	if err != nil {
		return err
	}
	if _, err := svc.RegisterWaitinglistParticipant(ctx, conferenceURL,
		[]event.RoomType{event.RoomTypeSingle}, 3, sessionID, "demo-member-4"); err != nil {
		return err
	}
	return nil
}

func reportOccupancy(ctx context.Context, svc *service.Service, cfg Config, out io.Writer) error {
	occupancies, err := svc.Occupancy(ctx, cfg.ConferenceURL)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return json.NewEncoder(out).Encode(occupancies)
	}

	fmt.Fprintf(out, "Occupancy for %s\n", cfg.ConferenceURL)
	fmt.Fprintf(out, "%-18s %8s %12s %10s %6s\n", "ROOM TYPE", "QUOTA", "REGISTERED", "RESERVED", "FREE")
	for _, occupancy := range occupancies {
		fmt.Fprintf(out, "%-18s %8d %12d %10d %6d\n",
			occupancy.RoomType, occupancy.Quota, occupancy.Registered, occupancy.Reserved, occupancy.Free)
	}
	return nil
}

func reportParticipants(ctx context.Context, svc *service.Service, cfg Config, out io.Writer) error {
	participants, err := svc.Participants(ctx, cfg.ConferenceURL)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return json.NewEncoder(out).Encode(participants)
	}

	fmt.Fprintf(out, "\nParticipants (%d)\n", len(participants))
	for _, info := range participants {
		nickname := info.Member.Nickname
		if nickname == "" {
			nickname = info.Participant.MemberID
		}
		fmt.Fprintf(out, "  %-24s %-18s %d nights (since %s)\n",
			nickname, info.Participant.RoomType, info.Participant.Duration,
			info.Participant.RegisteredAt.Format(time.RFC3339))
	}
	return nil
}

func reportWaitinglist(ctx context.Context, svc *service.Service, cfg Config, out io.Writer) error {
	entries, err := svc.Waitinglist(ctx, cfg.ConferenceURL)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return json.NewEncoder(out).Encode(entries)
	}

	fmt.Fprintf(out, "\nWaitinglist (%d)\n", len(entries))
	for _, info := range entries {
		nickname := info.Member.Nickname
		if nickname == "" {
			nickname = info.Entry.MemberID
		}
		desired := make([]string, 0, len(info.Entry.DesiredRoomTypes))
		for _, roomType := range info.Entry.DesiredRoomTypes {
			desired = append(desired, string(roomType))
		}
		fmt.Fprintf(out, "  %-24s waiting for %s\n", nickname, strings.Join(desired, ", "))
	}
	return nil
}
