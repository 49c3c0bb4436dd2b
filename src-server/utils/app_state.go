package utils

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	"remind/src-server/alert"
	"remind/src-server/clock"
	"remind/src-server/kv"
	"remind/src-server/model"
	"remind/src-server/scheduler"
	"remind/src-server/store"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/afero"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type AppState struct {
	Config    *Config
	RawDB     *sql.DB
	BunDB     *bun.DB
	KV        kv.KV
	DgSession *discordgo.Session
	Natural   *Natural

	Store     *store.Store
	Clock     *clock.Clock
	Notifier  *alert.PermissionGate
	Player    alert.TonePlayer
	Scheduler *scheduler.Scheduler

	MetricChans        *Metric
	AppCloseSignalChan chan os.Signal

	startedAt             time.Time
	gracefulShutdownMu    sync.Mutex
	gracefulShutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		startedAt:          time.Now(),
	}

	// env
	as.Config = NewConfig()
	loc := as.Config.GetLocation()

	// date parser
	as.Natural = NewNatural(loc)

	// persistent store
	switch as.Config.GetStoreBackend() {
	case STORE_BACKEND_SQLITE:
		var err error
		as.RawDB, err = sql.Open(sqliteshim.ShimName, "file:"+as.Config.GetSqlitePath()+"?mode=rwc")
		if err != nil {
			slog.Error("cannot open sqlite database", "error", err)
			os.Exit(1)
		}
		as.RawDB.SetMaxIdleConns(8)
		as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
		if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
			slog.Error("can't create database schema", "error", err)
			os.Exit(1)
		}
		as.KV = kv.NewSQLite(as.BunDB, as.MetricChans)
	case STORE_BACKEND_FILE:
		fileKV, err := kv.NewFile(afero.NewOsFs(), as.Config.GetStoreDir(), as.MetricChans)
		if err != nil {
			slog.Error("cannot open store directory", "error", err)
			os.Exit(1)
		}
		as.KV = fileKV
	default:
		slog.Warn("using in-memory store, events are lost on exit")
		as.KV = kv.NewMemory()
	}

	as.Store = store.New(as.KV, loc, time.Now)
	if err := as.Store.Load(context.Background()); err != nil {
		slog.Error("can't load events", "error", err)
		os.Exit(1)
	}

	as.Clock = clock.New(as.Config.GetTickInterval(), time.Now)

	// alert sinks
	notifiers := alert.MultiNotifier{alert.LogNotifier{}}
	if as.Config.DiscordEnabled() {
		session, err := discordgo.New("Bot " + as.Config.GetDiscordAppToken())
		if err != nil {
			slog.Error("can't create discord session", "error", err)
			os.Exit(1)
		}
		as.DgSession = session
		// gated on its own so an unreachable channel stays silent while the
		// log sink keeps going
		discord := alert.NewDiscordNotifier(session, as.Config.GetDiscordChannelID(), as.MetricChans.ObserveDiscordSend)
		notifiers = append(notifiers, alert.NewPermissionGate(discord))
	}
	as.Notifier = alert.NewPermissionGate(notifiers)

	switch as.Config.GetAudioPlayer() {
	case "aplay":
		as.Player = alert.NewAplayPlayer()
	case "bell":
		as.Player = alert.NewBellPlayer(os.Stdout)
	default:
		as.Player = alert.NopPlayer{}
	}

	as.Scheduler = scheduler.New(as.Notifier, as.Player, loc,
		scheduler.WithObserver(as.MetricChans),
	)

	return as
}

func (as *AppState) GetUptime() time.Duration {
	if as.startedAt.IsZero() {
		return 0
	}
	return time.Since(as.startedAt)
}

// Now is the clock's latest sample, so HTTP views agree with the scheduler.
func (as *AppState) Now() time.Time {
	if as.Clock == nil {
		return time.Now()
	}
	return as.Clock.Now()
}

// CreateGracefulShutdownChan returns a channel that is closed once
// GracefulShutdown runs.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMu.Lock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil
	as.gracefulShutdownMu.Unlock()

	if as.Clock != nil {
		as.Clock.Stop()
	}
	if as.DgSession != nil {
		if err := as.DgSession.Close(); err != nil {
			slog.Warn("can't close discord session", "error", err)
		}
	}
	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
