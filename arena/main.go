package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/obseasd/monadarena/arena/agent"
	"github.com/obseasd/monadarena/arena/live"
	"github.com/obseasd/monadarena/arena/llm"
	"github.com/obseasd/monadarena/arena/store"
)

//
// ===== bootstrap =====
//

// hasModelCredentials reports whether either supported API key is set;
// llm.ConfigFromEnv resolves which vendor actually serves the requests.
func hasModelCredentials() bool {
	return os.Getenv("OPENAI_API_KEY") != "" || os.Getenv("OPENROUTER_API_KEY") != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func f64Def(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func watchSignals(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logrus.Info("shutdown signal received")
	cancel()
}

// defaultRoster is the built-in four-personality field used when no custom
// roster is configured.
var defaultRoster = []struct {
	address     string
	name        string
	personality string
	risk        agent.RiskLevel
}{
	{"0xA11CE000000000000000000000000000000000a1", "Blaze", "aggressive", agent.RiskAggressive},
	{"0xB0B0000000000000000000000000000000000b02", "Granite", "conservative", agent.RiskConservative},
	{"0xC4570000000000000000000000000000000000c3", "Pivot", "balanced", agent.RiskModerate},
	{"0xD00D000000000000000000000000000000000d04", "Mirror", "adaptive", agent.RiskModerate},
}

func buildRoster(ctx context.Context, mgr *Manager, client *llm.Client, bankroll float64) error {
	for _, def := range defaultRoster {
		p := &AgentProfile{
			Address:     def.address,
			Name:        def.name,
			Personality: def.personality,
			Risk:        def.risk,
			Provider:    llm.NewProvider(client, def.personality),
			Bankroll:    agent.NewBankrollManager(bankroll, def.risk),
			Tracker:     agent.NewOpponentTracker(),
		}
		if err := mgr.Register(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if asBool(os.Getenv("DEBUG")) {
		logrus.SetLevel(logrus.DebugLevel)
	}

	var migrate, serve, tournament bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--serve":
			serve = true
		case "--tournament":
			tournament = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	var db *store.DB
	if dsn := getenv("DATABASE_URL", ""); dsn != "" {
		p, err := store.Open(dsn)
		if err != nil {
			logrus.Warnf("DB disabled (open failed): %v", err)
		} else {
			db = p
			defer db.Close(context.Background())
		}
	}

	if migrate {
		if db == nil {
			logrus.Fatal("--migrate needs DATABASE_URL")
		}
		if err := store.Migrate(ctx, db); err != nil {
			logrus.Fatalf("migrate: %v", err)
		}
		logrus.Info("schema up to date")
		return
	}
	if db != nil && asBool(os.Getenv("AUTO_MIGRATE")) {
		if err := store.Migrate(ctx, db); err != nil {
			logrus.Warnf("migrate failed (continuing without DB): %v", err)
			db = nil
		}
	}

	if !hasModelCredentials() {
		logrus.Fatal("Missing OPENAI_API_KEY or OPENROUTER_API_KEY. Put one in .env (dev) or set it on the host (prod).")
	}
	client := llm.NewClient(llm.ConfigFromEnv())

	hub := live.NewHub()
	go hub.Run()

	bankroll := f64Def(os.Getenv("AGENT_BANKROLL"), 10.0)
	baseWager := f64Def(os.Getenv("BASE_WAGER"), 0.1)
	seedBase := int64(atoiDef(os.Getenv("SEED_BASE"), 0))
	if seedBase == 0 {
		seedBase = time.Now().UnixNano()
	}

	mgr := NewManager(db, hub, baseWager, seedBase)
	if err := buildRoster(ctx, mgr, client, bankroll); err != nil {
		logrus.Fatalf("roster: %v", err)
	}

	if serve {
		port := getenv("PORT", "8080")
		srv := &http.Server{Addr: ":" + port, Handler: Router(db, mgr, hub)}
		go func() {
			<-ctx.Done()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
		go runArena(ctx, mgr, tournament)
		logrus.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal(err)
		}
		return
	}

	runArena(ctx, mgr, tournament)
}

func runArena(ctx context.Context, mgr *Manager, tournament bool) {
	if tournament {
		t, err := mgr.RunTournament(ctx)
		if err != nil {
			logrus.Errorf("tournament: %v", err)
			return
		}
		logrus.Infof("tournament complete, champion %s after %d matches", short(t.Champion), len(t.Matches))
		return
	}

	rounds := atoiDef(os.Getenv("EXHIBITION_ROUNDS"), 6)
	if err := mgr.RunExhibition(ctx, rounds); err != nil && ctx.Err() == nil {
		logrus.Errorf("exhibition: %v", err)
	}
	for _, s := range mgr.Standings() {
		logrus.Infof("%-10s %-12s elo=%.1f w/l=%d/%d bankroll=%.4f",
			s.Name, s.Personality, s.Elo, s.Wins, s.Losses, s.Bankroll)
	}
}
