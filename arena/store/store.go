package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obseasd/monadarena/arena/games"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Agents
------------------------------*/

// Upsert an agent and return its id.
func (db *DB) UpsertAgent(ctx context.Context, address, name, personality, riskLevel string) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
        INSERT INTO agents(address, name, personality, risk_level)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (address) DO UPDATE
          SET name = EXCLUDED.name,
              personality = EXCLUDED.personality,
              risk_level = EXCLUDED.risk_level,
              updated_at = now()
        RETURNING id
    `, address, name, personality, riskLevel).Scan(&id)
	return id, err
}

// Persist a settled match outcome against both agents' career rows.
func (db *DB) ApplyOutcome(ctx context.Context, winner, loser string, wager, eloWinner, eloLoser float64) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, `
        UPDATE agents SET wins = wins + 1, net_profit = net_profit + $2, elo = $3, updated_at = now()
         WHERE address = $1
    `, winner, wager, eloWinner); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
        UPDATE agents SET losses = losses + 1, net_profit = net_profit - $2, elo = $3, updated_at = now()
         WHERE address = $1
    `, loser, wager, eloLoser); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// LeaderboardRow is one agent's career line.
type LeaderboardRow struct {
	Address     string  `json:"address"`
	Name        string  `json:"name"`
	Personality string  `json:"personality"`
	Elo         float64 `json:"elo"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	NetProfit   float64 `json:"net_profit"`
}

func (db *DB) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
        SELECT address, name, personality, elo, wins, losses, net_profit
          FROM agents
         ORDER BY elo DESC, net_profit DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Address, &r.Name, &r.Personality, &r.Elo, &r.Wins, &r.Losses, &r.NetProfit); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/* -----------------------------
   Matches
------------------------------*/

// InsertMatch writes the match row and its full decision trail atomically.
func (db *DB) InsertMatch(ctx context.Context, id uuid.UUID, playerA, playerB string, res *games.GameResult) error {
	details, err := json.Marshal(res.Details)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
        INSERT INTO matches(id, game_type, player_a, player_b, winner, loser, wager, rounds, details)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, id, res.GameType.String(), playerA, playerB, res.Winner, res.Loser, res.Wager, res.RoundsPlayed, details); err != nil {
		return err
	}

	for i, d := range res.Decisions {
		reqJSON, err := json.Marshal(d.Request)
		if err != nil {
			return err
		}
		respJSON, err := json.Marshal(d.Response)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
            INSERT INTO decisions(match_id, seq, player, stage, request, response, coerced)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
        `, id, i, d.Player, d.Stage, reqJSON, respJSON, d.Coerced); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// MatchSummary is one row of the recent-matches listing.
type MatchSummary struct {
	ID        uuid.UUID `json:"id"`
	GameType  string    `json:"game_type"`
	PlayerA   string    `json:"player_a"`
	PlayerB   string    `json:"player_b"`
	Winner    string    `json:"winner"`
	Wager     float64   `json:"wager"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) RecentMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
        SELECT id, game_type, player_a, player_b, winner, wager, rounds, created_at
          FROM matches
         ORDER BY created_at DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.GameType, &m.PlayerA, &m.PlayerB, &m.Winner, &m.Wager, &m.Rounds, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MatchDetail is a full match with its decision trail.
type MatchDetail struct {
	MatchSummary
	Loser     string          `json:"loser"`
	Details   json.RawMessage `json:"details"`
	Decisions []DecisionRow   `json:"decisions"`
}

type DecisionRow struct {
	Seq      int             `json:"seq"`
	Player   string          `json:"player"`
	Stage    string          `json:"stage"`
	Request  json.RawMessage `json:"request"`
	Response json.RawMessage `json:"response"`
	Coerced  string          `json:"coerced,omitempty"`
}

var ErrNotFound = errors.New("not found")

func (db *DB) MatchByID(ctx context.Context, id uuid.UUID) (*MatchDetail, error) {
	var m MatchDetail
	err := db.QueryRow(ctx, `
        SELECT id, game_type, player_a, player_b, winner, loser, wager, rounds, details, created_at
          FROM matches WHERE id = $1
    `, id).Scan(&m.ID, &m.GameType, &m.PlayerA, &m.PlayerB, &m.Winner, &m.Loser, &m.Wager, &m.Rounds, &m.Details, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, `
        SELECT seq, player, stage, request, response, coerced
          FROM decisions WHERE match_id = $1 ORDER BY seq
    `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d DecisionRow
		if err := rows.Scan(&d.Seq, &d.Player, &d.Stage, &d.Request, &d.Response, &d.Coerced); err != nil {
			return nil, err
		}
		m.Decisions = append(m.Decisions, d)
	}
	return &m, rows.Err()
}
