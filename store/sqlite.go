package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

const (
	defaultSQLiteFile = "dogfinder.db"

	keyCurrentIndex = "current_index"
	keyUserID       = "user_id"
)

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
	breed_id   INTEGER PRIMARY KEY,
	value      INTEGER NOT NULL CHECK (value IN (-1, 1, 2)),
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type voteRow struct {
	BreedID int `db:"breed_id"`
	Value   int `db:"value"`
}

type progressRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// SQLiteStore keeps progress and votes in a SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. An empty
// path means dogfinder.db in the data directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		dir, err := utils.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, defaultSQLiteFile)
	}

	db, err := sqlx.Connect("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema : %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	state := NewState()

	var progress []progressRow
	if err := s.db.SelectContext(ctx, &progress, `SELECT key, value FROM progress`); err != nil {
		return nil, fmt.Errorf("loading progress : %w", err)
	}

	for _, row := range progress {
		switch row.Key {
		case keyCurrentIndex:
			index, err := strconv.Atoi(row.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid stored index %q: %w", row.Value, err)
			}
			state.CurrentIndex = index
		case keyUserID:
			state.UserID = row.Value
		}
	}

	var votes []voteRow
	if err := s.db.SelectContext(ctx, &votes, `SELECT breed_id, value FROM votes`); err != nil {
		return nil, fmt.Errorf("loading votes : %w", err)
	}
	for _, v := range votes {
		state.Votes[v.BreedID] = types.VoteValue(v.Value)
	}

	return state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, state *State) error {
	if err := validateState(state); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction : %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("clearing progress : %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes`); err != nil {
		return fmt.Errorf("clearing votes : %w", err)
	}

	if err := setProgress(ctx, tx, keyCurrentIndex, strconv.Itoa(state.CurrentIndex)); err != nil {
		return err
	}
	if state.UserID != "" {
		if err := setProgress(ctx, tx, keyUserID, state.UserID); err != nil {
			return err
		}
	}

	for breedID, value := range state.Votes {
		if err := upsertVote(ctx, tx, breedID, value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state : %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveIndex(ctx context.Context, index int) error {
	if err := validateIndex(index); err != nil {
		return err
	}
	return setProgress(ctx, s.db, keyCurrentIndex, strconv.Itoa(index))
}

func (s *SQLiteStore) SaveUserID(ctx context.Context, userID string) error {
	return setProgress(ctx, s.db, keyUserID, userID)
}

func (s *SQLiteStore) SaveVote(ctx context.Context, breedID int, value types.VoteValue) error {
	if err := validateVote(breedID, value); err != nil {
		return err
	}
	return upsertVote(ctx, s.db, breedID, value)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction : %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("clearing progress : %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes`); err != nil {
		return fmt.Errorf("clearing votes : %w", err)
	}
	return tx.Commit()
}

// Close terminates the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing db : %w", err)
	}
	return nil
}

func setProgress(ctx context.Context, db sqlx.ExecerContext, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO progress (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("saving %s : %w", key, err)
	}
	return nil
}

func upsertVote(ctx context.Context, db sqlx.ExecerContext, breedID int, value types.VoteValue) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO votes (breed_id, value) VALUES (?, ?)
		 ON CONFLICT(breed_id) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		breedID, int(value))
	if err != nil {
		return fmt.Errorf("saving vote for breed %d : %w", breedID, err)
	}
	return nil
}
