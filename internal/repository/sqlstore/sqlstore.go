package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"notes-api/internal/model"
	"notes-api/internal/query"
	"notes-api/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DBType тип базы данных (имя драйвера database/sql)
type DBType string

const (
	SQLite   DBType = "sqlite3"
	Postgres DBType = "postgres"
	PGX      DBType = "pgx"
)

const noteColumns = "id, title, content, created_at, updated_at"

var _ repository.NoteStore = (*SQLStore)(nil)

// Config параметры подключения к базе
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLStore реализует NoteStore поверх database/sql для SQLite и PostgreSQL
type SQLStore struct {
	db     *sql.DB
	dbType DBType
	logger *zap.Logger
	now    func() time.Time
}

// New открывает базу, проверяет соединение и создает схему
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*SQLStore, error) {
	dbType := DBType(cfg.Driver)
	switch dbType {
	case SQLite, Postgres, PGX:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	if dbType == SQLite {
		// In-memory база SQLite живет внутри одного соединения
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.PingContext: %w", err)
	}

	store := &SQLStore{
		db:     db,
		dbType: dbType,
		logger: logger,
		now:    time.Now,
	}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initSchema: %w", err)
	}

	return store, nil
}

func (s *SQLStore) postgres() bool {
	return s.dbType != SQLite
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL
func (s *SQLStore) rebind(q string) string {
	if !s.postgres() {
		return q
	}
	var result strings.Builder
	argNum := 1
	for _, c := range q {
		if c == '?' {
			fmt.Fprintf(&result, "$%d", argNum)
			argNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	var createNotesTable string

	if s.postgres() {
		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`
	} else {
		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`
	}

	createTitleIndex := `CREATE INDEX IF NOT EXISTS notes_title_idx ON notes (title, created_at);`

	for _, stmt := range []string{createNotesTable, createTitleIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// Close закрывает пул соединений
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping проверяет соединение с базой
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// timestamp приводит время к точности, которую хранят обе СУБД
func (s *SQLStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Insert сохраняет новую заметку
func (s *SQLStore) Insert(ctx context.Context, note model.Note) (model.Note, error) {
	now := s.timestamp()
	note.CreatedAt = now
	note.UpdatedAt = now

	const insert = "INSERT INTO notes (title, content, created_at, updated_at) VALUES (?, ?, ?, ?)"

	if s.postgres() {
		err := s.db.QueryRowContext(ctx, s.rebind(insert+" RETURNING id"),
			note.Title, note.Content, note.CreatedAt, note.UpdatedAt).Scan(&note.ID)
		if err != nil {
			return model.Note{}, fmt.Errorf("insert note: %w", err)
		}
	} else {
		result, err := s.db.ExecContext(ctx, insert, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
		if err != nil {
			return model.Note{}, fmt.Errorf("insert note: %w", err)
		}
		if note.ID, err = result.LastInsertId(); err != nil {
			return model.Note{}, fmt.Errorf("last insert id: %w", err)
		}
	}

	s.logger.Debug("note inserted", zap.Int64("id", note.ID))

	return note, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) findByID(ctx context.Context, q rowQuerier, id int64, forUpdate bool) (model.Note, error) {
	stmt := "SELECT " + noteColumns + " FROM notes WHERE id = ?"
	if forUpdate && s.postgres() {
		stmt += " FOR UPDATE"
	}

	note, err := scanNote(q.QueryRowContext(ctx, s.rebind(stmt), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, repository.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("select note %d: %w", id, err)
	}

	return note, nil
}

// FindByID возвращает заметку по ID
func (s *SQLStore) FindByID(ctx context.Context, id int64) (model.Note, error) {
	s.logger.Debug("fetching note by id", zap.Int64("id", id))
	return s.findByID(ctx, s.db, id, false)
}

// Find выполняет план запроса
func (s *SQLStore) Find(ctx context.Context, plan query.Plan) ([]model.Note, error) {
	where, args := whereClause(plan.Filters)

	stmt := "SELECT " + noteColumns + " FROM notes" + where + orderClause(plan.Order) + " LIMIT ? OFFSET ?"
	args = append(args, bigint(plan.Limit), bigint(plan.Offset))

	rows, err := s.db.QueryContext(ctx, s.rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0, plan.Limit)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	s.logger.Debug("query completed",
		zap.Uint64("offset", plan.Offset),
		zap.Uint64("limit", plan.Limit),
		zap.Int("count", len(notes)),
	)

	return notes, nil
}

// bigint приводит uint64 к диапазону BIGINT. Отрицательный OFFSET SQLite считает нулем.
func bigint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Count считает заметки под теми же фильтрами, что и Find
func (s *SQLStore) Count(ctx context.Context, filters []query.Filter) (uint64, error) {
	where, args := whereClause(filters)

	var total int64
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM notes"+where), args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return uint64(total), nil
}

// InTx выполняет fn в транзакции базы данных.
// Транзакция откатывается на любом пути выхода, кроме успешного Commit.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(&tx{store: s, tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true

	return nil
}

// DeleteByID удаляет заметку и возвращает количество затронутых строк
func (s *SQLStore) DeleteByID(ctx context.Context, id int64) (uint64, error) {
	result, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM notes WHERE id = ?"), id)
	if err != nil {
		return 0, fmt.Errorf("delete note %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	s.logger.Debug("note delete executed", zap.Int64("id", id), zap.Int64("rows_affected", affected))

	return uint64(affected), nil
}

type tx struct {
	store *SQLStore
	tx    *sql.Tx
}

func (t *tx) FindByID(ctx context.Context, id int64) (model.Note, error) {
	return t.store.findByID(ctx, t.tx, id, true)
}

func (t *tx) Save(ctx context.Context, note model.Note) (model.Note, error) {
	result, err := t.tx.ExecContext(ctx,
		t.store.rebind("UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?"),
		note.Title, note.Content, note.UpdatedAt.UTC(), note.ID)
	if err != nil {
		return model.Note{}, fmt.Errorf("update note %d: %w", note.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Note{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return model.Note{}, repository.ErrNoteNotFound
	}

	return t.store.findByID(ctx, t.tx, note.ID, false)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (model.Note, error) {
	var note model.Note
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return model.Note{}, err
	}
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
	return note, nil
}
