// Package store keeps per-user settings, usage counters, VIP membership
// and translation history in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// DefaultLanguage is assigned to users who never picked one.
const DefaultLanguage = "en"

// ErrUserNotFound is returned by GetUser for unknown ids.
var ErrUserNotFound = errors.New("user not found")

// UserInfo is the profile data the chat platform sends with each update.
type UserInfo struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

// User is a row from the users table.
type User struct {
	UserInfo
	Language         string
	TranslationCount int
	LastActivity     time.Time
	VIP              bool
}

// DisplayName returns the best human readable name for u.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return fmt.Sprintf("%d", u.ID)
}

// DailyUsage is the number of translations served on one day.
type DailyUsage struct {
	Day   string
	Count int
}

// Usage summarises translation volume.
type Usage struct {
	Total int
	Days  []DailyUsage
}

// LanguageCount is the number of users with a preferred language.
type LanguageCount struct {
	Language string
	Users    int
}

// HistoryEntry is one translation served to a user.
type HistoryEntry struct {
	ID             string
	UserID         int64
	SourceText     string
	SourceLang     string
	TargetLang     string
	TranslatedText string
	CreatedAt      time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases shared between calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		language TEXT NOT NULL DEFAULT 'en',
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		language_code TEXT NOT NULL DEFAULT '',
		translation_count INTEGER NOT NULL DEFAULT 0,
		last_activity TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vip_users (
		user_id INTEGER PRIMARY KEY,
		added_at TIMESTAMP NOT NULL
	);

	-- usage_daily holds one counter per calendar day (YYYY-MM-DD)
	CREATE TABLE IF NOT EXISTS usage_daily (
		day TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS translation_history (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_language ON users(language);
	CREATE INDEX IF NOT EXISTS idx_history_user ON translation_history(user_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// EnsureUser creates a user with the default language if missing.
func (s *Store) EnsureUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, language) VALUES (?, ?)`,
		userID, DefaultLanguage)
	return err
}

// Language returns the user's preferred language, DefaultLanguage if unknown.
func (s *Store) Language(ctx context.Context, userID int64) (string, error) {
	var lang string
	err := s.db.QueryRowContext(ctx, `SELECT language FROM users WHERE id = ?`, userID).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultLanguage, nil
	}
	if err != nil {
		return "", err
	}
	return lang, nil
}

// SetLanguage stores the user's preferred language. Callers validate code.
func (s *Store) SetLanguage(ctx context.Context, userID int64, code string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, language) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET language = excluded.language`,
		userID, code)
	return err
}

// SaveProfile refreshes the profile and last activity without counting a
// translation.
func (s *Store) SaveProfile(ctx context.Context, info UserInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, language, username, first_name, last_name, language_code, last_activity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			language_code = excluded.language_code,
			last_activity = excluded.last_activity`,
		info.ID, DefaultLanguage, info.Username, info.FirstName, info.LastName, info.LanguageCode, s.now())
	return err
}

// TouchUser refreshes the profile and last activity and counts one translation.
func (s *Store) TouchUser(ctx context.Context, info UserInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, language, username, first_name, last_name, language_code, translation_count, last_activity)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		 ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			language_code = excluded.language_code,
			translation_count = translation_count + 1,
			last_activity = excluded.last_activity`,
		info.ID, DefaultLanguage, info.Username, info.FirstName, info.LastName, info.LanguageCode, s.now())
	return err
}

// RecordUsage counts one translation on the current day.
func (s *Store) RecordUsage(ctx context.Context) error {
	day := s.now().Format("2006-01-02")
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_daily (day, count) VALUES (?, 1)
		 ON CONFLICT(day) DO UPDATE SET count = count + 1`,
		day)
	return err
}

// Usage returns the all-time total and the most recent days, newest first.
// days <= 0 returns every day.
func (s *Store) Usage(ctx context.Context, days int) (*Usage, error) {
	usage := &Usage{}
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(count), 0) FROM usage_daily`).Scan(&usage.Total); err != nil {
		return nil, err
	}

	query := `SELECT day, count FROM usage_daily ORDER BY day DESC`
	var args []interface{}
	if days > 0 {
		query += ` LIMIT ?`
		args = append(args, days)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyUsage
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		usage.Days = append(usage.Days, d)
	}
	return usage, rows.Err()
}

// AddVIP grants VIP status. Adding an existing VIP is a no-op.
func (s *Store) AddVIP(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO vip_users (user_id, added_at) VALUES (?, ?)`,
		userID, s.now())
	return err
}

// RemoveVIP revokes VIP status and reports whether the user had it.
func (s *Store) RemoveVIP(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vip_users WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) IsVIP(ctx context.Context, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vip_users WHERE user_id = ?`, userID).Scan(&n)
	return n > 0, err
}

// ListVIP returns VIP user ids in ascending order.
func (s *Store) ListVIP(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM vip_users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

const userColumns = `u.id, u.language, u.username, u.first_name, u.last_name, u.language_code,
	u.translation_count, u.last_activity,
	EXISTS (SELECT 1 FROM vip_users v WHERE v.user_id = u.id)`

func scanUser(row interface{ Scan(...interface{}) error }) (User, error) {
	var u User
	var last sql.NullTime
	err := row.Scan(&u.ID, &u.Language, &u.Username, &u.FirstName, &u.LastName, &u.LanguageCode,
		&u.TranslationCount, &last, &u.VIP)
	if last.Valid {
		u.LastActivity = last.Time
	}
	return u, err
}

// ListUsers returns users, most recently active first. limit <= 0 returns all.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users u
		ORDER BY u.last_activity IS NULL, u.last_activity DESC, u.id`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserIDs returns every known user id.
func (s *Store) UserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// LanguageStats counts users per preferred language, most popular first.
func (s *Store) LanguageStats(ctx context.Context) ([]LanguageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT language, COUNT(*) AS n FROM users GROUP BY language ORDER BY n DESC, language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []LanguageCount
	for rows.Next() {
		var lc LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Users); err != nil {
			return nil, err
		}
		stats = append(stats, lc)
	}
	return stats, rows.Err()
}

// ResetSettings puts every user back on DefaultLanguage and returns how many
// rows changed.
func (s *Store) ResetSettings(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET language = ? WHERE language <> ?`, DefaultLanguage, DefaultLanguage)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AddHistory records a served translation and returns its id.
func (s *Store) AddHistory(ctx context.Context, e HistoryEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_history (id, user_id, source_text, source_lang, target_lang, translated_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, normalizeText(e.SourceText), e.SourceLang, e.TargetLang, e.TranslatedText, e.CreatedAt)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// ListHistory returns the user's latest translations, newest first.
func (s *Store) ListHistory(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, source_text, source_lang, target_lang, translated_text, created_at
		 FROM translation_history WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.TranslatedText, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
