package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		username TEXT,
		display_name TEXT,
		bio TEXT,
		image_url TEXT,
		subdomain TEXT,
		next_link_id INTEGER NOT NULL DEFAULT 0,
		next_order INTEGER NOT NULL DEFAULT 0,
		link_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_owner ON profiles(owner);
	CREATE INDEX IF NOT EXISTS idx_profiles_subdomain ON profiles(subdomain);

	CREATE TABLE IF NOT EXISTS links (
		profile_id TEXT NOT NULL,
		link_id INTEGER NOT NULL,
		title TEXT,
		url TEXT,
		icon TEXT,
		banner TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (profile_id, link_id),
		FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO counters (name, value) VALUES ('next_profile_id', 0);
	`
	_, err := db.Exec(query)
	return err
}

const profileColumns = `id, owner, username, display_name, bio, image_url, subdomain,
	next_link_id, next_order, link_count, created_at, updated_at`

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'next_profile_id'`).Scan(&next); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE counters SET value = value + 1 WHERE name = 'next_profile_id'`); err != nil {
		return err
	}
	profile.ID = fmt.Sprintf("pfl-%06d", next)

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		profile.ID, profile.Owner, profile.Username, profile.DisplayName, profile.Bio,
		profile.ImageURL, profile.Subdomain, profile.NextLinkID, profile.NextOrder,
		profile.LinkCount, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	return r.scanProfile(ctx, r.db.QueryRowContext(ctx, query, profileID))
}

// Lowest profile id wins when an owner somehow has several profiles, so the
// lookup stays deterministic.
func (r *SQLiteRepository) GetProfileByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner = ? ORDER BY id ASC LIMIT 1`
	return r.scanProfile(ctx, r.db.QueryRowContext(ctx, query, owner))
}

func (r *SQLiteRepository) GetProfileBySubdomain(ctx context.Context, subdomain string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE subdomain = ? ORDER BY id ASC LIMIT 1`
	return r.scanProfile(ctx, r.db.QueryRowContext(ctx, query, subdomain))
}

func (r *SQLiteRepository) scanProfile(ctx context.Context, row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Owner, &p.Username, &p.DisplayName, &p.Bio, &p.ImageURL, &p.Subdomain,
		&p.NextLinkID, &p.NextOrder, &p.LinkCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	// LinkIDs are derived: per-profile ids are monotonic, so id order is
	// insertion order.
	rows, err := r.db.QueryContext(ctx, `SELECT link_id FROM links WHERE profile_id = ? ORDER BY link_id ASC`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.LinkIDs = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		p.LinkIDs = append(p.LinkIDs, id)
	}
	return &p, rows.Err()
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE profiles SET owner = ?, username = ?, display_name = ?, bio = ?,
		image_url = ?, subdomain = ?, next_link_id = ?, next_order = ?, link_count = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		profile.Owner, profile.Username, profile.DisplayName, profile.Bio,
		profile.ImageURL, profile.Subdomain, profile.NextLinkID, profile.NextOrder,
		profile.LinkCount, profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// PutLinks replaces the whole link bucket and the profile row in one
// transaction, so counters and bucket can never drift apart.
func (r *SQLiteRepository) PutLinks(ctx context.Context, profile *domain.Profile, links []domain.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE profiles SET owner = ?, username = ?, display_name = ?, bio = ?,
		image_url = ?, subdomain = ?, next_link_id = ?, next_order = ?, link_count = ?, updated_at = ?
		WHERE id = ?`
	res, err := tx.ExecContext(ctx, query,
		profile.Owner, profile.Username, profile.DisplayName, profile.Bio,
		profile.ImageURL, profile.Subdomain, profile.NextLinkID, profile.NextOrder,
		profile.LinkCount, profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE profile_id = ?`, profile.ID); err != nil {
		return err
	}
	insert := `INSERT INTO links (profile_id, link_id, title, url, icon, banner, is_active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, l := range links {
		if _, err := tx.ExecContext(ctx, insert,
			profile.ID, l.ID, l.Title, l.URL, l.Icon, l.Banner, l.IsActive, l.Order, l.CreatedAt, l.UpdatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetLinks(ctx context.Context, profileID string) ([]domain.Link, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, profileID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	query := `SELECT link_id, title, url, icon, banner, is_active, sort_order, created_at, updated_at
		FROM links WHERE profile_id = ? ORDER BY link_id ASC`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.Icon, &l.Banner, &l.IsActive, &l.Order, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.ProfileExport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProfileExport
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.Owner, &p.Username, &p.DisplayName, &p.Bio, &p.ImageURL, &p.Subdomain,
			&p.NextLinkID, &p.NextOrder, &p.LinkCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, domain.ProfileExport{Profile: p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		links, err := r.GetLinks(ctx, out[i].Profile.ID)
		if err != nil {
			return nil, err
		}
		out[i].Links = links
		out[i].Profile.LinkIDs = make([]int64, 0, len(links))
		for _, l := range links {
			out[i].Profile.LinkIDs = append(out[i].Profile.LinkIDs, l.ID)
		}
	}
	return out, nil
}

func (r *SQLiteRepository) Restore(ctx context.Context, export domain.ProfileExport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p := export.Profile
	query := `INSERT OR REPLACE INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		p.ID, p.Owner, p.Username, p.DisplayName, p.Bio, p.ImageURL, p.Subdomain,
		p.NextLinkID, p.NextOrder, p.LinkCount, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE profile_id = ?`, p.ID); err != nil {
		return err
	}
	insert := `INSERT INTO links (profile_id, link_id, title, url, icon, banner, is_active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, l := range export.Links {
		if _, err := tx.ExecContext(ctx, insert,
			p.ID, l.ID, l.Title, l.URL, l.Icon, l.Banner, l.IsActive, l.Order, l.CreatedAt, l.UpdatedAt,
		); err != nil {
			return err
		}
	}

	// Keep minted ids ahead of everything restored.
	var n int64
	if _, err := fmt.Sscanf(p.ID, "pfl-%d", &n); err == nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE counters SET value = ? WHERE name = 'next_profile_id' AND value <= ?`, n+1, n,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Ensure interface compliance
var _ ports.ProfileRepository = (*SQLiteRepository)(nil)
