package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// The schema is created in code at startup so a fresh database needs no
// external migration step. Cascading deletion is enforced at the database
// level: every child table declares an ON DELETE CASCADE foreign key, so
// removing a potluck removes its categories, items and claims in one
// statement and no orphaned rows can survive.
//
// The DDL differs between drivers only in the auto-increment primary key
// spelling; everything else is shared.

const (
	mysqlPK  = "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY"
	sqlitePK = "INTEGER PRIMARY KEY AUTOINCREMENT"
)

// Statements returns the CREATE TABLE statements for the given driver
// ("mysql" or "sqlite"). Statements are ordered parent-first so foreign
// keys always reference existing tables.
func Statements(driver string) ([]string, error) {
	var pk string
	switch driver {
	case "mysql":
		pk = mysqlPK
	case "sqlite":
		pk = sqlitePK
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS potlucks (
			id {PK},
			name VARCHAR(200) NOT NULL,
			description TEXT,
			url_slug VARCHAR(100) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id {PK},
			potluck_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			max_items INT NOT NULL DEFAULT 10,
			display_order INT NOT NULL DEFAULT 0,
			FOREIGN KEY (potluck_id) REFERENCES potlucks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id {PK},
			category_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			claim_limit INT NOT NULL DEFAULT 1,
			created_by_admin BOOLEAN NOT NULL DEFAULT TRUE,
			require_details BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS claims (
			id {PK},
			item_id BIGINT UNSIGNED NOT NULL,
			attendee_name VARCHAR(200) NOT NULL,
			item_details TEXT,
			session_id VARCHAR(255),
			claimed_at DATETIME NOT NULL,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
		)`,
	}

	out := make([]string, len(ddl))
	for i, stmt := range ddl {
		out[i] = strings.ReplaceAll(stmt, "{PK}", pk)
	}
	return out, nil
}

// EnsureSchema creates all application tables if they do not exist yet.
func EnsureSchema(db *sql.DB, driver string) error {
	stmts, err := Statements(driver)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
