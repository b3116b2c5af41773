// Package notify persists price-alert subscriptions and delivers alerts when
// a tracked product's price drops.
package notify

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Subscription tracks one contact's interest in a product's price.
type Subscription struct {
	ID          int64      `json:"id"`
	ProductName string     `json:"product_name"`
	ProductURL  string     `json:"product_url,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	LastPrice   *float64   `json:"last_price,omitempty"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Store is a SQLite-backed subscription store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the subscription database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS subscriptions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name  TEXT NOT NULL,
			product_url   TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			phone         TEXT NOT NULL DEFAULT '',
			last_price    REAL,
			last_checked  TEXT,
			created_at    TEXT NOT NULL,
			UNIQUE(product_name, email, phone)
		);

		CREATE INDEX IF NOT EXISTS idx_subscriptions_product ON subscriptions(product_name);
	`)
	return err
}

// Add registers a subscription. It returns false without error when an
// identical subscription already exists. At least one of Email or Phone must
// be set.
func (s *Store) Add(sub Subscription) (bool, error) {
	if strings.TrimSpace(sub.ProductName) == "" {
		return false, fmt.Errorf("product name is required")
	}
	if strings.TrimSpace(sub.Email) == "" && strings.TrimSpace(sub.Phone) == "" {
		return false, fmt.Errorf("at least one contact method (email or phone) is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Format(time.RFC3339)
	res, err := s.db.Exec(`
		INSERT INTO subscriptions (product_name, product_url, email, phone, last_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_name, email, phone) DO NOTHING
	`, sub.ProductName, sub.ProductURL, sub.Email, sub.Phone, sub.LastPrice, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes every subscription matching product and contact. The phone
// argument may be empty to match on email alone and vice versa.
func (s *Store) Delete(productName, email, phone string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		DELETE FROM subscriptions
		WHERE product_name = ?
		  AND (? = '' OR email = ?)
		  AND (? = '' OR phone = ?)
	`, productName, email, email, phone, phone)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ByProduct returns the subscriptions tracking the given product name.
func (s *Store) ByProduct(productName string) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, product_name, product_url, email, phone, last_price, last_checked, created_at
		FROM subscriptions
		WHERE product_name = ?
		ORDER BY created_at ASC
	`, productName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// Products returns the distinct product names with at least one subscription.
func (s *Store) Products() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT product_name FROM subscriptions ORDER BY product_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateLastPrice records the latest observed price and check time for every
// subscription on the product.
func (s *Store) UpdateLastPrice(productName string, price float64, checked time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE subscriptions SET last_price = ?, last_checked = ? WHERE product_name = ?
	`, price, checked.Format(time.RFC3339), productName)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanSubscriptions(rows *sql.Rows) ([]Subscription, error) {
	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		var lastPrice sql.NullFloat64
		var lastChecked sql.NullString
		var createdAt string

		err := rows.Scan(&sub.ID, &sub.ProductName, &sub.ProductURL, &sub.Email, &sub.Phone,
			&lastPrice, &lastChecked, &createdAt)
		if err != nil {
			return nil, err
		}
		if lastPrice.Valid {
			v := lastPrice.Float64
			sub.LastPrice = &v
		}
		if lastChecked.Valid {
			if t, err := time.Parse(time.RFC3339, lastChecked.String); err == nil {
				sub.LastChecked = &t
			}
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sub.CreatedAt = t
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
