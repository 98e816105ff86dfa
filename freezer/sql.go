package freezer

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS networks (
	name     TEXT PRIMARY KEY,
	data     TEXT NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLStore keeps Networks in a SQLite database, one row per Network
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (or creates) the SQLite database at path
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open freezer database\n")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "Can't create freezer table\n")
	}

	return &SQLStore{db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Save(net *bp.Network) error {
	data, err := Marshal(net)
	if err != nil {
		return errors.Wrapf(err, "Can't encode network %q\n", net.Name())
	}

	_, err = s.db.Exec(`INSERT INTO networks(name, data, saved_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		net.Name(), string(data), time.Now().Unix())
	if err != nil {
		return errors.Wrapf(err, "Can't save network %q\n", net.Name())
	}

	return nil
}

func (s *SQLStore) Load(name string) (*bp.Network, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM networks WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "No row for %q", name)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Can't read network %q\n", name)
	}

	return thaw(name, []byte(data))
}

// Names returns the names of every stored Network, sorted
func (s *SQLStore) Names() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM networks ORDER BY name")
	if err != nil {
		return nil, errors.Wrapf(err, "Can't list networks\n")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}

	return names, rows.Err()
}
