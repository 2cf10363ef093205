// Package repository picks a storage backend from the database URL.
package repository

import (
	"strings"

	"github.com/warinb/linkgrove/pkg/adapters/repository/memory"
	"github.com/warinb/linkgrove/pkg/adapters/repository/sqlite"
	"github.com/warinb/linkgrove/pkg/ports"
)

// New returns the ProfileRepository for the given URL: "mem://" is the
// in-process store, "kv://<path>" the JSON-file key-value store, anything
// else a sqlite/libsql database.
func New(dbURL string) (ports.ProfileRepository, error) {
	switch {
	case dbURL == "mem://":
		return memory.NewRepository(memory.NewMapKV()), nil
	case strings.HasPrefix(dbURL, "kv://"):
		kv, err := memory.NewFileKV(strings.TrimPrefix(dbURL, "kv://"))
		if err != nil {
			return nil, err
		}
		return memory.NewRepository(kv), nil
	default:
		return sqlite.NewSQLiteRepository(dbURL)
	}
}
