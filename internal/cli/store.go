package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/logsheet/internal/backup"
	"github.com/julianstephens/logsheet/internal/config"
	"github.com/julianstephens/logsheet/internal/constants"
	"github.com/julianstephens/logsheet/internal/keyring"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/storage"
	"github.com/julianstephens/logsheet/internal/storage/postgres"
	"github.com/julianstephens/logsheet/internal/storage/sqlite"
)

// KeyringStore is the store location that means "use the connection string
// saved with 'logsheet keyring set'".
const KeyringStore = "keyring"

var (
	getenv              = os.Getenv
	getConnectionString = keyring.GetConnectionString
)

func isPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") ||
		strings.HasPrefix(location, "postgresql://") ||
		strings.Contains(location, "host=")
}

// OpenStore picks the backend for location. In order: a PostgreSQL
// connection string, the LOGSHEET_DB_CONNECTION environment variable, the
// keyring, a .json file, and otherwise a SQLite file with automatic backups.
func OpenStore(location string) (storage.Provider, error) {
	if isPostgres(location) {
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the connection string with '%s keyring set' or export %s instead",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(location), nil
	}

	if connStr := getenv(constants.EnvDBConnection); connStr != "" {
		logger.Debug("using PostgreSQL store from environment")
		return postgres.New(connStr), nil
	}

	if location == KeyringStore {
		connStr, err := getConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring, run '%s keyring set' first", constants.AppName)
			}
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	path := config.ExpandPath(location)
	if strings.HasSuffix(path, ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path).WithBackups(backup.NewManager(path)), nil
}
