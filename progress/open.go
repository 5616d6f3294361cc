package progress

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/where"
	"github.com/spf13/viper"
)

// Backend identifiers accepted by the progress.backend setting.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds the Store selected by configuration.
func Open() (*Store, error) {
	var backend Backend

	switch name := viper.GetString(key.ProgressBackend); name {
	case BackendFile, "":
		backend = &FileBackend{Path: where.Progress()}
	case BackendSQLite:
		db, err := NewSQLite(where.ProgressDB())
		if err != nil {
			return nil, fmt.Errorf("open progress database: %w", err)
		}
		backend = db
	default:
		return nil, fmt.Errorf("unknown progress backend %q", name)
	}

	var options []Option
	if viper.GetBool(key.ProgressLock) {
		options = append(options, WithLocker(flock.New(where.ProgressLock())))
	}

	return New(backend, options...), nil
}
