package config

import (
	"errors"
	"os"

	"github.com/tauraamui/xerror"
)

var ErrConfigNotExists = errors.New("config file does not exist")

func destroy() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ErrConfigNotExists
	}

	if err := fs.Remove(path); err != nil {
		return xerror.Errorf("unable to remove config file %s: %w", path, err)
	}
	return nil
}
