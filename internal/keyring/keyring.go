// Package keyring keeps the PostgreSQL connection string for a shared
// calibration store in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/logsheet/internal/constants"
)

var (
	ErrNotFound           = errors.New("connection string not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

const (
	service = constants.AppName
	account = constants.DefaultKeyringUser
)

// translate maps go-keyring errors onto this package's sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, op, err)
	}
}

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(service, account)
	if err != nil {
		return "", translate("read", err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return translate("write", keyring.Set(service, account, connStr))
}

func DeleteConnectionString() error {
	return translate("delete", keyring.Delete(service, account))
}
