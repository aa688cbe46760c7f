package command

import (
	"github.com/cockroachdb/errors"

	"github.com/plmtools/centric-cli/internal/cli/auth"
	"github.com/plmtools/centric-cli/internal/cli/config"
	"github.com/plmtools/centric-cli/internal/cli/connection"
)

// Exit codes by failure class.
const (
	ExitOK        = 0
	ExitGeneric   = 1
	ExitConfig    = 2
	ExitAuth      = 3
	ExitTransport = 4
	ExitRequest   = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var missingField *config.MissingFieldError
	if errors.As(err, &missingField) {
		return ExitConfig
	}
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return ExitAuth
	}
	var transportErr *connection.TransportError
	if errors.As(err, &transportErr) {
		return ExitTransport
	}
	var requestErr *connection.RequestError
	if errors.As(err, &requestErr) {
		return ExitRequest
	}
	return ExitGeneric
}
