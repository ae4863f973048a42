package main

import (
	"encoding/json"
	"errors"

	"github.com/oxhq/smartdiff/difftypes"
)

// cliError is the uniform error payload the driver surfaces to the operator:
// a machine-readable code alongside a human message and optional detail.
// Adapted from the teacher's own code+message+detail CLIError shape.
type cliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e cliError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e cliError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// wrapCLIError classifies err into a cliError: if err (or something it
// wraps) is a *difftypes.Error, its Kind becomes the code; otherwise the
// code falls back to the generic internal kind.
func wrapCLIError(message string, err error) cliError {
	code := string(difftypes.ErrInternal)
	var diffErr *difftypes.Error
	if errors.As(err, &diffErr) {
		code = string(diffErr.Kind)
	}
	return cliError{Code: code, Message: message, Detail: err.Error()}
}
