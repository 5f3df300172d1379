package client

import (
	"errors"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
)

var (
	ErrUnavailable  = common.ErrUnavailable
	ErrUnauthorized = common.ErrorUnauthorized

	// ErrRejected is returned when the server answers without success and
	// without a gRPC error.
	ErrRejected = errors.New("request rejected by server")
)
