package types

import "errors"

var (
	ErrInvalidGeometry            = errors.New("invalid geometry")
	ErrInvalidAlert               = errors.New("invalid alert")
	ErrInvalidLocation            = errors.New("invalid location")
	ErrInvalidDevice              = errors.New("invalid device registration")
	ErrAlertNotFound              = errors.New("alert not found")
	ErrPolygonNotFound            = errors.New("polygon not found")
	ErrUnauthenticated            = errors.New("unauthenticated")
	ErrStorageUnavailable         = errors.New("storage unavailable")
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)
