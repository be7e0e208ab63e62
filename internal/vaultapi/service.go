package vaultapi

import "context"

// VaultService is the surface the rest of the app programs against.
// Extracting it keeps the controller and mutation flows testable without a
// live server.
type VaultService interface {
	// Login exchanges credentials for a session token and user identifier.
	Login(ctx context.Context, username, password string) (*LoginResponse, error)

	// Logout invalidates the session server-side (best-effort).
	Logout(ctx context.Context) error

	// ListRecords fetches the full credential collection in server order.
	ListRecords(ctx context.Context) ([]Record, error)

	// CreateRecord stores a new credential and returns it with its
	// server-assigned identifier.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*Record, error)

	// DeleteRecord removes a credential by identifier.
	DeleteRecord(ctx context.Context, id int64) error
}

// Compile-time check that Client implements VaultService.
var _ VaultService = (*Client)(nil)
