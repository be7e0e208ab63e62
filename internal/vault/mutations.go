package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/padlock-app/padlock/internal/vaultapi"
)

// MinSecretLength is the client-side minimum for a stored secret, enforced
// before any network call.
const MinSecretLength = 8

// ValidationError reports field-level failures found before submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	// ErrRecordNotFound is returned when a mutation targets an identifier
	// absent from the current collection.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDeleteDeclined is returned when the confirm step rejects a delete.
	ErrDeleteDeclined = errors.New("delete not confirmed")

	// ErrDeleteInFlight is returned when the record already has a delete
	// awaiting the server's answer.
	ErrDeleteInFlight = errors.New("delete already in progress")
)

// ConfirmFunc decides whether an irreversible delete proceeds. It runs
// before the network call, with the record about to be removed.
type ConfirmFunc func(record vaultapi.Record) bool

// Mutator runs the create and delete flows: validate or confirm locally,
// call the service, and on success apply a minimal patch to the controller
// instead of forcing a refetch.
type Mutator struct {
	svc  vaultapi.VaultService
	ctrl *Controller
}

// NewMutator creates a Mutator over svc and ctrl.
func NewMutator(svc vaultapi.VaultService, ctrl *Controller) *Mutator {
	return &Mutator{svc: svc, ctrl: ctrl}
}

// Create validates the fields, submits the record, and appends the
// server-confirmed result to the collection. Validation failures are
// reported as *ValidationError with zero network calls made.
func (m *Mutator) Create(ctx context.Context, serviceName, username, secret, notes string) (*vaultapi.Record, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(serviceName) == "" {
		fields["service_name"] = "service name is required"
	}
	if strings.TrimSpace(username) == "" {
		fields["username"] = "username is required"
	}
	if secret == "" {
		fields["password"] = "password is required"
	} else if len(secret) < MinSecretLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinSecretLength)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	record, err := m.svc.CreateRecord(ctx, vaultapi.CreateRecordRequest{
		ServiceName: serviceName,
		Username:    username,
		Password:    secret,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}

	m.ctrl.ApplyCreate(*record)
	return record, nil
}

// Delete removes a record after the confirm step accepts it. The record is
// flagged deleting while the call is in flight but stays in the collection
// until the server confirms; on failure the flag is cleared and the
// collection untouched.
func (m *Mutator) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	record, ok := m.ctrl.Record(id)
	if !ok {
		return ErrRecordNotFound
	}

	// The confirm step is mandatory: deletes are irreversible.
	if confirm == nil || !confirm(record) {
		return ErrDeleteDeclined
	}

	if !m.ctrl.MarkDeleting(id) {
		return ErrDeleteInFlight
	}

	if err := m.svc.DeleteRecord(ctx, id); err != nil {
		m.ctrl.ClearDeleting(id)
		return err
	}

	m.ctrl.ApplyDelete(id)
	return nil
}
