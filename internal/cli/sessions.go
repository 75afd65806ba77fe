package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/hearth/pkg/domain"
)

// SessionAdmin is what the session commands need from the Assistant.
type SessionAdmin interface {
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	Sessions(ctx context.Context) ([]string, error)
	Reset(ctx context.Context, sessionID string) error
}

// ListSessions prints every stored session id.
func ListSessions(ctx context.Context, admin SessionAdmin, out io.Writer) error {
	ids, err := admin.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "No active sessions found.")
		return nil
	}
	fmt.Fprintln(out, "Active Sessions:")
	for _, id := range ids {
		fmt.Fprintln(out, "- "+id)
	}
	return nil
}

// InspectSession prints a session as indented JSON.
func InspectSession(ctx context.Context, admin SessionAdmin, sessionID string, out io.Writer) error {
	session, err := admin.Session(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session '%s': %w", sessionID, err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// RemoveSessions resets every given session, reporting each one. It fails if any failed.
func RemoveSessions(ctx context.Context, admin SessionAdmin, ids []string, out io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := admin.Reset(ctx, id); err != nil {
			fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}
