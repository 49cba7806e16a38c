// Package tablesession drives the table-session lifecycle (open, rundown,
// close) against the collaborator that enforces it, and turns its replies
// into typed results.
package tablesession

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
)

// Rejection codes raised by the collaborator. They arrive inside error
// messages, not as a structured field.
const (
	ActiveSessionExists    = "active_session_exists"
	InvalidStateTransition = "invalid_state_transition"
	MissingClosingArtifact = "missing_closing_artifact"
	SessionNotFound        = "session_not_found"
)

var rejectionCodes = []string{
	ActiveSessionExists,
	InvalidStateTransition,
	MissingClosingArtifact,
	SessionNotFound,
}

// Remote is the procedure surface of the collaborator.
type Remote interface {
	OpenTableSession(ctx context.Context, tableID string) (*models.TableSession, error)
	StartTableRundown(ctx context.Context, sessionID string) (*models.TableSession, error)
	CloseTableSession(ctx context.Context, sessionID string, artifacts models.CloseArtifacts) (*models.TableSession, error)
	GetCurrentTableSession(ctx context.Context, tableID string) (*models.TableSession, error)
}

// Result is the outcome of one call. On success Err is nil and Session is
// the new state (nil for GetCurrent on an idle table). On a known business
// rejection Code is one of the rejection codes; on any other failure Code
// is empty and Err is the collaborator's error as-is.
type Result struct {
	Session *models.TableSession
	Code    string
	Err     error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Rejected reports whether the collaborator refused the call on a business
// rule, as opposed to failing.
func (r Result) Rejected() bool {
	return r.Code != ""
}

// Client issues exactly one remote call per operation. It never retries and
// never checks transitions locally.
type Client struct {
	remote Remote
}

func NewClient(remote Remote) *Client {
	return &Client{remote: remote}
}

// Open starts a session on a table. An existing non-closed session yields
// ActiveSessionExists so callers can redirect to it.
func (c *Client) Open(ctx context.Context, tableID string) Result {
	session, err := c.remote.OpenTableSession(ctx, tableID)
	return interpret("open", tableID, session, err)
}

func (c *Client) StartRundown(ctx context.Context, sessionID string) Result {
	session, err := c.remote.StartTableRundown(ctx, sessionID)
	return interpret("start_rundown", sessionID, session, err)
}

func (c *Client) Close(ctx context.Context, sessionID string, artifacts models.CloseArtifacts) Result {
	session, err := c.remote.CloseTableSession(ctx, sessionID, artifacts)
	return interpret("close", sessionID, session, err)
}

// GetCurrent returns the table's current session. No session is a
// successful result with a nil Session.
func (c *Client) GetCurrent(ctx context.Context, tableID string) Result {
	session, err := c.remote.GetCurrentTableSession(ctx, tableID)
	return interpret("get_current", tableID, session, err)
}

// RejectionCode extracts a rejection code from an error message, or "".
// The message is read as ": "-separated segments and a code only counts at
// the start of one, so an identifier that merely contains a code is not
// mistaken for a rejection.
func RejectionCode(err error) string {
	if err == nil {
		return ""
	}
	for _, segment := range strings.Split(err.Error(), ": ") {
		segment = strings.TrimSpace(segment)
		for _, code := range rejectionCodes {
			if strings.HasPrefix(segment, code) && !continuesWord(segment[len(code):]) {
				return code
			}
		}
	}
	return ""
}

func continuesWord(rest string) bool {
	if rest == "" {
		return false
	}
	c := rest[0]
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// EnvelopeCode maps a rejection code to the response envelope code.
func EnvelopeCode(code string) string {
	switch code {
	case ActiveSessionExists:
		return utils.CodeUniqueViolation
	case InvalidStateTransition, MissingClosingArtifact:
		return utils.CodePrecondition
	case SessionNotFound:
		return utils.CodeNotFound
	}
	return ""
}

func interpret(op, target string, session *models.TableSession, err error) Result {
	if err == nil {
		return Result{Session: session}
	}

	code := RejectionCode(err)
	if code == "" {
		return Result{Err: err}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"op":     op,
		"target": target,
		"code":   code,
	}).Info("table session call rejected")
	return Result{Code: code, Err: utils.NewAppError(EnvelopeCode(code), err.Error())}
}
