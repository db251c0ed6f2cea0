package services

import (
	"canteen-pos/models"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(session models.Session) (string, error)
}

type SessionService struct {
	state  *State
	ledger Ledger
	tokens TokenIssuer
	logger *log.Logger
	now    func() time.Time
}

func NewSessionService(state *State, ledger Ledger, tokens TokenIssuer, logger *log.Logger) *SessionService {
	return &SessionService{
		state:  state,
		ledger: ledger,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Login checks the credentials against the ledger. A staff member with a
// single branch is logged in straight away; with several branches the login
// stays pending until SelectBranch.
func (s *SessionService) Login(ctx context.Context, staffID, pin string) (*models.LoginResult, error) {
	staffID = strings.TrimSpace(staffID)
	pin = strings.TrimSpace(pin)
	if staffID == "" || pin == "" {
		return nil, models.NewError(models.ErrValidation, "staff # and PIN are required")
	}

	s.state.mu.Lock()
	active := s.state.session != nil
	s.state.mu.Unlock()
	if active {
		return nil, models.NewError(models.ErrValidation, "a session is already active, log out first")
	}

	branches, err := s.ledger.StaffBranches(ctx, staffID, pin)
	if err != nil {
		s.logger.Printf("login failed for staff %s: %v", staffID, err)
		return nil, err
	}
	if len(branches) == 0 {
		return nil, models.NewError(models.ErrAuthentication, "no branches have been assigned to this staff member")
	}

	pending := &models.PendingLogin{
		StaffID:   staffID,
		StaffName: fmt.Sprintf("Staff #%s", staffID),
		Branches:  branches,
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.session != nil {
		return nil, models.NewError(models.ErrValidation, "a session is already active, log out first")
	}

	if len(branches) == 1 {
		return s.activateLocked(pending, branches[0])
	}

	s.state.pending = pending
	s.logger.Printf("staff %s has %d branches, awaiting branch selection", staffID, len(branches))
	return &models.LoginResult{
		Status:   models.LoginPendingBranch,
		Branches: branches,
	}, nil
}

// SelectBranch completes a pending multi-branch login.
func (s *SessionService) SelectBranch(branchID int64) (*models.LoginResult, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.pending == nil {
		return nil, models.NewError(models.ErrValidation, "no login is awaiting branch selection")
	}
	branch, ok := s.state.pending.Branch(branchID)
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "branch not found")
	}
	return s.activateLocked(s.state.pending, branch)
}

func (s *SessionService) activateLocked(pending *models.PendingLogin, branch models.Branch) (*models.LoginResult, error) {
	session := models.Session{
		ID:         uuid.NewString(),
		StaffID:    pending.StaffID,
		StaffName:  pending.StaffName,
		BranchID:   branch.ID,
		BranchName: branch.Name,
		StartedAt:  s.now(),
	}

	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.state.resetLocked()
	s.state.session = &session
	s.logger.Printf("staff %s logged in at branch %d (%s)", session.StaffID, branch.ID, branch.Name)

	return &models.LoginResult{
		Status:  models.LoginActive,
		Session: &session,
		Token:   token,
	}, nil
}

// Logout ends the session and clears the cart, checkout and in-memory
// catalog. Cached catalog snapshots are kept for the next login.
func (s *SessionService) Logout() error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.checkout.InProgress() {
		return models.NewError(models.ErrValidation, "checkout in progress")
	}
	if s.state.session != nil {
		s.logger.Printf("staff %s logged out", s.state.session.StaffID)
	}
	s.state.resetLocked()
	return nil
}

func (s *SessionService) Current() (models.Session, bool) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.session == nil {
		return models.Session{}, false
	}
	return *s.state.session, true
}

// IsCurrent reports whether sessionID belongs to the active session.
func (s *SessionService) IsCurrent(sessionID string) bool {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	return s.state.session != nil && s.state.session.ID == sessionID
}

func (s *SessionService) Pending() (models.PendingLogin, bool) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.pending == nil {
		return models.PendingLogin{}, false
	}
	return *s.state.pending, true
}
