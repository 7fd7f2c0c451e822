// Package domain contains core business types and interfaces.
//
// This file defines the User domain type and session types for
// authentication. Domain types are kept separate from repository row types
// so business logic never depends on database representations.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered tenant of the platform.
//
// The per-category usage counters are a best-effort display cache; the
// accounting layer always recomputes actual usage from live rows before
// making an allow/deny decision.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // Never expose this in API responses
	Name         string
	Role         Role
	Plan         Plan
	Banned       bool // Soft ban; users are never hard-deleted

	// Cached usage counters, refreshed on each successful TrackUsage.
	CachedUsage UsageCounters

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the user's name or email if name is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// UsageCounters holds the cached per-category usage counts stored on the
// user row.
type UsageCounters struct {
	Projects    int64 `json:"projects"`
	Submissions int64 `json:"submissions"`
	SEOTools    int64 `json:"seoTools"`
	Backlinks   int64 `json:"backlinks"`
	Reports     int64 `json:"reports"`
}

// Set updates the counter for a category.
func (c *UsageCounters) Set(category UsageCategory, value int64) {
	switch category {
	case CategoryProjects:
		c.Projects = value
	case CategorySubmissions:
		c.Submissions = value
	case CategorySEOTools:
		c.SEOTools = value
	case CategoryBacklinks:
		c.Backlinks = value
	case CategoryReports:
		c.Reports = value
	}
}

// Session represents an authenticated session.
//
// Sessions are stored with a hashed token. The raw token is only given to
// the client once, at login.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RegisterParams contains the validated parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string // Raw password, hashed by the service
	Name     string
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	User  *User
	Token string // Raw session token (not hashed), returned once
}
