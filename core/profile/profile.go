package profile

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var (
	// ErrNotFound is returned when a requested user profile does not exist.
	ErrNotFound = core.NewNotFoundError("user profile not found")
	// ErrExists is returned on an attempt to register a duplicate profile.
	ErrExists = core.NewConflictError("user profile already exists")
)

// Name is a user's structured name.
type Name struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	FullName   string `json:"fullName"`
}

// UserProfile is the global directory record for a user, shared by every
// course the user participates in.
type UserProfile struct {
	ID              string `json:"id"`
	Name            Name   `json:"name"`
	EmailAddress    string `json:"emailAddress"`
	PhotoURL        string `json:"photoUrl"`
	VerifiedTeacher bool   `json:"verifiedTeacher"`
}

// NewUserProfile builds a profile from its identity attributes, deriving the
// full name from the given and family names.
func NewUserProfile(id, givenName, familyName, email, photoURL string) UserProfile {
	givenName = core.CleanString(givenName)
	familyName = core.CleanString(familyName)
	return UserProfile{
		ID: id,
		Name: Name{
			GivenName:  givenName,
			FamilyName: familyName,
			FullName:   strings.TrimSpace(givenName + " " + familyName),
		},
		EmailAddress: core.CleanString(email, true),
		PhotoURL:     photoURL,
	}
}

// Repository persists user profiles.
type Repository interface {
	// CreateIfNotExists stores the profile unless one with the same id
	// already exists, in which case it reports ErrExists.
	CreateIfNotExists(p UserProfile) error
	GetByID(id string) (UserProfile, error)
	GetByEmail(email string) (UserProfile, error)
	Update(p UserProfile) (UserProfile, error)
}

type Service interface {
	Register(p UserProfile) (UserProfile, error)
	Get(id string) (UserProfile, error)
	GetByEmail(email string) (UserProfile, error)
}

type service struct {
	repo Repository
}

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(p UserProfile) (UserProfile, error) {
	if p.ID == "" {
		return UserProfile{}, core.NewValidationError(errors.New("profile id is required"))
	}
	if p.EmailAddress == "" {
		return UserProfile{}, core.NewValidationError(errors.New("profile emailAddress is required"))
	}
	if err := s.repo.CreateIfNotExists(p); err != nil {
		return UserProfile{}, err
	}
	return p, nil
}

func (s *service) Get(id string) (UserProfile, error) {
	return s.repo.GetByID(id)
}

func (s *service) GetByEmail(email string) (UserProfile, error) {
	return s.repo.GetByEmail(core.CleanString(email, true))
}
