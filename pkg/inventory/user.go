package inventory

import (
	"fmt"

	"github.com/getmockd/recstore/pkg/bulk"
	"github.com/getmockd/recstore/pkg/stateful"
	"github.com/getmockd/recstore/pkg/validation"
)

// User is an account. Username is unique among stored users.
type User struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	IsActive bool    `json:"is_active"`
}

func (u User) GetID() int { return u.ID }

func (u User) WithID(id int) User {
	u.ID = id
	return u
}

// UserInput is the body of POST /users.
type UserInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// UserPatch is the body of PUT /users/{id}. Nil fields are left alone,
// except Phone, which is cleared when the key is present as null.
type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

const (
	msgInvalidUser      = "Invalid user. 'username' and 'email' are required strings."
	msgInvalidUserPatch = "Invalid user update."
	msgInvalidStatus    = "Field 'is_active' is required and must be a boolean."
	msgUsersNotAList    = "Request body must be a JSON array of users."
)

var userSchema = validation.MustCompile("user", msgInvalidUser, `{
	"type": "object",
	"required": ["username", "email"],
	"properties": {
		"username":  {"type": "string"},
		"email":     {"type": "string"},
		"phone":     {"type": ["string", "null"]},
		"is_active": {"type": "boolean"}
	}
}`)

var userPatchSchema = validation.MustCompile("user-patch", msgInvalidUserPatch, `{
	"type": "object",
	"properties": {
		"username":  {"type": "string"},
		"email":     {"type": "string"},
		"phone":     {"type": ["string", "null"]},
		"is_active": {"type": "boolean"}
	}
}`)

var statusSchema = validation.MustCompile("user-status", msgInvalidStatus, `{
	"type": "object",
	"required": ["is_active"],
	"properties": {
		"is_active": {"type": "boolean"}
	}
}`)

// UserService holds the user store.
type UserService struct {
	store *stateful.Store[User]
}

// NewUserService creates a service with an empty store. obs may be nil.
func NewUserService(obs stateful.Observer) *UserService {
	return &UserService{
		store: stateful.New[User]("user",
			stateful.WithUnique("username", func(u User) string { return u.Username }),
			stateful.WithObserver[User](obs),
		),
	}
}

// Create validates body and stores a new user. IsActive defaults to true.
// A taken username yields *stateful.ConflictError.
func (s *UserService) Create(body map[string]any) (User, error) {
	var in UserInput
	if err := userSchema.Bind(body, &in); err != nil {
		return User{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.store.Create(User{
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		IsActive: active,
	})
}

// CreateBulk creates every valid candidate. Usernames already stored or
// taken by an earlier candidate fail the same way as invalid candidates.
func (s *UserService) CreateBulk(candidates []any) bulk.Result[User] {
	return bulk.Run(candidates, func(c any) (User, error) {
		body, ok := c.(map[string]any)
		if !ok {
			return User{}, validation.NewError(msgInvalidUser)
		}
		return s.Create(body)
	})
}

// List returns every user in creation order.
func (s *UserService) List() []User {
	return s.store.List()
}

// Get returns the user with the given id.
func (s *UserService) Get(id int) (User, error) {
	u, ok := s.store.Get(id)
	if !ok {
		return User{}, &stateful.NotFoundError{Resource: "user", ID: id}
	}
	return u, nil
}

// Update merges the fields present in body into the user. Username
// uniqueness is not rechecked.
func (s *UserService) Update(id int, body map[string]any) (User, error) {
	var p UserPatch
	if err := userPatchSchema.Bind(body, &p); err != nil {
		return User{}, err
	}
	_, phoneSet := body["phone"]

	return s.store.Update(id, func(cur User) User {
		if p.Username != nil {
			cur.Username = *p.Username
		}
		if p.Email != nil {
			cur.Email = *p.Email
		}
		if phoneSet {
			cur.Phone = p.Phone
		}
		if p.IsActive != nil {
			cur.IsActive = *p.IsActive
		}
		return cur
	})
}

// UpdateStatus replaces only is_active. body must hold a boolean "is_active".
func (s *UserService) UpdateStatus(id int, body map[string]any) (User, error) {
	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := statusSchema.Bind(body, &in); err != nil {
		return User{}, err
	}
	return s.store.Update(id, func(cur User) User {
		cur.IsActive = in.IsActive
		return cur
	})
}

// Delete removes the user with the given id and returns it.
func (s *UserService) Delete(id int) (User, error) {
	return s.store.Delete(id)
}

// DeleteAll removes every user and returns how many were removed.
func (s *UserService) DeleteAll() int {
	return s.store.Clear()
}

// Seed creates users from configuration. The first invalid or duplicate
// entry aborts seeding with its index.
func (s *UserService) Seed(records []map[string]any) error {
	for i, rec := range records {
		body, err := validation.Normalize(rec)
		if err != nil {
			return fmt.Errorf("user seed %d: %w", i, err)
		}
		if _, err := s.Create(body); err != nil {
			return fmt.Errorf("user seed %d: %w", i, err)
		}
	}
	return nil
}
