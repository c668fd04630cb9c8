package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
	c "taskhive/internal/core/domain/common"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, input SetPasswordInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == input.UserID {
			if u.PasswordHash != input.CurrentHash {
				return ErrCredentialConflict
			}
			r.Users[ix].PasswordHash = input.NewHash
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakeSessionRepository struct {
	UserIDByToken  map[SessionToken]ID
	UserRepository UserRepository
}

func NewFakeSessionRepository(userRepository UserRepository) *FakeSessionRepository {
	return &FakeSessionRepository{
		UserIDByToken:  make(map[SessionToken]ID),
		UserRepository: userRepository,
	}
}

func (r *FakeSessionRepository) GetUserByToken(ctx context.Context, token SessionToken) (u User, err error) {
	userID, ok := r.UserIDByToken[token]
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.UserRepository.GetByID(ctx, userID)
}

type FakePasswordResetTokenSender struct {
	Sent        []SentResetToken
	ReturnError bool
	lock        sync.Mutex
}

type SentResetToken struct {
	User  User
	Token PasswordResetToken
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendToken(ctx context.Context, user User, token PasswordResetToken) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token for user %v", user)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentResetToken{User: user, Token: token})
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakePasswordResetTokenSender) LastSent() SentResetToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakePasswordResetter struct {
	Token         PasswordResetToken
	UserID        ID
	IsUserIDValid bool
	IsValid       bool
	ReturnError   bool
}

func NewFakePasswordResetter(token string, userID ID, isUserIDValid bool, isValid bool) *FakePasswordResetter {
	return &FakePasswordResetter{
		Token:         PasswordResetToken(token),
		UserID:        userID,
		IsUserIDValid: isUserIDValid,
		IsValid:       isValid,
	}
}

func (r *FakePasswordResetter) GenerateToken(user User) (PasswordResetToken, error) {
	if r.ReturnError {
		return "", fmt.Errorf("could not generate password reset token for user %d", user.ID)
	}
	return r.Token, nil
}

func (r *FakePasswordResetter) GetUserID(token PasswordResetToken) (ID, bool) {
	return r.UserID, r.IsUserIDValid
}

func (r *FakePasswordResetter) ValidateToken(user User, token PasswordResetToken) bool {
	return r.IsValid
}

type FakeCredentialEventPublisher struct {
	Published   []CredentialRotation
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeCredentialEventPublisher() *FakeCredentialEventPublisher {
	return &FakeCredentialEventPublisher{}
}

func (p *FakeCredentialEventPublisher) PublishRotation(ctx context.Context, event CredentialRotation) error {
	if p.ReturnError {
		return fmt.Errorf("could not publish rotation event for user %d", event.UserID)
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.Published = append(p.Published, event)
	return nil
}

func (p *FakeCredentialEventPublisher) PublishedCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.Published)
}
