package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/recipe-service/internal/core/domain"
)

func signupRequest() domain.SignupRequest {
	return domain.SignupRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.io",
		Gender:    "female",
		Password:  "pw1",
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u domain.NewUser) bool {
		return u.Email == "ann@x.io" &&
			u.FirstName == "Ann" &&
			!u.IsAPIUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw1")) == nil
	})).Return(int64(1), nil)

	s := NewAuthService(users, stubIssuer{})
	require.NoError(t, s.Signup(ctx, signupRequest()))
	users.AssertExpectations(t)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), fmt.Errorf("email: %w", domain.ErrDuplicate))

	s := NewAuthService(users, stubIssuer{})
	err := s.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_SignupStoreFailure(t *testing.T) {
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	s := NewAuthService(users, stubIssuer{})
	err := s.Signup(context.Background(), signupRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
}

func TestAuthService_SignupPasswordTooLong(t *testing.T) {
	users := new(mockUserRepo)

	req := signupRequest()
	req.Password = strings.Repeat("p", MaxPasswordBytes+8)

	s := NewAuthService(users, stubIssuer{})
	err := s.Signup(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SigninPasswordTooLong(t *testing.T) {
	users := new(mockUserRepo)

	s := NewAuthService(users, stubIssuer{token: "signed"})
	token, err := s.Signin(context.Background(), domain.SigninRequest{
		Email:    "ann@x.io",
		Password: strings.Repeat("p", MaxPasswordBytes+8),
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestDummyPasswordHash(t *testing.T) {
	cost, err := bcrypt.Cost(dummyPasswordHash())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost, "unknown emails must cost as much as a real check")
	assert.Same(t, &dummyPasswordHash()[0], &dummyPasswordHash()[0], "hash is generated once")
}

func TestAuthService_Signin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)
	row := &domain.UserRow{ID: 7, Email: "ann@x.io", PasswordHash: string(hash)}

	tests := []struct {
		name      string
		email     string
		password  string
		row       *domain.UserRow
		lookupErr error
		wantToken string
		wantErr   error
	}{
		{name: "valid credentials", email: "ann@x.io", password: "pw1", row: row, wantToken: "signed"},
		{name: "wrong password", email: "ann@x.io", password: "nope", row: row, wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "bob@x.io", password: "pw1", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepo)
			users.On("GetByEmail", mock.Anything, tt.email).Return(tt.row, tt.lookupErr)

			s := NewAuthService(users, stubIssuer{token: "signed"})
			token, err := s.Signin(context.Background(), domain.SigninRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuthService_SigninLookupFailure(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "ann@x.io").Return(nil, errors.New("db down"))

	s := NewAuthService(users, stubIssuer{token: "signed"})
	_, err := s.Signin(context.Background(), domain.SigninRequest{Email: "ann@x.io", Password: "pw1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SignupSigninRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepo)

	var stored domain.NewUser
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(domain.NewUser) }).
		Return(int64(5), nil)

	tokens := NewTokenService("secret", time.Hour)
	s := NewAuthService(users, tokens)
	require.NoError(t, s.Signup(ctx, signupRequest()))

	users.On("GetByEmail", mock.Anything, "ann@x.io").Return(&domain.UserRow{
		ID:           5,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
	}, nil)

	token, err := s.Signin(ctx, domain.SigninRequest{Email: "ann@x.io", Password: "pw1"})
	require.NoError(t, err)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), userID)
}
