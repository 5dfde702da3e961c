package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/anyproto/any-sync/app"
	"google.golang.org/api/option"
)

const CName = "notify.auth"

var ErrUnauthenticated = errors.New("unauthenticated")

type Config struct {
	CredentialsFile string `yaml:"credentialsFile"`
}

type configSource interface {
	GetAuth() Config
}

func New() Auth {
	return new(authService)
}

// Auth verifies end-user identity tokens for client-callable operations.
type Auth interface {
	VerifyToken(ctx context.Context, idToken string) (userId string, err error)
	app.Component
}

type authService struct {
	client *fbauth.Client
}

func (s *authService) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetAuth()
	opt := option.WithCredentialsFile(conf.CredentialsFile)
	fbApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return err
	}
	s.client, err = fbApp.Auth(context.Background())
	return
}

func (s *authService) Name() (name string) {
	return CName
}

func (s *authService) VerifyToken(ctx context.Context, idToken string) (userId string, err error) {
	if idToken == "" {
		return "", ErrUnauthenticated
	}
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return token.UID, nil
}
