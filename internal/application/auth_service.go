package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/dpalamar/contacts-api/config"
	"github.com/dpalamar/contacts-api/internal/domain/entity"
	repo "github.com/dpalamar/contacts-api/internal/domain/repository"
	"github.com/dpalamar/contacts-api/pkg/avatar"
	"github.com/dpalamar/contacts-api/pkg/helpers"
	"github.com/dpalamar/contacts-api/pkg/mailer"
	tpl "github.com/dpalamar/contacts-api/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailInUse         = errors.New("email in use")
	ErrAlreadyVerified    = errors.New("already verified")
)

const verificationTokenBytes = 24

// AuthService implements registration, email verification, login/logout,
// and avatar updates on top of the user repository.
type AuthService struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	Avatars   *avatar.Processor
	GCS       *storage.Client
	GCSBucket string
	Pub       *helpers.RabbitPublisher
	Logger    *logrus.Logger
	Cfg       *config.Config
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, av *avatar.Processor, gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		Repo:      r,
		JWT:       jwt,
		Avatars:   av,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Pub:       pub,
		Logger:    logger,
		Cfg:       cfg,
	}
}

// Register creates an unverified account and queues the verification email.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailInUse
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	token, err := helpers.GenVerificationToken(verificationTokenBytes)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:             email,
		Password:          hash,
		Subscription:      entity.SubscriptionStarter,
		AvatarURL:         helpers.GravatarURL(email),
		VerificationToken: token,
		Verify:            false,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(ctx, u)
	return u, nil
}

// VerifyEmail consumes a verification token, marking the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.Repo.GetByVerificationToken(token)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	u.Verify = true
	u.VerificationToken = ""
	return s.Repo.Update(u)
}

// ResendVerification regenerates the verification token for an unverified
// account and queues a fresh email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.Verify {
		return ErrAlreadyVerified
	}
	token, err := helpers.GenVerificationToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	u.VerificationToken = token
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	s.sendVerificationEmail(ctx, u)
	return nil
}

// Login checks credentials and verification state, then issues a session
// token and persists it on the user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !u.Verify {
		return nil, "", ErrEmailNotVerified
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, "", err
	}
	u.Token = token
	if err := s.Repo.Update(u); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout clears the stored session token so the presented token stops
// authorizing requests immediately.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	u.Token = ""
	return s.Repo.Update(u)
}

// UpdateAvatar normalizes the uploaded image, stores it under the user's
// deterministic filename, and returns the new avatar URL.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID string, r io.Reader, filename string) (string, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}

	ext := avatar.Ext(filename)
	data, err := s.Avatars.Process(r, ext)
	if err != nil {
		return "", err
	}
	name, err := s.Avatars.Store(u.ID, data, ext)
	if err != nil {
		return "", err
	}

	s.mirrorToGCS(ctx, name, data, ext)

	u.AvatarURL = path.Join(s.Cfg.AvatarsPath, name)
	if err := s.Repo.Update(u); err != nil {
		return "", err
	}
	return u.AvatarURL, nil
}

func (s *AuthService) mirrorToGCS(ctx context.Context, name string, data []byte, ext string) {
	if s.GCS == nil || s.GCSBucket == "" {
		return
	}
	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}
	objectPath := "avatars/" + name
	if _, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, bytes.NewReader(data)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Warn("gcs avatar mirror failed")
	}
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyEmail,
		Data: map[string]any{
			"Email":      u.Email,
			"VerifyLink": s.Cfg.VerifyLink(u.VerificationToken),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", u.Email).Warn("publish verification email failed")
	}
}
