package authService

import (
	"context"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/auth"
	authRepository "portfolio/internal/api/auth/repository"
	"portfolio/internal/entity"
	"portfolio/pkg/bcrypt"
	"portfolio/pkg/redis"
	"portfolio/pkg/session"
	"portfolio/pkg/utils"
)

type AuthService interface {
	Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	Logout(c context.Context, admin entity.AdminLoginData) error
	CurrentSession(c context.Context, admin entity.AdminLoginData) (auth.CurrentSessionResponse, error)
	Subscribe(admin entity.AdminLoginData, listener session.Listener) func()
	EnsureAdmin(c context.Context, email, password string) error
}

type authService struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	sessions    redis.IRedis
	hub         *session.Hub
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	authRepo authRepository.Repository,
	sessions redis.IRedis,
	hub *session.Hub,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:         log,
		repo:        authRepo,
		sessions:    sessions,
		hub:         hub,
		bcryptUtils: bcryptUtils,
		utils:       utils,
	}
}
