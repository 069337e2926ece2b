package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// AuthService 处理注册和登录。
type AuthService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteTokenRepository
	roomRepo   repository.RoomRepository

	jwtSecret []byte
	jwtExpiry time.Duration
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteTokenRepository,
	roomRepo repository.RoomRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if inviteRepo == nil {
		panic("InviteTokenRepository cannot be nil for AuthService")
	}
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for AuthService")
	}
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for AuthService")
	}
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		roomRepo:   roomRepo,
		jwtSecret:  []byte(jwtSecret),
		jwtExpiry:  jwtExpiry,
	}
}

// SignupInput 是注册请求的输入。InviteToken 为空时是普通注册。
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	InviteToken string
}

// Signup 注册新用户。携带有效邀请令牌时，注册完成后消费令牌并把
// 新用户加入对应房间；令牌无效或过期不会让注册失败，只记日志。
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	logCtx := logrus.WithField("email", in.Email)

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Failed to check email uniqueness")
		return nil, "", ErrInternalServer
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password")
		return nil, "", ErrInternalServer
	}

	user := &domain.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		// 唯一索引兜底：预检查和写入之间可能并发注册同一邮箱
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, "", ErrEmailTaken
		}
		logCtx.WithError(err).Error("Failed to save new user")
		return nil, "", ErrInternalServer
	}

	if in.InviteToken != "" {
		s.consumeInviteToken(ctx, logCtx, user, in.InviteToken)
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT after signup")
		return nil, "", ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, token, nil
}

// Login 校验邮箱和密码，成功返回用户和 JWT。
// 邮箱不存在和密码错误返回同一个错误，避免泄露账号是否注册。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logCtx := logrus.WithField("email", email)

	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("Failed to load user during login")
		return nil, "", ErrInternalServer
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT")
		return nil, "", ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, token, nil
}

// consumeInviteToken 尽力消费注册时携带的邀请令牌。令牌必须未使用、
// 未过期且邮箱匹配，任何一步失败都只记日志，不影响已完成的注册。
func (s *AuthService) consumeInviteToken(ctx context.Context, logCtx *logrus.Entry, user *domain.User, rawToken string) {
	token, err := s.inviteRepo.FindByToken(ctx, rawToken)
	if err != nil {
		logCtx.WithError(err).Warn("Invite token not found during signup")
		return
	}
	if !token.IsUsable(time.Now()) {
		logCtx.Warn("Invite token expired or already used")
		return
	}
	if !strings.EqualFold(token.Email, user.Email) {
		logCtx.Warn("Invite token email does not match signup email")
		return
	}
	if err := s.inviteRepo.MarkUsed(ctx, token.ID); err != nil {
		logCtx.WithError(err).Error("Failed to mark invite token as used")
		return
	}
	if err := s.roomRepo.AddParticipant(ctx, token.RoomID, user.ID); err != nil {
		logCtx.WithError(err).WithField("room_id", token.RoomID).
			Error("Failed to add invited user to room")
		return
	}
	logCtx.WithField("room_id", token.RoomID).Info("Invite token consumed at signup")
}

func (s *AuthService) generateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
