package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arnabAdhikary98/room-loop/internal/domain"
	"github.com/arnabAdhikary98/room-loop/internal/repository"
)

// UserService 处理用户资料和用户维度的房间查询。
type UserService struct {
	userRepo repository.UserRepository
	roomRepo repository.RoomRepository
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository, roomRepo repository.RoomRepository) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo, roomRepo: roomRepo}
}

// UpdateProfileInput 是资料更新的 patch。密码不在这里修改。
type UpdateProfileInput struct {
	Name  *string
	Image *string
}

// UserRooms 按用户视角划分的房间集合。
type UserRooms struct {
	Created       []domain.Room `json:"created"`
	Participating []domain.Room `json:"participating"`
}

// GetProfile 返回用户资料。
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.loadUser(ctx, userID)
}

// UpdateProfile 更新用户的名字和头像。
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Image != nil {
		user.Image = *in.Image
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to save profile update")
		return nil, ErrInternalServer
	}
	logCtx.Info("Profile updated")
	return user, nil
}

// GetUserRooms 返回用户创建的房间和作为参与者加入的房间，状态为派生值。
func (s *UserService) GetUserRooms(ctx context.Context, userID uint) (*UserRooms, error) {
	logCtx := logrus.WithField("user_id", userID)

	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	created, err := s.roomRepo.FindByCreator(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load created rooms")
		return nil, ErrInternalServer
	}
	participating, err := s.roomRepo.FindByParticipant(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load participating rooms")
		return nil, ErrInternalServer
	}

	now := time.Now()
	for i := range created {
		created[i].Status = created[i].DeriveStatus(now)
	}
	for i := range participating {
		participating[i].Status = participating[i].DeriveStatus(now)
	}
	if created == nil {
		created = []domain.Room{}
	}
	if participating == nil {
		participating = []domain.Room{}
	}
	return &UserRooms{Created: created, Participating: participating}, nil
}

func (s *UserService) loadUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", id).Error("Failed to load user")
		return nil, ErrInternalServer
	}
	return user, nil
}
