package service

import (
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// GateRequest 口令门禁请求，trainee 为空表示使用主口令
type GateRequest struct {
	Password string `json:"password" validate:"required"`
	Trainee  string `json:"trainee"`
}

type GateResult struct {
	Token       string           `json:"token"`
	Role        model.AccessRole `json:"role"`
	TraineeSlug string           `json:"traineeSlug,omitempty"`
}

type AuthService struct {
	Content *content.Store
	Cfg     *config.Config
}

func NewAuthService(contentStore *content.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		Content: contentStore,
		Cfg:     cfg,
	}
}

// Unlock 校验口令并签发 JWT；主口令可访问全部学员
func (s *AuthService) Unlock(req GateRequest) (*GateResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if s.matches(s.Cfg.Gate.MasterPasswordHash, req.Password) {
		token, err := util.GenerateJWT(model.RoleMaster, "", s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
		if err != nil {
			return nil, err
		}
		return &GateResult{Token: token, Role: model.RoleMaster}, nil
	}

	if req.Trainee == "" {
		return nil, util.ErrInvalidPassword
	}
	trainee, err := s.Content.Current().Trainee(req.Trainee)
	if err != nil {
		return nil, util.ErrInvalidPassword
	}
	if !s.matches(s.Cfg.Gate.TraineePasswords[trainee.Slug], req.Password) {
		return nil, util.ErrInvalidPassword
	}

	token, err := util.GenerateJWT(model.RoleTrainee, trainee.Slug, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &GateResult{Token: token, Role: model.RoleTrainee, TraineeSlug: trainee.Slug}, nil
}

func (s *AuthService) matches(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword 生成配置文件使用的口令哈希
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
