package service

import (
	"context"
	"errors"
	"strings"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
	"Blog_Backend/internal/repository/redis"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const captchaLength = 4

type AuthService struct {
	users   *mysql.UserRepository
	tokens  *redis.TokenRepository
	captcha *redis.CaptchaRepository
	emails  *redis.EmailRepository
	mailer  pkg.Mailer
	log     *logrus.Entry
}

type AuthDeps struct {
	Users   *mysql.UserRepository
	Tokens  *redis.TokenRepository
	Captcha *redis.CaptchaRepository
	Emails  *redis.EmailRepository
	Mailer  pkg.Mailer
}

func NewAuthService(d AuthDeps, log *logrus.Logger) *AuthService {
	return &AuthService{
		users:   d.Users,
		tokens:  d.Tokens,
		captcha: d.Captcha,
		emails:  d.Emails,
		mailer:  d.Mailer,
		log:     log.WithField("component", "auth"),
	}
}

type Captcha struct {
	CaptchaID string `json:"captchaId"`
	SVG       string `json:"svg"`
}

type LoginInput struct {
	Username  string
	Password  string
	CaptchaID string
	Code      string
}

type LoginResult struct {
	pkg.Pair
	User *model.User `json:"user"`
}

func (s *AuthService) NewCaptcha(ctx context.Context) (*Captcha, error) {
	text, err := pkg.RandCaptchaText(captchaLength)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.captcha.Set(ctx, id, text); err != nil {
		return nil, err
	}
	return &Captcha{CaptchaID: id, SVG: pkg.CaptchaSVG(text)}, nil
}

// verifyCaptcha 缺失、过期、错误都视为未授权
func (s *AuthService) verifyCaptcha(ctx context.Context, id, code string) error {
	if id == "" || strings.TrimSpace(code) == "" {
		return ErrCaptchaInvalid
	}
	ok, err := s.captcha.Verify(ctx, id, code)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return ErrCaptchaExpired
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.verifyCaptcha(ctx, in.CaptchaID, in.Code); err != nil {
		return nil, err
	}
	user, err := s.users.FindByLogin(ctx, in.Username)
	if errors.Is(err, mysql.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user logged in")
	return &LoginResult{Pair: *pair, User: user}, nil
}

// issue 签发令牌并覆盖缓存中的会话，旧令牌随之失效
func (s *AuthService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := pkg.GeneratePair(user.ID, user.Account)
	if err != nil {
		return nil, err
	}
	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}
	err = s.tokens.Save(ctx, redis.Session{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RoleCode:     roleCode,
		AccessTTL:    pkg.AccessTTL,
		RefreshTTL:   pkg.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh refresh token 必须与缓存一致，成功后两个令牌一起轮换
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := pkg.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrTokenRevoked
	}
	stored, err := s.tokens.RefreshToken(ctx, claims.UserID)
	if errors.Is(err, redis.ErrKeyNotFound) || (err == nil && stored != refreshToken) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, mysql.ErrNotFound) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.tokens.Revoke(ctx, userID)
}

// ChangePassword 修改成功后强制重新登录
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return badRequest("新密码不能为空")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return mapRepoError(err, "用户")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return badRequest("原密码错误")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return mapRepoError(err, "用户")
	}
	return s.tokens.Revoke(ctx, userID)
}

func (s *AuthService) SendResetCode(ctx context.Context, email string) error {
	if email == "" {
		return badRequest("邮箱不能为空")
	}
	_, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, mysql.ErrNotFound) {
		// 不暴露邮箱是否已注册
		s.log.WithField("email", email).Warn("reset code requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err := s.emails.SetResetCode(ctx, email, code); err != nil {
		return err
	}
	body := pkg.EmailCodeHTML("重置密码", code, redis.DefaultEmailCodeTTL)
	if err := s.mailer.Send(email, "重置密码验证码", body); err != nil {
		s.log.WithError(err).WithField("email", email).Error("send reset code failed")
		return err
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return badRequest("新密码不能为空")
	}
	ok, err := s.emails.ConsumeResetCode(ctx, email, code)
	if errors.Is(err, redis.ErrKeyNotFound) || (err == nil && !ok) {
		return ErrEmailCodeInvalid
	}
	if err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return mapRepoError(err, "用户")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return mapRepoError(err, "用户")
	}
	return s.tokens.Revoke(ctx, user.ID)
}

func hashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LogMailer 未配置 SMTP 时把邮件写进日志
type LogMailer struct {
	Log *logrus.Logger
}

func (m LogMailer) Send(to, subject, htmlBody string) error {
	m.Log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info(htmlBody)
	return nil
}
