package auth

import (
	"context"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
)

const (
	tokenType         = "bearer"
	minPasswordLength = 8
)

type authUseCase struct {
	accountRepo       domain.AccountRepo
	secret            []byte
	accessTokenExpire time.Duration
	logger            *loggerKit.Logger
	now               func() time.Time
}

var _ domain.AuthUseCase = (*authUseCase)(nil)

type Option func(*authUseCase)

func WithClock(now func() time.Time) Option {
	return func(a *authUseCase) {
		a.now = now
	}
}

func CreateAuthUseCase(accountRepo domain.AccountRepo, secret string, accessTokenExpire time.Duration, logger *loggerKit.Logger, options ...Option) (domain.AuthUseCase, error) {
	if accountRepo == nil || logger == nil {
		return nil, errors.New("create auth use case failed, missing dependency")
	}
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if accessTokenExpire <= 0 {
		return nil, errors.Errorf("access token expire must be positive, got: %s", accessTokenExpire)
	}
	a := &authUseCase{
		accountRepo:       accountRepo,
		secret:            []byte(secret),
		accessTokenExpire: accessTokenExpire,
		logger:            logger,
		now:               time.Now,
	}
	for _, option := range options {
		option(a)
	}
	return a, nil
}

func (a *authUseCase) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	if len(password) < minPasswordLength {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(errors.New("password too short"))
	}

	hash, err := utilKit.GetBcrypt(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password failed")
	}

	account, err := a.accountRepo.Create(ctx, email, hash)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, code.CreateErrorCode(http.StatusConflict).AddCode(code.Duplicate).AddErrorMetaData(err)
	} else if err != nil {
		return nil, errors.Wrap(err, "create account failed")
	}

	a.logger.Info("account registered", loggerKit.Int64("account_id", account.ID))

	return account, nil
}

func (a *authUseCase) Login(ctx context.Context, email, password string) (*domain.AccessToken, error) {
	account, err := a.accountRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNoData) {
		return nil, code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.PasswordInvalid)
	} else if err != nil {
		return nil, errors.Wrap(err, "get account failed")
	}

	if err := utilKit.CompareBcrypt([]byte(account.Password), []byte(password)); err != nil {
		return nil, code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.PasswordInvalid)
	}

	now := a.now()
	expireAt := now.Add(a.accessTokenExpire)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(account.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expireAt),
	})
	signedToken, err := token.SignedString(a.secret)
	if err != nil {
		return nil, errors.Wrap(err, "signed access token failed")
	}

	return &domain.AccessToken{
		AccessToken: signedToken,
		TokenType:   tokenType,
		ExpireAt:    expireAt,
	}, nil
}

// Verify returns the account id carried by the token subject.
func (a *authUseCase) Verify(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", code.CreateErrorCode(http.StatusUnauthorized)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.Expired).AddErrorMetaData(err)
	} else if err != nil {
		return "", code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.PasswordInvalid).AddErrorMetaData(err)
	}
	if claims.Subject == "" {
		return "", code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.PasswordInvalid)
	}

	return claims.Subject, nil
}
