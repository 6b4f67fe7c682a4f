package orm

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	ormKit "github.com/superj80820/pharmacy-ocr/kit/orm"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
)

const tableName = "accounts"

type AccountEntity struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;size:255;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (AccountEntity) TableName() string {
	return tableName
}

func (a *AccountEntity) toDomain() *domain.Account {
	return &domain.Account{
		ID:        a.ID,
		Email:     a.Email,
		Password:  a.Password,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type accountRepo struct {
	orm *ormKit.DB
}

var _ domain.AccountRepo = (*accountRepo)(nil)

func CreateAccountRepo(orm *ormKit.DB) domain.AccountRepo {
	return &accountRepo{
		orm: orm,
	}
}

func (a *accountRepo) Create(ctx context.Context, email, hashedPassword string) (*domain.Account, error) {
	now := time.Now().UTC()
	account := AccountEntity{
		ID:        utilKit.GetSnowflakeIDInt64(),
		Email:     normalizeEmail(email),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.orm.WithContext(ctx).Create(&account).Error; errors.Is(err, ormKit.ErrDuplicatedKey) {
		return nil, errors.Wrap(domain.ErrDuplicate, "email already registered")
	} else if err != nil {
		return nil, errors.Wrap(err, "create account failed")
	}
	return account.toDomain(), nil
}

func (a *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	// SELECT * FROM accounts WHERE email = ? LIMIT 1
	sql, args, err := sq.
		Select("*").
		From(tableName).
		Where(sq.Eq{"email": normalizeEmail(email)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "to sql failed")
	}

	var accounts []*AccountEntity
	if err := a.orm.WithContext(ctx).Raw(sql, args...).Scan(&accounts).Error; err != nil {
		return nil, errors.Wrap(err, "query account failed")
	}
	if len(accounts) == 0 {
		return nil, errors.Wrap(domain.ErrNoData, "account not found")
	}
	return accounts[0].toDomain(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
