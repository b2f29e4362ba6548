package identity

import (
	"context"
	"errors"

	identitydomain "band-manager-go/internal/domain/identity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	if err := r.loadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	var user identitydomain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("id NOT IN (?)", r.db.Table("guardian_links").Select("child_id")).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identitydomain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]identitydomain.User, error) {
	var users []identitydomain.User
	if err := r.db.WithContext(ctx).Order("full_name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return r.loadRolesAll(ctx, users)
}

func (r *PostgresRepository) ListUsersWithGuardians(ctx context.Context) ([]identitydomain.User, error) {
	var users []identitydomain.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("join guardian_links on guardian_links.child_id = users.id").
		Order("users.full_name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return r.loadRolesAll(ctx, users)
}

func (r *PostgresRepository) ListChildrenOfParent(ctx context.Context, parentID string) ([]identitydomain.User, error) {
	var users []identitydomain.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("join guardian_links on guardian_links.child_id = users.id").
		Where("guardian_links.parent_id = ?", parentID).
		Order("users.full_name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return r.loadRolesAll(ctx, users)
}

func (r *PostgresRepository) ListUsersByRole(ctx context.Context, role string) ([]identitydomain.User, error) {
	var users []identitydomain.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("join user_roles on user_roles.user_id = users.id").
		Where("user_roles.role = ?", role).
		Order("users.full_name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return r.loadRolesAll(ctx, users)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *PostgresRepository) AddRole(ctx context.Context, userID, role string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identitydomain.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&identitydomain.UserRole{UserID: userID, Role: role}).Error
}

func (r *PostgresRepository) RemoveRole(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Delete(&identitydomain.UserRole{}, "user_id = ? AND role = ?", userID, role).Error
}

func (r *PostgresRepository) GetGuardianLinkByChild(ctx context.Context, childID string) (*identitydomain.GuardianLink, error) {
	var link identitydomain.GuardianLink
	if err := r.db.WithContext(ctx).Where("child_id = ?", childID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrGuardianNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) CreateGuardianLink(ctx context.Context, link *identitydomain.GuardianLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) loadRoles(ctx context.Context, user *identitydomain.User) error {
	var roles []identitydomain.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&roles).Error; err != nil {
		return err
	}
	user.Roles = make([]string, 0, len(roles))
	for _, role := range roles {
		user.Roles = append(user.Roles, role.Role)
	}
	return nil
}

func (r *PostgresRepository) loadRolesAll(ctx context.Context, users []identitydomain.User) ([]identitydomain.User, error) {
	for i := range users {
		if err := r.loadRoles(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}
