package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"samurai/internal/app/apperr"
	"samurai/internal/app/ds"
	"samurai/internal/app/role"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: пользователь %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: пользователь %q", apperr.ErrNotFound, login)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(login, password, email, fullName string, userRole role.Role) (*ds.User, error) {
	exists, err := r.UserExistsByLogin(login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: логин %q уже занят", apperr.ErrValidation, login)
	}

	user := ds.User{
		Login:    login,
		Password: password,
		Email:    email,
		FullName: fullName,
		Role:     int(userRole),
	}

	err = r.db.Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) ListUsers() ([]ds.User, int64, error) {
	var users []ds.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	admins, err := r.CountAdmins()
	if err != nil {
		return nil, 0, err
	}

	return users, admins, nil
}

func (r *Repository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("role = ?", int(role.Admin)).Count(&count).Error
	return count, err
}

// UpdateUser изменяет профиль и роль. Снять роль с последнего
// администратора нельзя — в системе всегда остаётся хотя бы один
func (r *Repository) UpdateUser(id uint, email, fullName, password *string, newRole *role.Role) error {
	user, err := r.GetUserByID(id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if email != nil {
		updates["email"] = *email
	}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if password != nil {
		updates["password"] = *password
	}
	if newRole != nil && int(*newRole) != user.Role {
		if user.Role == int(role.Admin) && *newRole != role.Admin {
			admins, err := r.CountAdmins()
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("%w: нельзя снять роль с последнего администратора", apperr.ErrValidation)
			}
		}
		updates["role"] = int(*newRole)
	}

	if len(updates) == 0 {
		return nil
	}

	return r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteUser удаляет пользователя. Последний администратор защищён
func (r *Repository) DeleteUser(id uint) error {
	user, err := r.GetUserByID(id)
	if err != nil {
		return err
	}

	if user.Role == int(role.Admin) {
		admins, err := r.CountAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("%w: нельзя удалить последнего администратора", apperr.ErrValidation)
		}
	}

	return r.db.Delete(&ds.User{}, id).Error
}

func (r *Repository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&ds.User{}).Where("id = ?", id).Update("last_login", &now).Error
}
