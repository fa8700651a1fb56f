package store

import (
	"github.com/hkm/sadhana/internal/models"
)

func (s *Store) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *Store) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *Store) UserByID(id uint) (models.User, error) {
	var u models.User
	err := s.db.First(&u, id).Error
	return u, err
}

func (s *Store) UserByUsername(username string) (models.User, error) {
	var u models.User
	err := s.db.Where("username = ?", username).First(&u).Error
	return u, err
}

// UserByQRToken resolves an active user from a quick-entry token. Inactive
// accounts are indistinguishable from unknown tokens.
func (s *Store) UserByQRToken(token string) (models.User, error) {
	var u models.User
	err := s.db.Where("qr_token = ? AND active = ?", token, true).First(&u).Error
	return u, err
}

func (s *Store) UsernameTaken(username string) (bool, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (s *Store) EmailTaken(email string) (bool, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// Devotees lists non-admin users newest first, optionally narrowed by a
// case-insensitive search over username, name and email.
func (s *Store) Devotees(search string) ([]models.User, error) {
	q := s.db.Where("admin = ?", false)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
			like, like, like, like)
	}
	var out []models.User
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Store) DevoteeByID(id uint) (models.User, error) {
	var u models.User
	err := s.db.Where("id = ? AND admin = ?", id, false).First(&u).Error
	return u, err
}

func (s *Store) CountDevotees() (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("admin = ?", false).Count(&n).Error
	return n, err
}

// DeleteUser removes the account; weeks and activities cascade with it.
func (s *Store) DeleteUser(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}
