package user

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"bookshelf/internal/shared"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
}

func CreateUser(db *sql.DB, username, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	id := shared.GenerateID()
	if _, err := db.Exec(`INSERT INTO users(id, username, password_hash) VALUES(?,?,?)`,
		id, username, string(hash)); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return User{ID: id, Username: username, PasswordHash: string(hash)}, nil
}

func VerifyLogin(db *sql.DB, username, password string) (User, error) {
	var u User
	err := db.QueryRow(`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	return u, nil
}
