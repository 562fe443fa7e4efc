package models

// User is a row of the users table. Password holds whatever credential
// string was stored, usually a hash.
type User struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Name     string `db:"name"`
	Role     string `db:"role"`
}
