package models

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserCreate carries the registration form. The two password fields exist
// only for the registration request and are never persisted client-side.
type UserCreate struct {
	Username  string `json:"username" validate:"required,notblank"`
	Password1 string `json:"password1" validate:"required,min=4"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
	Email     string `json:"email" validate:"required,email"`
}

// UserLogin carries the login form.
type UserLogin struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the success shape of the login operation.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user"`
}
