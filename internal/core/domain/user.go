package domain

// User is the signed-in reader or author held by the session store.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the login form input.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the registration form input. ConfirmPassword never leaves the
// forms layer.
type Profile struct {
	Name            string `json:"name"     validate:"required"`
	Email           string `json:"email"    validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-"        validate:"required,eqfield=Password"`
}
