package user

// CreateUserDTO is the administrative user-creation payload. RoleName, when
// set, assigns an initial role in the same operation.
type CreateUserDTO struct {
	Username string                 `json:"username"`
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Phone    *string                `json:"phone"`
	Status   string                 `json:"status"`
	RoleName string                 `json:"role_name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
// Status is honored only for owner-role callers.
type UpdateUserDTO struct {
	Email    *string                `json:"email"`
	Phone    *string                `json:"phone"`
	Status   *string                `json:"status"`
	Metadata map[string]interface{} `json:"metadata"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateUserDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	switch d.Status {
	case "", "active", "inactive", "suspended":
	default:
		return ValidationError{Msg: "invalid status"}
	}
	return nil
}

func (d UpdateUserDTO) Validate() error {
	if d.Email == nil && d.Phone == nil && d.Status == nil && d.Metadata == nil {
		return ValidationError{Msg: "no fields to update"}
	}
	if d.Status != nil {
		switch *d.Status {
		case "active", "inactive", "suspended":
		default:
			return ValidationError{Msg: "invalid status"}
		}
	}
	return nil
}
