package role

// Role описывает роль пользователя в системе
type Role int

const (
	Standard Role = iota // обычный пользователь
	Admin                // администратор
)

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	default:
		return "standard"
	}
}

// FromString возвращает роль по строковому значению (для API)
func FromString(s string) Role {
	if s == "admin" {
		return Admin
	}
	return Standard
}
