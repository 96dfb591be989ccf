package models

// User reprezentuje zalogowanego użytkownika (dane z Firebase Auth)
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Name zwraca nazwę do wyświetlenia, a gdy jej brak - email
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
