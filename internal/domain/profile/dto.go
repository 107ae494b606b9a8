package profile

// LoginRequest - вход по PIN. ProfileID сужает поиск до одного профиля.
type LoginRequest struct {
	Pin       string `json:"pin" minLength:"1" maxLength:"8" doc:"PIN профиля"`
	ProfileID string `json:"profile_id,omitempty" doc:"Профиль, выбранный на экране входа"`
}

// LoginResponse содержит токен сессии и полный профиль вместе с хэшем PIN,
// чтобы клиент мог войти без сети.
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

type ChangePinRequest struct {
	OldPin string `json:"old_pin" minLength:"4" maxLength:"8"`
	NewPin string `json:"new_pin" minLength:"4" maxLength:"8"`
}

type ListResponse struct {
	Profiles []Profile `json:"profiles"`
}
