package profile

import "paintpro/internal/domain/profile"

type listOutput struct {
	Body profile.ListResponse
}

type loginInput struct {
	Body profile.LoginRequest
}

type loginOutput struct {
	Body profile.LoginResponse
}

type changePinInput struct {
	Body profile.ChangePinRequest
}

type createInput struct {
	Body profile.CreateRequest
}

type createOutput struct {
	Body profile.Profile
}

type deleteInput struct {
	ID string `path:"id" example:"user_3f2a9c1b7d4e" doc:"ID профиля"`
}
