package health

import "time"

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status string    `json:"status" example:"OK" doc:"Состояние сервиса"`
	Time   time.Time `json:"time" doc:"Время сервера"`
}
