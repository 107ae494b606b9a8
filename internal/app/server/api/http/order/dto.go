package order

import "paintpro/internal/domain/order"

type listInput struct {
	Order string `query:"order" enum:"asc,desc" default:"desc" doc:"Порядок по времени создания"`
}

type listOutput struct {
	Body order.ListResponse
}

type createInput struct {
	Body order.CreateRequest
}

type orderOutput struct {
	Body order.Wire
}

type updateInput struct {
	ID   string `path:"id" doc:"Постоянный ID заказа"`
	Body order.PatchRequest
}

type deleteInput struct {
	ID string `path:"id" doc:"Постоянный ID заказа"`
}
