package models

type ChatQuery struct {
	Message  string `json:"message" form:"message" validate:"required"`
	Language string `json:"language" form:"language"`
}

func (q *ChatQuery) Validate() error {
	return validate.Struct(q)
}

type ChatReply struct {
	Response string `json:"response"`
}
