package handlers

import "github.com/forgeboard/server/pkg/client"

func NewResponse(messages ...string) client.Response {
	return client.Response{
		Messages: messages,
	}
}
