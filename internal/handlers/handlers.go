package handlers

import (
	"github.com/kubev2v/parallel-queue/internal/services"
)

type Handler struct {
	queueSrv *services.QueueService
}

func New(queueSrv *services.QueueService) *Handler {
	return &Handler{
		queueSrv: queueSrv,
	}
}
