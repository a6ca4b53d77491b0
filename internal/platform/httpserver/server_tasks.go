package httpserver

import (
	"net/http"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	var req httptransport.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.CreateTaskHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	resp, err := s.tasks.Handler.ListTasksHandler(r.Context(), listRequest(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	resp, err := s.tasks.Handler.GetTaskHandler(r.Context(), r.PathValue("task_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	var req httptransport.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.UpdateTaskHandler(r.Context(), actor, r.PathValue("task_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	if err := s.tasks.Handler.DeleteTaskHandler(r.Context(), actor, r.PathValue("task_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
