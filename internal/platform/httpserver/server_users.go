package httpserver

import (
	"net/http"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req httptransport.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req httptransport.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req httptransport.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.RefreshHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	resp, err := s.tasks.Handler.ListUsersHandler(r.Context(), listRequest(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	resp, err := s.tasks.Handler.GetUserHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	var req httptransport.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.UpdateUserHandler(r.Context(), actor, r.PathValue("user_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	if err := s.tasks.Handler.DeleteUserHandler(r.Context(), actor, r.PathValue("user_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func listRequest(r *http.Request) httptransport.ListRequest {
	query := r.URL.Query()
	return httptransport.ListRequest{
		Skip:  query.Get("skip"),
		Limit: query.Get("limit"),
	}
}
