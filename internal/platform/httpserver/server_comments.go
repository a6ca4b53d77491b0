package httpserver

import (
	"net/http"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
)

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	var req httptransport.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.CreateCommentHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	req := httptransport.ListCommentsRequest{
		ListRequest: listRequest(r),
		TaskID:      r.URL.Query().Get("task_id"),
	}
	resp, err := s.tasks.Handler.ListCommentsHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request, _ entities.Identity) {
	resp, err := s.tasks.Handler.GetCommentHandler(r.Context(), r.PathValue("comment_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	var req httptransport.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tasks.Handler.UpdateCommentHandler(r.Context(), actor, r.PathValue("comment_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, actor entities.Identity) {
	if err := s.tasks.Handler.DeleteCommentHandler(r.Context(), actor, r.PathValue("comment_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
