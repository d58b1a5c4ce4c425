package server

import (
	"net/http"
)

func (s *Server) GetTeammates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := viewer(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teammates, err := s.reviews.Teammates(ctx, v, activityID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, teammates)
}

func (s *Server) GetWorkgroupsToReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := viewer(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groups, err := s.reviews.WorkgroupsToReview(ctx, v, activityID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, groups)
}

func (s *Server) GetReviewers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	groupID, err := pathParam[int](r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	reviewers, err := s.reviews.Reviewers(ctx, activityID, groupID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, reviewers)
}

func (s *Server) GetPeerReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	peerID, err := queryParam[int](r, "peer_id", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	answers, err := s.reviews.PeerReview(ctx, params.viewer, params.activityID, params.stageID, peerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, answersResponse{Answers: answers})
}

func (s *Server) PostPeerReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	peerID, err := queryParam[int](r, "peer_id", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req answersRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err = s.reviews.SubmitPeerReview(ctx, params.viewer, params.activityID, params.stageID, peerID, req.Answers)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetGroupReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	groupID, err := queryParam[int](r, "group_id", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	answers, err := s.reviews.GroupReview(ctx, params.viewer, params.activityID, params.stageID, groupID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, answersResponse{Answers: answers})
}

func (s *Server) PostGroupReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	groupID, err := queryParam[int](r, "group_id", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req answersRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err = s.reviews.SubmitGroupReview(ctx, params.viewer, params.activityID, params.stageID, groupID, req.Answers)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
