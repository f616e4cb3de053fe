package server

import (
	"encoding/json"
	"net/http"
)

// handleNews serves the cached market headlines
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Feed.Latest())
}

// handleGetCredentials returns the stored provider settings
func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := s.deps.Credentials.Get()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load credentials")
		s.writeError(w, http.StatusInternalServerError, "failed to load credentials")
		return
	}
	s.writeJSON(w, http.StatusOK, creds)
}

// handleUpdateCredentials replaces the stored provider settings.
// Partial bodies merge over the current values, so the settings page
// can save one section at a time.
func (s *Server) handleUpdateCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := s.deps.Credentials.Get()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load credentials")
		s.writeError(w, http.StatusInternalServerError, "failed to load credentials")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Credentials.Save(creds); err != nil {
		s.log.Error().Err(err).Msg("Failed to save credentials")
		s.writeError(w, http.StatusInternalServerError, "failed to save credentials")
		return
	}

	s.writeJSON(w, http.StatusOK, creds)
}

// handleGetProfile returns the demo user's profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Profile.Get()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load profile")
		s.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// handleUpdateProfile merges the body over the stored profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Profile.Get()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load profile")
		s.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Profile.Save(p); err != nil {
		s.log.Error().Err(err).Msg("Failed to save profile")
		s.writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	s.writeJSON(w, http.StatusOK, p)
}
