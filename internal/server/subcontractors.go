package server

import (
	"net/http"
	"strings"

	"subtrack/pkg/types"

	"github.com/alexedwards/flow"
)

type subcontractorRequest struct {
	BusinessName          string  `json:"businessName"`
	ContactFirstName      string  `json:"contactFirstName"`
	ContactLastName       string  `json:"contactLastName"`
	ContactEmail          string  `json:"contactEmail"`
	ContactPhone          *string `json:"contactPhone"`
	InsuranceContactName  *string `json:"insuranceContactName"`
	InsuranceContactEmail *string `json:"insuranceContactEmail"`
	InsuranceContactPhone *string `json:"insuranceContactPhone"`
	InsuranceAgencyName   *string `json:"insuranceAgencyName"`
}

func (s *Service) handleCreateSubcontractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req subcontractorRequest
	if err := s.readJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub := &types.Subcontractor{
		BusinessName:          strings.TrimSpace(req.BusinessName),
		ContactFirstName:      strings.TrimSpace(req.ContactFirstName),
		ContactLastName:       strings.TrimSpace(req.ContactLastName),
		ContactEmail:          types.NormalizeEmail(req.ContactEmail),
		ContactPhone:          trimmedPtr(req.ContactPhone),
		InsuranceContactName:  trimmedPtr(req.InsuranceContactName),
		InsuranceContactEmail: trimmedPtr(req.InsuranceContactEmail),
		InsuranceContactPhone: trimmedPtr(req.InsuranceContactPhone),
		InsuranceAgencyName:   trimmedPtr(req.InsuranceAgencyName),
	}

	if err := sub.Validate(); err != nil {
		s.respondServiceError(w, err)
		return
	}

	err := s.subsRepo.Create(ctx, sub)
	if err != nil {
		s.logger.WithError(err).Error("failed to create subcontractor")
		s.respondServiceError(w, err)
		return
	}

	s.respondData(w, http.StatusCreated, sub)
}

func (s *Service) handleListSubcontractors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subs, err := s.subsRepo.Subcontractors(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list subcontractors")
		s.respondServiceError(w, err)
		return
	}

	s.respondList(w, http.StatusOK, len(subs), subs)
}

func (s *Service) handleGetSubcontractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subcontractorID := flow.Param(ctx, "id")

	sub, err := s.subsRepo.Subcontractor(ctx, subcontractorID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, sub)
}

func (s *Service) handleUpdateSubcontractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subcontractorID := flow.Param(ctx, "id")

	var patch types.SubcontractorPatch
	if err := s.readJSON(r, &patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changes, err := patch.Changes()
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	err = s.subsRepo.UpdateFields(ctx, subcontractorID, changes)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	sub, err := s.subsRepo.Subcontractor(ctx, subcontractorID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, sub)
}

func (s *Service) handleDeleteSubcontractor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subcontractorID := flow.Param(ctx, "id")

	err := s.subsRepo.Delete(ctx, subcontractorID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondData(w, http.StatusOK, struct{}{})
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
