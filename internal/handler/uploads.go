package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/handler/gen"
)

// StartUpload handles POST /uploads.
// The upload runs in the background; the response is the pipeline state
// right after the run was claimed. A second request while a run is active
// returns 409 and starts nothing.
func (s *Server) StartUpload(ctx context.Context, req gen.StartUploadRequestObject) (gen.StartUploadResponseObject, error) {
	total := s.uploadTotal
	if req.Body != nil && req.Body.Total != nil {
		total = *req.Body.Total
	}
	if total < 0 || total > MaxUploadTotal {
		return gen.StartUpload422JSONResponse(requestBody(
			fmt.Sprintf("total must be between 0 and %d", MaxUploadTotal))), nil
	}

	task, err := s.session.StartUpload(total)
	if err != nil {
		if errors.Is(err, domain.ErrUploadInProgress) {
			return gen.StartUpload409JSONResponse(conflictBody("upload_in_progress", "an upload is already running")), nil
		}
		return nil, err
	}

	return gen.StartUpload202JSONResponse(uploadToResponse(task.Claimed())), nil
}

// GetCurrentUpload handles GET /uploads/current.
func (s *Server) GetCurrentUpload(ctx context.Context, _ gen.GetCurrentUploadRequestObject) (gen.GetCurrentUploadResponseObject, error) {
	return gen.GetCurrentUpload200JSONResponse(uploadToResponse(s.session.Upload())), nil
}

// uploadToResponse converts a domain.UploadProgress to the generated API response type.
func uploadToResponse(p domain.UploadProgress) gen.UploadState {
	out := gen.UploadState{
		Phase:         gen.UploadPhase(p.Phase),
		UploadedCount: p.Uploaded,
		TotalCount:    p.Total,
		Percent:       p.Percent,
		FailedBatches: p.FailedBatches,
		UpdatedAt:     p.At,
	}
	if id, err := uuid.Parse(p.RunID); err == nil {
		runID := openapi_types.UUID(id)
		out.RunId = &runID
	}
	if p.Outcome != nil {
		o := gen.UploadOutcome{Kind: gen.UploadOutcomeKind(p.Outcome.Kind)}
		if p.Outcome.FailedBatches > 0 {
			n := p.Outcome.FailedBatches
			o.FailedBatches = &n
		}
		if p.Outcome.Reason != "" {
			reason := p.Outcome.Reason
			o.Reason = &reason
		}
		out.Outcome = &o
	}
	return out
}
