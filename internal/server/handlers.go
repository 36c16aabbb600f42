package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/api/generated"
	"github.com/dgnsrekt/catalog-stream/internal/catalog"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// maxBodyBytes bounds record request bodies.
const maxBodyBytes = 1 << 20

// Ensure Server implements StrictServerInterface
var _ generated.StrictServerInterface = (*Server)(nil)

// errorResponse is the body of errors written outside the generated
// handlers (validator, rate limiter, decode failures). It matches the
// Error schema.
type errorResponse struct {
	Error  string               `json:"error"`
	Fields []catalog.FieldError `json:"fields,omitempty"`
}

// CreateRecord implements POST /v1/records
func (s *Server) CreateRecord(ctx context.Context, request generated.CreateRecordRequestObject) (generated.CreateRecordResponseObject, error) {
	saved, err := s.catalog.Create(ctx, fromRecordInput(*request.Body))
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return generated.CreateRecord400JSONResponse(validationError(verr)), nil
		}
		return nil, err
	}
	return generated.CreateRecord201JSONResponse(toAPIRecord(*saved)), nil
}

// ListRecords implements GET /v1/records
func (s *Server) ListRecords(ctx context.Context, request generated.ListRecordsRequestObject) (generated.ListRecordsResponseObject, error) {
	recs, err := s.catalog.List(ctx, request.Params.Year)
	if err != nil {
		return nil, err
	}

	out := make(generated.ListRecords200JSONResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toAPIRecord(rec))
	}
	return out, nil
}

// GetRecordByName implements GET /v1/records/byName
func (s *Server) GetRecordByName(ctx context.Context, request generated.GetRecordByNameRequestObject) (generated.GetRecordByNameResponseObject, error) {
	rec, err := s.catalog.FindByName(ctx, request.Params.Name)
	if errors.Is(err, catalog.ErrNotFound) {
		return generated.GetRecordByName404JSONResponse{
			Error: "no record named " + request.Params.Name,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return generated.GetRecordByName200JSONResponse(toAPIRecord(*rec)), nil
}

// GetRecord implements GET /v1/records/{id}
func (s *Server) GetRecord(ctx context.Context, request generated.GetRecordRequestObject) (generated.GetRecordResponseObject, error) {
	rec, err := s.catalog.Get(ctx, request.Id)
	if errors.Is(err, catalog.ErrNotFound) {
		return generated.GetRecord404JSONResponse{Error: "record " + request.Id + " not found"}, nil
	}
	if err != nil {
		return nil, err
	}
	return generated.GetRecord200JSONResponse(toAPIRecord(*rec)), nil
}

// UpdateRecord implements PUT /v1/records/{id}
func (s *Server) UpdateRecord(ctx context.Context, request generated.UpdateRecordRequestObject) (generated.UpdateRecordResponseObject, error) {
	saved, err := s.catalog.Update(ctx, request.Id, fromRecordInput(*request.Body))
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return generated.UpdateRecord400JSONResponse(validationError(verr)), nil
	case errors.Is(err, catalog.ErrNotFound):
		return generated.UpdateRecord404JSONResponse{Error: "record " + request.Id + " not found"}, nil
	case err != nil:
		return nil, err
	}
	return generated.UpdateRecord200JSONResponse(toAPIRecord(*saved)), nil
}

// DeleteRecord implements DELETE /v1/records/{id}
func (s *Server) DeleteRecord(ctx context.Context, request generated.DeleteRecordRequestObject) (generated.DeleteRecordResponseObject, error) {
	err := s.catalog.Delete(ctx, request.Id)
	if errors.Is(err, catalog.ErrNotFound) {
		return generated.DeleteRecord404JSONResponse{Error: "record " + request.Id + " not found"}, nil
	}
	if err != nil {
		return nil, err
	}
	return generated.DeleteRecord204Response{}, nil
}

// rateLimit is a strict middleware that rejects writes beyond the configured
// rate with 429 before the operation runs.
func (s *Server) rateLimit(next generated.StrictHandlerFunc, operationID string) generated.StrictHandlerFunc {
	switch operationID {
	case "CreateRecord", "UpdateRecord", "DeleteRecord":
	default:
		return next
	}
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Debug("write rate limited", zap.String("operation", operationID))
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return nil, nil
		}
		return next(ctx, w, r, request)
	}
}

// requestError answers bodies the generated handlers could not decode.
func requestError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

// responseError answers operations that returned an error instead of a
// typed response.
func (s *Server) responseError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func fromRecordInput(in generated.RecordInput) store.Record {
	rec := store.Record{Name: in.Name, Year: in.Year}
	if in.Cast != nil {
		rec.Cast = *in.Cast
	}
	if in.ReleaseDate != nil {
		rec.ReleaseDate = *in.ReleaseDate
	}
	return rec
}

func toAPIRecord(rec store.Record) generated.Record {
	out := generated.Record{
		Id:   rec.ID,
		Name: rec.Name,
		Year: rec.Year,
		Cast: rec.Cast,
	}
	if out.Cast == nil {
		out.Cast = []string{}
	}
	if rec.ReleaseDate != "" {
		out.ReleaseDate = ptr(rec.ReleaseDate)
	}
	return out
}

func validationError(verr *catalog.ValidationError) generated.Error {
	fields := make([]generated.FieldError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fe := generated.FieldError{Field: f.Field, Rule: f.Rule}
		if f.Param != "" {
			fe.Param = ptr(f.Param)
		}
		fields = append(fields, fe)
	}
	return generated.Error{Error: verr.Error(), Fields: &fields}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ptr[T any](v T) *T { return &v }
