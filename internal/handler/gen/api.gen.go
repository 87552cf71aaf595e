// Package gen provides primitives to interact with the openapi HTTP API.
//
// The file is laid out the way oapi-codegen v2.4.1 emits cfg.yaml's targets
// (chi-server, strict-server, models) but is maintained by hand.
// `go generate ./internal/handler/gen` replaces it with the generator's
// output; TestRouter_RoutesEveryDocumentedOperation keeps the two in step.
package gen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	strictnethttp "github.com/oapi-codegen/runtime/strictmiddleware/nethttp"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for SearchStatus.
const (
	SearchStatusEmptyQuery SearchStatus = "empty_query"
	SearchStatusFailed     SearchStatus = "failed"
	SearchStatusFound      SearchStatus = "found"
	SearchStatusNotFound   SearchStatus = "not_found"
)

// Defines values for UploadOutcomeKind.
const (
	UploadOutcomeKindAborted         UploadOutcomeKind = "aborted"
	UploadOutcomeKindPartiallyFailed UploadOutcomeKind = "partially_failed"
	UploadOutcomeKindSucceeded       UploadOutcomeKind = "succeeded"
)

// Defines values for UploadPhase.
const (
	UploadPhaseAborted    UploadPhase = "aborted"
	UploadPhaseCompleted  UploadPhase = "completed"
	UploadPhaseGenerating UploadPhase = "generating"
	UploadPhaseIdle       UploadPhase = "idle"
	UploadPhaseUploading  UploadPhase = "uploading"
)

// Contact defines model for Contact.
type Contact struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Id        *int64     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Tag       *string    `json:"tag,omitempty"`
}

// ErrorDetail defines model for ErrorDetail.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status string `json:"status"`
}

// SearchResponse defines model for SearchResponse.
type SearchResponse struct {
	Data        []Contact    `json:"data"`
	Query       string       `json:"query"`
	ResultCount int          `json:"result_count"`
	Status      SearchStatus `json:"status"`
}

// SearchStatus defines model for SearchStatus.
type SearchStatus string

// SearchSummary defines model for SearchSummary.
type SearchSummary struct {
	Error       *string      `json:"error,omitempty"`
	Query       string       `json:"query"`
	ResultCount int          `json:"result_count"`
	Status      SearchStatus `json:"status"`
}

// SessionState defines model for SessionState.
type SessionState struct {
	Results []Contact     `json:"results"`
	Search  SearchSummary `json:"search"`
	Upload  UploadState   `json:"upload"`
}

// UploadOutcome defines model for UploadOutcome.
type UploadOutcome struct {
	FailedBatches *int              `json:"failed_batches,omitempty"`
	Kind          UploadOutcomeKind `json:"kind"`
	Reason        *string           `json:"reason,omitempty"`
}

// UploadOutcomeKind defines model for UploadOutcome.Kind.
type UploadOutcomeKind string

// UploadPhase defines model for UploadPhase.
type UploadPhase string

// UploadRequest defines model for UploadRequest.
type UploadRequest struct {
	Total *int `json:"total,omitempty"`
}

// UploadState defines model for UploadState.
type UploadState struct {
	FailedBatches int                 `json:"failed_batches"`
	Outcome       *UploadOutcome      `json:"outcome,omitempty"`
	Percent       int                 `json:"percent"`
	Phase         UploadPhase         `json:"phase"`
	RunId         *openapi_types.UUID `json:"run_id,omitempty"`
	TotalCount    int                 `json:"total_count"`
	UpdatedAt     time.Time           `json:"updated_at"`
	UploadedCount int                 `json:"uploaded_count"`
}

// SearchContactsParams defines parameters for SearchContacts.
type SearchContactsParams struct {
	// Q Free-text query matched against names (case-insensitive) and phone numbers.
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// StartUploadJSONRequestBody defines body for StartUpload for application/json ContentType.
type StartUploadJSONRequestBody = UploadRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Search contacts by name or phone
	// (GET /contacts/search)
	SearchContacts(w http.ResponseWriter, r *http.Request, params SearchContactsParams)
	// Health check
	// (GET /healthz)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// Current session state
	// (GET /session)
	GetSession(w http.ResponseWriter, r *http.Request)
	// Start a bulk upload of generated contacts
	// (POST /uploads)
	StartUpload(w http.ResponseWriter, r *http.Request)
	// Current upload progress
	// (GET /uploads/current)
	GetCurrentUpload(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// SearchContacts operation middleware
func (siw *ServerInterfaceWrapper) SearchContacts(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params SearchContactsParams

	// ------------- Optional query parameter "q" -------------

	err = runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchContacts(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetHealth(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSession(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// StartUpload operation middleware
func (siw *ServerInterfaceWrapper) StartUpload(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.StartUpload(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// GetCurrentUpload operation middleware
func (siw *ServerInterfaceWrapper) GetCurrentUpload(w http.ResponseWriter, r *http.Request) {

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCurrentUpload(w, r)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/contacts/search", wrapper.SearchContacts)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/healthz", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/session", wrapper.GetSession)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/uploads", wrapper.StartUpload)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/uploads/current", wrapper.GetCurrentUpload)
	})

	return r
}

type SearchContactsRequestObject struct {
	Params SearchContactsParams
}

type SearchContactsResponseObject interface {
	VisitSearchContactsResponse(w http.ResponseWriter) error
}

type SearchContacts200JSONResponse SearchResponse

func (response SearchContacts200JSONResponse) VisitSearchContactsResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type SearchContacts503JSONResponse ErrorResponse

func (response SearchContacts503JSONResponse) VisitSearchContactsResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(503)

	return json.NewEncoder(w).Encode(response)
}

type GetHealthRequestObject struct {
}

type GetHealthResponseObject interface {
	VisitGetHealthResponse(w http.ResponseWriter) error
}

type GetHealth200JSONResponse HealthResponse

func (response GetHealth200JSONResponse) VisitGetHealthResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type GetSessionRequestObject struct {
}

type GetSessionResponseObject interface {
	VisitGetSessionResponse(w http.ResponseWriter) error
}

type GetSession200JSONResponse SessionState

func (response GetSession200JSONResponse) VisitGetSessionResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

type StartUploadRequestObject struct {
	Body *StartUploadJSONRequestBody
}

type StartUploadResponseObject interface {
	VisitStartUploadResponse(w http.ResponseWriter) error
}

type StartUpload202JSONResponse UploadState

func (response StartUpload202JSONResponse) VisitStartUploadResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(202)

	return json.NewEncoder(w).Encode(response)
}

type StartUpload409JSONResponse ErrorResponse

func (response StartUpload409JSONResponse) VisitStartUploadResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(409)

	return json.NewEncoder(w).Encode(response)
}

type StartUpload422JSONResponse ErrorResponse

func (response StartUpload422JSONResponse) VisitStartUploadResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(422)

	return json.NewEncoder(w).Encode(response)
}

type GetCurrentUploadRequestObject struct {
}

type GetCurrentUploadResponseObject interface {
	VisitGetCurrentUploadResponse(w http.ResponseWriter) error
}

type GetCurrentUpload200JSONResponse UploadState

func (response GetCurrentUpload200JSONResponse) VisitGetCurrentUploadResponse(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	return json.NewEncoder(w).Encode(response)
}

// StrictServerInterface represents all server handlers.
type StrictServerInterface interface {
	// Search contacts by name or phone
	// (GET /contacts/search)
	SearchContacts(ctx context.Context, request SearchContactsRequestObject) (SearchContactsResponseObject, error)
	// Health check
	// (GET /healthz)
	GetHealth(ctx context.Context, request GetHealthRequestObject) (GetHealthResponseObject, error)
	// Current session state
	// (GET /session)
	GetSession(ctx context.Context, request GetSessionRequestObject) (GetSessionResponseObject, error)
	// Start a bulk upload of generated contacts
	// (POST /uploads)
	StartUpload(ctx context.Context, request StartUploadRequestObject) (StartUploadResponseObject, error)
	// Current upload progress
	// (GET /uploads/current)
	GetCurrentUpload(ctx context.Context, request GetCurrentUploadRequestObject) (GetCurrentUploadResponseObject, error)
}

type StrictHandlerFunc = strictnethttp.StrictHTTPHandlerFunc
type StrictMiddlewareFunc = strictnethttp.StrictHTTPMiddlewareFunc

type StrictHTTPServerOptions struct {
	RequestErrorHandlerFunc  func(w http.ResponseWriter, r *http.Request, err error)
	ResponseErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func NewStrictHandler(ssi StrictServerInterface, middlewares []StrictMiddlewareFunc) ServerInterface {
	return &strictHandler{ssi: ssi, middlewares: middlewares, options: StrictHTTPServerOptions{
		RequestErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
		ResponseErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		},
	}}
}

func NewStrictHandlerWithOptions(ssi StrictServerInterface, middlewares []StrictMiddlewareFunc, options StrictHTTPServerOptions) ServerInterface {
	return &strictHandler{ssi: ssi, middlewares: middlewares, options: options}
}

type strictHandler struct {
	ssi         StrictServerInterface
	middlewares []StrictMiddlewareFunc
	options     StrictHTTPServerOptions
}

// SearchContacts operation middleware
func (sh *strictHandler) SearchContacts(w http.ResponseWriter, r *http.Request, params SearchContactsParams) {
	var request SearchContactsRequestObject

	request.Params = params

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.SearchContacts(ctx, request.(SearchContactsRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "SearchContacts")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(SearchContactsResponseObject); ok {
		if err := validResponse.VisitSearchContactsResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetHealth operation middleware
func (sh *strictHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	var request GetHealthRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetHealth(ctx, request.(GetHealthRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetHealth")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetHealthResponseObject); ok {
		if err := validResponse.VisitGetHealthResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetSession operation middleware
func (sh *strictHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	var request GetSessionRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetSession(ctx, request.(GetSessionRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetSession")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetSessionResponseObject); ok {
		if err := validResponse.VisitGetSessionResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// StartUpload operation middleware
func (sh *strictHandler) StartUpload(w http.ResponseWriter, r *http.Request) {
	var request StartUploadRequestObject

	var body StartUploadJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if !errors.Is(err, io.EOF) {
			sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
			return
		}
	} else {
		request.Body = &body
	}

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.StartUpload(ctx, request.(StartUploadRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "StartUpload")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(StartUploadResponseObject); ok {
		if err := validResponse.VisitStartUploadResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}

// GetCurrentUpload operation middleware
func (sh *strictHandler) GetCurrentUpload(w http.ResponseWriter, r *http.Request) {
	var request GetCurrentUploadRequestObject

	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
		return sh.ssi.GetCurrentUpload(ctx, request.(GetCurrentUploadRequestObject))
	}
	for _, middleware := range sh.middlewares {
		handler = middleware(handler, "GetCurrentUpload")
	}

	response, err := handler(r.Context(), w, r, request)

	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	} else if validResponse, ok := response.(GetCurrentUploadResponseObject); ok {
		if err := validResponse.VisitGetCurrentUploadResponse(w); err != nil {
			sh.options.ResponseErrorHandlerFunc(w, r, err)
		}
	} else if response != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, fmt.Errorf("unexpected response type: %T", response))
	}
}
