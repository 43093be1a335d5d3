package service

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body returned for any non-2xx result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a handler's fully-formed response, deferred until WriteResponse
// so logging and marshaling happen in one place.
type Result struct {
	Status      int
	InternalMsg string
	resp        interface{}
}

// OK wraps respObj as a 200 response.
func OK(respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{Status: http.StatusOK, InternalMsg: fmt.Sprintf(internalMsg, v...), resp: respObj}
}

// Created wraps respObj as a 201 response.
func Created(respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{Status: http.StatusCreated, InternalMsg: fmt.Sprintf(internalMsg, v...), resp: respObj}
}

// Err returns a JSON error response with the given status and user-facing
// message; internalMsg is recorded for the log only.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

func BadRequest(userMsg string, internalMsg string, v ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg, v...)
}

func Unauthorized(userMsg string, internalMsg string, v ...interface{}) Result {
	if userMsg == "" {
		userMsg = "credentials were missing or invalid"
	}
	return Err(http.StatusUnauthorized, userMsg, internalMsg, v...)
}

func NotFound(internalMsg string, v ...interface{}) Result {
	return Err(http.StatusNotFound, "the requested resource was not found", internalMsg, v...)
}

func InternalServerError(internalMsg string, v ...interface{}) Result {
	return Err(http.StatusInternalServerError, "an internal server error occurred", internalMsg, v...)
}

// WriteResponse marshals and writes r to w. log, if non-nil, receives the
// internal message for every request regardless of status.
func (r Result) WriteResponse(w http.ResponseWriter, log func(string)) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if log != nil {
		log(fmt.Sprintf("[%d] %s", r.Status, r.InternalMsg))
	}

	body, err := json.Marshal(r.resp)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response","status":500}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.Status)
	w.Write(body)
}
