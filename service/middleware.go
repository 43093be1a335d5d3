package service

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// recoverMiddleware converts a panicking handler into a 500 response
// instead of taking down the whole server, the way the teacher's
// DontPanic middleware does.
func (s *Service) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				InternalServerError("panic: %v\n%s", rec, string(debug.Stack())).WriteResponse(w, s.log)
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func (s *Service) log(msg string) {
	if s.logFn != nil {
		s.logFn(msg)
	} else {
		fmt.Println(msg)
	}
}
