package httpresponder

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// ReadBody reads a request body up to MaxBodyBytes.
func ReadBody(httpWriter http.ResponseWriter, httpRequest *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(httpWriter, httpRequest.Body, MaxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return data, nil
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(httpWriter http.ResponseWriter, httpRequest *http.Request, dst any) error {
	data, err := ReadBody(httpWriter, httpRequest)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// SendSuccessResponse sends {"success": true}.
func SendSuccessResponse(httpWriter http.ResponseWriter, httpRequest *http.Request) {
	SendNormalResponse(httpWriter, httpRequest, map[string]bool{"success": true})
}

// SendNormalResponse sends a JSON response with status 200 OK.
func SendNormalResponse(httpWriter http.ResponseWriter, httpRequest *http.Request, payload interface{}) {
	SendJSON(httpWriter, httpRequest, http.StatusOK, payload)
}

func SendJSON(httpWriter http.ResponseWriter, httpRequest *http.Request, code int, payload interface{}) {
	httpWriter.Header().Set("Content-Type", "application/json")
	httpWriter.WriteHeader(code)
	json.NewEncoder(httpWriter).Encode(payload)
}

// SendErrorResponse sends a JSON error response with the specified status code and message.
func SendErrorResponse(httpWriter http.ResponseWriter, httpRequest *http.Request, message string, code int) {
	SendJSON(httpWriter, httpRequest, code, ErrorResponse{Error: message, Code: code})
}
