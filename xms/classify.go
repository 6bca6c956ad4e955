package xms

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// apiErrorBody is the error document sent with 400 and 403 responses.
type apiErrorBody struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// classify maps a completed exchange onto nil (success) or one of the typed
// errors. It never inspects the body of a successful response.
func classify(status int, body []byte, requestURL, servicePlanID, token string) error {
	switch status {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusBadRequest, http.StatusForbidden:
		var eb apiErrorBody
		if err := json.Unmarshal(body, &eb); err != nil {
			return &UnexpectedResponseError{
				StatusCode: status,
				Message:    fmt.Sprintf("status %d with malformed error body: %v", status, err),
				Body:       body,
			}
		}
		return &APIError{StatusCode: status, Code: eb.Code, Text: eb.Text}
	case http.StatusNotFound:
		return &NotFoundError{URL: requestURL}
	case http.StatusUnauthorized:
		return &UnauthorizedError{ServicePlanID: servicePlanID, Token: token}
	default:
		return &UnexpectedResponseError{
			StatusCode: status,
			Message:    fmt.Sprintf("unexpected status %d", status),
			Body:       body,
		}
	}
}
