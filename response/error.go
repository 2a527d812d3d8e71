// response/error.go
// This package provides utility functions and structures for handling HTTP responses returned to the dispatcher.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ErrHTTPStatus is matched by every *APIError via errors.Is.
var ErrHTTPStatus = errors.New("http error status")

// APIError represents an API error response (any status >= 400 other than 401).
type APIError struct {
	StatusCode  int      `json:"status_code"`       // HTTP status code
	Method      string   `json:"method"`            // HTTP method used for the request
	URL         string   `json:"url"`               // The URL of the HTTP request
	Message     string   `json:"message"`           // Summary of the error
	Details     []string `json:"details,omitempty"` // Detailed error messages, if any
	RawResponse string   `json:"raw_response"`      // Raw response body for debugging
}

// Error returns a string representation of the APIError, making it compatible with the error interface.
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API Error: StatusCode=%d, Method=%s, URL=%s, Message=%s", e.StatusCode, e.Method, e.URL, message)
}

// Is reports whether target is ErrHTTPStatus.
func (e *APIError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// HandleAPIErrorResponse reads the error body of resp, extracts a message according to its content type,
// and logs the failure. The body is always captured verbatim in RawResponse.
func HandleAPIErrorResponse(resp *http.Response, log logger.Logger) *APIError {
	apiError := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	if resp.Request != nil {
		apiError.Method = resp.Request.Method
		apiError.URL = resp.Request.URL.String()
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		apiError.RawResponse = "Failed to read response body"
		log.LogError("response_body_read_error", apiError.Method, apiError.URL, apiError.StatusCode, err, "")
		return apiError
	}

	if len(bytes.TrimSpace(bodyBytes)) > 0 {
		mimeType, _ := parseHeader(resp.Header.Get("Content-Type"))
		switch {
		case mimeType == "application/json" || strings.HasSuffix(mimeType, "+json"):
			parseJSONResponse(bodyBytes, apiError)
		case mimeType == "application/xml" || mimeType == "text/xml":
			parseXMLResponse(bodyBytes, apiError)
		case mimeType == "text/html":
			parseHTMLResponse(bodyBytes, apiError)
		default:
			parseTextResponse(bodyBytes, apiError)
		}
	}
	apiError.RawResponse = string(bodyBytes)

	log.LogError("api_error_response", apiError.Method, apiError.URL, apiError.StatusCode, errors.New(apiError.Message), apiError.RawResponse)
	log.Debug("Parsed API error response", zap.Strings("details", apiError.Details))

	return apiError
}

// parseJSONResponse looks for the usual message fields of a JSON error body.
func parseJSONResponse(bodyBytes []byte, apiError *APIError) {
	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		parseTextResponse(bodyBytes, apiError)
		return
	}

	if nested, ok := body["error"].(map[string]any); ok {
		if msg, ok := nested["message"].(string); ok && msg != "" {
			apiError.Message = msg
		}
	} else if msg, ok := body["error"].(string); ok && msg != "" {
		apiError.Message = msg
	}
	for _, key := range []string{"message", "error_description", "detail"} {
		if msg, ok := body[key].(string); ok && msg != "" {
			if key == "message" {
				apiError.Message = msg
			} else {
				apiError.Details = append(apiError.Details, msg)
			}
		}
	}
	if errs, ok := body["errors"].([]any); ok {
		for _, e := range errs {
			switch v := e.(type) {
			case string:
				apiError.Details = append(apiError.Details, v)
			case map[string]any:
				if desc, ok := v["description"].(string); ok {
					apiError.Details = append(apiError.Details, desc)
				} else if msg, ok := v["message"].(string); ok {
					apiError.Details = append(apiError.Details, msg)
				}
			}
		}
	}
}

// parseXMLResponse dynamically parses XML error responses and accumulates potential error messages.
func parseXMLResponse(bodyBytes []byte, apiError *APIError) {
	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
		apiError.Details = messages
	}
}

// parseTextResponse uses the trimmed body text as the message.
func parseTextResponse(bodyBytes []byte, apiError *APIError) {
	apiError.Message = strings.TrimSpace(string(bodyBytes))
}

// parseHTMLResponse concatenates the text of every <p> element, including the targets of links inside them.
// Pages without paragraphs fall back to the <title>.
func parseHTMLResponse(bodyBytes []byte, apiError *APIError) {
	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var title string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			var pContent strings.Builder
			var traverseChildren func(*html.Node)
			traverseChildren = func(c *html.Node) {
				if c.Type == html.TextNode {
					pContent.WriteString(strings.TrimSpace(c.Data) + " ")
				} else if c.Type == html.ElementNode && c.Data == "a" {
					for _, attr := range c.Attr {
						if attr.Key == "href" {
							pContent.WriteString("[Link: " + attr.Val + "] ")
							break
						}
					}
				}
				for child := c.FirstChild; child != nil; child = child.NextSibling {
					traverseChildren(child)
				}
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				traverseChildren(child)
			}
			if finalContent := strings.TrimSpace(pContent.String()); finalContent != "" {
				messages = append(messages, finalContent)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	switch {
	case len(messages) > 0:
		apiError.Message = strings.Join(messages, "; ")
	case title != "":
		apiError.Message = title
	}
}
