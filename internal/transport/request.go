package transport

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
)

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// DecodeXML decodes an XML response into target. Non-200 responses become
// an *errors.APIError attributed to source.
func DecodeXML(resp *http.Response, source string, target any) error {
	return decode(resp, source, "xml", func(body []byte) error {
		return xml.Unmarshal(body, target)
	})
}

// DecodeJSON decodes a JSON response into target. Non-200 responses become
// an *errors.APIError attributed to source.
func DecodeJSON(resp *http.Response, source string, target any) error {
	return decode(resp, source, "json", func(body []byte) error {
		return json.Unmarshal(body, target)
	})
}

func decode(resp *http.Response, source, format string, unmarshal func([]byte) error) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		apiErr := errors.NewAPIError(source, resp.StatusCode, msg)
		if resp.Request != nil {
			apiErr.Endpoint = resp.Request.URL.String()
		}
		return apiErr
	}

	if err := unmarshal(body); err != nil {
		return errors.WrapParse(format, "response", err)
	}
	return nil
}
