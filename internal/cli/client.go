package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsarena/internal/protocol"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Get performs a GET request and decodes the JSON response into result
func (c *Client) Get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return fmt.Errorf("%s", errResp.Error.String())
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Session is an open arena WebSocket
type Session struct {
	conn    *websocket.Conn
	verbose io.Writer
	cancel  context.CancelFunc
}

// Dial opens a WebSocket session. Frames are traced to verbose when it is non-nil.
func Dial(ctx context.Context, wsURL string, verbose io.Writer) (*Session, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection failed: HTTP %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{conn: conn, verbose: verbose, cancel: cancel}

	// Unblock pending reads when the caller gives up
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	return s, nil
}

// Send writes a command frame
func (s *Session) Send(cmd protocol.Command) error {
	frame, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	s.trace(">", frame)
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// Next blocks until the next server frame arrives
func (s *Session) Next() (protocol.Envelope, error) {
	_, frame, err := s.conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, err
	}
	s.trace("<", frame)
	return protocol.DecodeEnvelope(frame)
}

// Close sends a close frame and releases the connection
func (s *Session) Close() error {
	defer s.cancel()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}

func (s *Session) trace(dir string, frame []byte) {
	if s.verbose != nil {
		_, _ = fmt.Fprintf(s.verbose, "%s %s\n", dir, frame)
	}
}
