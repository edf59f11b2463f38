package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Endpoint names joined onto the base URL.
const (
	EndpointSignIn  = "signin"
	EndpointGetUser = "getuser"
	EndpointSignUp  = "signup"
)

const defaultMaxBody = 1 << 20

// Client talks to the remote identity service.
// It performs no retries: every failure is final for that call.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	maxBody int64
	logger  *slog.Logger
}

// New creates a Client for the identity API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL: u.String(),
		maxBody: defaultMaxBody,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = cleanhttp.DefaultPooledClient()
	}

	return c, nil
}

// SignIn authenticates credentials and then fetches the user's profile.
//
// The profile call is only made after authentication succeeded. A failed
// profile call yields a KindProfileFetch error even though tokens were issued;
// no partial result is returned in that case.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*Result, error) {
	status, body, err := c.post(ctx, EndpointSignIn, creds)
	if err != nil {
		return nil, &Error{Op: EndpointSignIn, Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if !success(status) {
		return nil, rejected(EndpointSignIn, status, body, MsgSignInFailed)
	}

	tokens, err := decodeTokens(body)
	if err != nil {
		return nil, &Error{Op: EndpointSignIn, Kind: KindMalformed, Status: status, Message: MsgSignInFailed, Err: err}
	}

	user, err := c.GetUser(ctx, tokens.AccessToken)
	if err != nil {
		msg := MsgGetUserFailed
		var ie *Error
		if errors.As(err, &ie) && ie.Kind == KindRejected {
			msg = ie.Message
		}
		return nil, &Error{Op: EndpointGetUser, Kind: KindProfileFetch, Status: statusOf(err), Message: msg, Err: err}
	}

	return &Result{Tokens: tokens, User: user}, nil
}

// GetUser fetches the profile for accessToken. The payload is returned verbatim.
func (c *Client) GetUser(ctx context.Context, accessToken string) (json.RawMessage, error) {
	status, body, err := c.post(ctx, EndpointGetUser, accessTokenRequest{AccessToken: accessToken})
	if err != nil {
		return nil, &Error{Op: EndpointGetUser, Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if !success(status) {
		return nil, rejected(EndpointGetUser, status, body, MsgGetUserFailed)
	}
	if !json.Valid(body) {
		return nil, &Error{Op: EndpointGetUser, Kind: KindMalformed, Status: status, Message: MsgGetUserFailed}
	}
	return json.RawMessage(body), nil
}

// SignUp registers a new account. Registration does not sign the user in.
func (c *Client) SignUp(ctx context.Context, reg Registration) (json.RawMessage, error) {
	status, body, err := c.post(ctx, EndpointSignUp, reg)
	if err != nil {
		return nil, &Error{Op: EndpointSignUp, Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if !success(status) {
		return nil, rejected(EndpointSignUp, status, body, MsgSignUpFailed)
	}
	if !json.Valid(body) {
		return nil, &Error{Op: EndpointSignUp, Kind: KindMalformed, Status: status, Message: MsgSignUpFailed}
	}
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	target, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return 0, nil, err
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(reqBody))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "identity request failed",
			logger.Component("identity"),
			logger.Operation(endpoint),
			logger.Endpoint(target),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return 0, nil, err
	}

	c.logger.DebugContext(ctx, "identity request completed",
		logger.Component("identity"),
		logger.Operation(endpoint),
		logger.Endpoint(target),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	return resp.StatusCode, body, nil
}

// decodeTokens accepts both response shapes: a nested "AuthenticationResult"
// object, or the token bundle at the top level.
func decodeTokens(body []byte) (Tokens, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Tokens{}, err
	}

	bundle := json.RawMessage(body)
	for key, raw := range envelope {
		if strings.EqualFold(key, "AuthenticationResult") && len(raw) > 0 && raw[0] == '{' {
			bundle = raw
			break
		}
	}

	var tokens Tokens
	if err := json.Unmarshal(bundle, &tokens); err != nil {
		return Tokens{}, err
	}
	if tokens.IDToken == "" || tokens.AccessToken == "" {
		return Tokens{}, errors.New("token bundle is missing IdToken or AccessToken")
	}
	return tokens, nil
}

func rejected(op string, status int, body []byte, fallback string) *Error {
	msg := fallback
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		msg = er.Error
	}
	return &Error{Op: op, Kind: KindRejected, Status: status, Message: msg}
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
