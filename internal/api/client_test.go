package api

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/monument-ai/athena/internal/errors"
	"github.com/monument-ai/athena/internal/models"
)

func newTestClient(t *testing.T, doer HTTPDoer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(doer), WithBaseURL("http://athena.test")}, opts...)
	client, err := NewClient(opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		opts        []ClientOption
		wantErr     bool
		wantBaseURL string
	}{
		{
			name:        "defaults",
			wantBaseURL: models.DefaultBaseURL,
		},
		{
			name:        "custom base URL trims trailing slash",
			opts:        []ClientOption{WithBaseURL("http://localhost:8000/")},
			wantBaseURL: "http://localhost:8000",
		},
		{
			name:    "empty base URL",
			opts:    []ClientOption{WithBaseURL("")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&MockHttpClient{})}, tt.opts...)
			client, err := NewClient(opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apierrors.ErrInvalidBaseURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBaseURL, client.BaseURL())
		})
	}
}

func TestNewClient_DefaultTransport(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)
	assert.NotNil(t, client.httpClient)
	client.Close()
}

func TestPrompt_WireContract(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"hi"}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Prompt(context.Background(), "hello world & more?")
	require.NoError(t, err)

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, fhttp.MethodPost, req.Method)
	assert.Equal(t, "/prompt", req.URL.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Accept"), "only Content-Type is part of the prompt request")
	assert.Nil(t, req.Body, "prompt must travel in the query, not the body")

	assert.Contains(t, req.URL.RawQuery, "prompt=hello%20world%20%26%20more%3F")
	values, err := url.ParseQuery(req.URL.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "hello world & more?", values.Get("prompt"))
}

func TestPrompt_Responses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		want       string
		wantKind   apierrors.FetchKind
		wantStatus int
	}{
		{name: "response field", body: `{"response":"hi"}`, status: 200, want: "hi"},
		{name: "empty object", body: `{}`, status: 200, want: models.NoResponseText},
		{name: "null field", body: `{"response":null}`, status: 200, want: models.NoResponseText},
		{name: "empty string", body: `{"response":""}`, status: 200, want: models.NoResponseText},
		{name: "false", body: `{"response":false}`, status: 200, want: models.NoResponseText},
		{name: "zero", body: `{"response":0}`, status: 200, want: models.NoResponseText},
		{name: "number", body: `{"response":42}`, status: 200, want: "42"},
		{name: "true", body: `{"response":true}`, status: 200, want: "true"},
		{name: "duplicate key keeps last", body: `{"response":"a","response":"b"}`, status: 200, want: "b"},
		{name: "duplicate key last null", body: `{"response":"a","response":null}`, status: 200, want: models.NoResponseText},
		{name: "nested response ignored", body: `{"data":{"response":"x"}}`, status: 200, want: models.NoResponseText},
		{name: "array body", body: `["a"]`, status: 200, want: models.NoResponseText},
		{name: "201 is success", body: `{"response":"created"}`, status: 201, want: "created"},
		{name: "server error", body: `{"detail":"boom"}`, status: 500, wantKind: apierrors.KindStatus, wantStatus: 500},
		{name: "not found", body: ``, status: 404, wantKind: apierrors.KindStatus, wantStatus: 404},
		{name: "validation error", body: `{"detail":[]}`, status: 422, wantKind: apierrors.KindStatus, wantStatus: 422},
		{name: "invalid JSON", body: `<html>oops</html>`, status: 200, wantKind: apierrors.KindParse},
		{name: "empty body", body: ``, status: 200, wantKind: apierrors.KindParse},
		{name: "null body", body: `null`, status: 200, wantKind: apierrors.KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), tt.status))

			got, err := client.Prompt(context.Background(), "hello")
			if tt.wantKind != apierrors.KindUnknown {
				require.Error(t, err)
				assert.ErrorIs(t, err, apierrors.ErrReplyFetch)
				assert.Equal(t, tt.wantKind, apierrors.GetKind(err))
				assert.Equal(t, tt.wantStatus, apierrors.GetHTTPStatus(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompt_NetworkError(t *testing.T) {
	client := newTestClient(t, NewMockHttpClientWithError(errors.New("dial tcp: connection refused")))

	_, err := client.Prompt(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.Equal(t, "dial tcp: connection refused", err.Error())
}

func TestPrompt_BodyReadError(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	mock.Response.Body = &MockResponseBody{err: io.ErrUnexpectedEOF}
	client := newTestClient(t, mock)

	_, err := client.Prompt(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
}

func TestPrompt_EmptyPrompt(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"hi"}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Prompt(context.Background(), "")
	assert.ErrorIs(t, err, apierrors.ErrEmptyPrompt)
	assert.Empty(t, mock.Requests, "no request may be sent for an empty prompt")
}

func TestPrompt_ClosedClient(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"hi"}`), 200)
	client := newTestClient(t, mock)
	client.Close()
	client.Close()

	assert.True(t, client.IsClosed())
	assert.True(t, mock.IdleClosed)

	_, err := client.Prompt(context.Background(), "hello")
	assert.Error(t, err)
}

func TestPrompt_NoDeadlineAdded(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"hi"}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Prompt(context.Background(), "hello")
	require.NoError(t, err)

	_, ok := mock.LastRequest().Context().Deadline()
	assert.False(t, ok, "request context should not carry a deadline")
}

func TestRequestReply(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		want       string
		wantPrefix string
	}{
		{name: "reply", body: `{"response":"hi"}`, status: 200, want: "hi"},
		{name: "fallback", body: `{}`, status: 200, want: "Sorry, no response from server."},
		{name: "500", body: `{}`, status: 500, want: "Error fetching response: HTTP error! Status: 500"},
		{name: "bad JSON", body: `nope`, status: 200, wantPrefix: "Error fetching response: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), tt.status))
			got := client.RequestReply(context.Background(), "hello")
			if tt.wantPrefix != "" {
				assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "got %q", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestReply_NetworkFailure(t *testing.T) {
	client := newTestClient(t, NewMockHttpClientWithError(errors.New("no route to host")))
	assert.Equal(t, "Error fetching response: no route to host", client.RequestReply(context.Background(), "hello"))
}

func TestHealth(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"status":"OK","message":"Conway service is running"}`), 200)
	client := newTestClient(t, mock)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OK())
	assert.Equal(t, "Conway service is running", status.Message)

	req := mock.LastRequest()
	assert.Equal(t, fhttp.MethodGet, req.Method)
	assert.Equal(t, "http://athena.test/", req.URL.String())
}

func TestHealth_Failures(t *testing.T) {
	_, err := newTestClient(t, NewMockHttpClient([]byte(`{}`), 503)).Health(context.Background())
	assert.Equal(t, 503, apierrors.GetHTTPStatus(err))

	_, err = newTestClient(t, NewMockHttpClient([]byte(`garbage`), 200)).Health(context.Background())
	assert.True(t, apierrors.IsParseError(err))
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"hello world", "hello%20world"},
		{"a+b", "a%2Bb"},
		{"q?x=1&y=2", "q%3Fx%3D1%26y%3D2"},
		{"hi! (it's *me*) ~", "hi!%20(it's%20*me*)%20~"},
		{"‘monument’", "%E2%80%98monument%E2%80%99"},
	}

	for _, tt := range tests {
		if got := encodeURIComponent(tt.in); got != tt.want {
			t.Errorf("encodeURIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMockClient(t *testing.T) {
	mock := &MockClient{PromptErr: apierrors.NewStatusError(500, models.EndpointPrompt)}

	got := mock.RequestReply(context.Background(), "hello")
	assert.Equal(t, "Error fetching response: HTTP error! Status: 500", got)
	assert.Equal(t, []string{"hello"}, mock.Prompts())
	assert.Equal(t, models.DefaultBaseURL, mock.BaseURL())
}
