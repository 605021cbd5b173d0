package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Success(t *testing.T) {
	var gotForm struct {
		secret, response, remoteIP string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm.secret = r.PostFormValue("secret")
		gotForm.response = r.PostFormValue("response")
		gotForm.remoteIP = r.PostFormValue("remoteip")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	verifier := NewVerifierWithURL(server.URL)
	err := verifier.Verify(context.Background(), "secret-key", "client-token", "1.2.3.4")

	assert.NoError(t, err)
	assert.Equal(t, "secret-key", gotForm.secret)
	assert.Equal(t, "client-token", gotForm.response)
	assert.Equal(t, "1.2.3.4", gotForm.remoteIP)
}

func TestVerifier_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	verifier := NewVerifierWithURL(server.URL)
	err := verifier.Verify(context.Background(), "secret-key", "bad-token", "")

	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestVerifier_MissingInputs(t *testing.T) {
	verifier := NewVerifier()

	assert.ErrorIs(t, verifier.Verify(context.Background(), "", "token", ""), ErrNotConfigured)
	assert.ErrorIs(t, verifier.Verify(context.Background(), "secret", "", ""), ErrMissingToken)
}

func TestVerifier_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	verifier := NewVerifierWithURL(server.URL)
	err := verifier.Verify(context.Background(), "secret-key", "token", "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, err.Error(), "502")
}
